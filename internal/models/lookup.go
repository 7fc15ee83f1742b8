package models

// LookupCode is a row of the shared enumeration table (degree types,
// language proficiencies, reference types, ...).
type LookupCode struct {
	ID       int64  `json:"id"`
	CodeType string `json:"code_type"`
	Code     string `json:"code"`
	Value    string `json:"value"`
}
