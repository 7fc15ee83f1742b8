package repositories

import (
	"context"
	"database/sql"

	"opphub/internal/models"
)

type LookupRepository interface {
	FindByCodeType(ctx context.Context, codeType string) ([]models.LookupCode, error)
}

type lookupRepository struct {
	db *sql.DB
}

func NewLookupRepository(db *sql.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) FindByCodeType(ctx context.Context, codeType string) ([]models.LookupCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code_type, code, value
		FROM lookup_codes
		WHERE code_type = $1
		ORDER BY value`, codeType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.LookupCode
	for rows.Next() {
		var c models.LookupCode
		if err := rows.Scan(&c.ID, &c.CodeType, &c.Code, &c.Value); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}
