package services

import (
	"time"

	"opphub/internal/models"
)

// Allowed opportunity states.
var opportunityStates = map[models.OpportunityState]bool{
	models.StateDraft:      true,
	models.StateSubmitted:  true,
	models.StateOpen:       true,
	models.StateAssigned:   true,
	models.StateInProgress: true,
	models.StateCompleted:  true,
	models.StateCanceled:   true,
}

func isValidState(s models.OpportunityState) bool {
	return opportunityStates[s]
}

// ApplyStateTimestamps mutates the opportunity's state-entry timestamps
// for a transition into next. A timestamp is stamped only on the first
// entry into its state: once set it is never cleared or overwritten, so
// re-entering a state is idempotent for its timestamp. The caller
// passes now to keep this a pure function of its inputs.
func ApplyStateTimestamps(opp *models.Opportunity, next models.OpportunityState, now time.Time) {
	stamp := func(existing **time.Time, state models.OpportunityState) {
		if next == state && *existing == nil {
			t := now
			*existing = &t
		}
	}
	stamp(&opp.SubmittedAt, models.StateSubmitted)
	stamp(&opp.PublishedAt, models.StateOpen)
	stamp(&opp.AssignedAt, models.StateAssigned)
	stamp(&opp.CompletedAt, models.StateCompleted)
	stamp(&opp.CanceledAt, models.StateCanceled)
	opp.State = next
	opp.UpdatedAt = now
}
