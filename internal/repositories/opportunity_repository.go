package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"opphub/internal/authz"
	"opphub/internal/models"
)

type OpportunityRepository interface {
	Store(ctx context.Context, opp *models.Opportunity) error
	FindByID(ctx context.Context, id int64) (*models.Opportunity, error)
	FindAll(ctx context.Context, viewer *models.User) ([]models.Opportunity, error)
	Update(ctx context.Context, opp *models.Opportunity) error
	UpdateStateAndTimestamps(ctx context.Context, opp *models.Opportunity) error
	Delete(ctx context.Context, id int64) error
	ListDueBy(ctx context.Context, day time.Time, state models.OpportunityState) ([]models.Opportunity, error)
	ListByCommunity(ctx context.Context, communityID int64) ([]models.Opportunity, error)
}

type opportunityRepository struct {
	db *sql.DB
}

func NewOpportunityRepository(db *sql.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

const opportunityColumns = `id, title, description, details, outcome, about, state,
       owner_id, agency_id, community_id, restrict, complete_by,
       submitted_at, published_at, assigned_at, completed_at, canceled_at,
       created_at, updated_at`

func (r *opportunityRepository) Store(ctx context.Context, opp *models.Opportunity) error {
	restrict, err := json.Marshal(opp.Restrict)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO opportunities (
			title, description, details, outcome, about, state,
			owner_id, agency_id, community_id, restrict, complete_by,
			submitted_at, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		opp.Title, opp.Description, opp.Details, opp.Outcome, opp.About, opp.State,
		opp.OwnerID, opp.AgencyID, opp.CommunityID, restrict, opp.CompleteBy,
		opp.SubmittedAt, opp.CreatedAt, opp.UpdatedAt,
	).Scan(&opp.ID, &opp.CreatedAt, &opp.UpdatedAt)
}

func (r *opportunityRepository) FindByID(ctx context.Context, id int64) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`
	opp, err := scanOpportunity(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return opp, err
}

// FindAll applies the visibility policy: admins see everything, other
// viewers see unrestricted opportunities plus those restricted to their
// own agency or its parent.
func (r *opportunityRepository) FindAll(ctx context.Context, viewer *models.User) ([]models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities`
	args := []interface{}{}

	if viewer == nil || viewer.RoleID != authz.RoleAdmin {
		query += ` WHERE restrict::text = '{}' OR restrict->>'projectNetwork' = 'false'`
		if viewer != nil && viewer.Agency != nil && viewer.Agency.Abbr != "" {
			query += ` OR restrict->>'abbr' = $1 OR restrict->>'parentAbbr' = $1`
			args = append(args, viewer.Agency.Abbr)
			if viewer.Agency.ParentAbbr != "" {
				query += ` OR restrict->>'abbr' = $2 OR restrict->>'parentAbbr' = $2`
				args = append(args, viewer.Agency.ParentAbbr)
			}
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *opp)
	}
	return opps, rows.Err()
}

func (r *opportunityRepository) Update(ctx context.Context, opp *models.Opportunity) error {
	restrict, err := json.Marshal(opp.Restrict)
	if err != nil {
		return err
	}
	query := `
		UPDATE opportunities SET
			title=$1, description=$2, details=$3, outcome=$4, about=$5, state=$6,
			agency_id=$7, community_id=$8, restrict=$9, complete_by=$10,
			submitted_at=$11, published_at=$12, assigned_at=$13, completed_at=$14,
			canceled_at=$15, updated_at=$16
		WHERE id=$17`
	res, err := r.db.ExecContext(ctx, query,
		opp.Title, opp.Description, opp.Details, opp.Outcome, opp.About, opp.State,
		opp.AgencyID, opp.CommunityID, restrict, opp.CompleteBy,
		opp.SubmittedAt, opp.PublishedAt, opp.AssignedAt, opp.CompletedAt,
		opp.CanceledAt, opp.UpdatedAt, opp.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// UpdateStateAndTimestamps writes only the lifecycle fields, leaving
// content attributes untouched.
func (r *opportunityRepository) UpdateStateAndTimestamps(ctx context.Context, opp *models.Opportunity) error {
	query := `
		UPDATE opportunities SET
			state=$1, submitted_at=$2, published_at=$3, assigned_at=$4,
			completed_at=$5, canceled_at=$6, updated_at=$7
		WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query,
		opp.State, opp.SubmittedAt, opp.PublishedAt, opp.AssignedAt,
		opp.CompletedAt, opp.CanceledAt, opp.UpdatedAt, opp.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *opportunityRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	return err
}

// ListDueBy returns opportunities in the given state whose completion
// date falls on the given day.
func (r *opportunityRepository) ListDueBy(ctx context.Context, day time.Time, state models.OpportunityState) ([]models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE complete_by::date = $1::date AND state = $2
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, day, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *opp)
	}
	return opps, rows.Err()
}

func (r *opportunityRepository) ListByCommunity(ctx context.Context, communityID int64) ([]models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE community_id = $1
		ORDER BY state, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *opp)
	}
	return opps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOpportunity(row rowScanner) (*models.Opportunity, error) {
	opp := &models.Opportunity{}
	var restrict []byte
	err := row.Scan(
		&opp.ID, &opp.Title, &opp.Description, &opp.Details, &opp.Outcome, &opp.About,
		&opp.State, &opp.OwnerID, &opp.AgencyID, &opp.CommunityID, &restrict,
		&opp.CompleteBy, &opp.SubmittedAt, &opp.PublishedAt, &opp.AssignedAt,
		&opp.CompletedAt, &opp.CanceledAt, &opp.CreatedAt, &opp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(restrict) > 0 {
		if err := json.Unmarshal(restrict, &opp.Restrict); err != nil {
			return nil, err
		}
	}
	return opp, nil
}
