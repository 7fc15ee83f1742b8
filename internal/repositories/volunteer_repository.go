package repositories

import (
	"context"
	"database/sql"

	"opphub/internal/models"
)

type VolunteerRepository interface {
	Store(ctx context.Context, v *models.Volunteer) error
	FindByOpportunity(ctx context.Context, opportunityID int64) ([]models.Volunteer, error)
	SetAssigned(ctx context.Context, id int64, assigned bool) error
	SetTaskComplete(ctx context.Context, id int64, complete bool) error
	DeleteByOpportunity(ctx context.Context, opportunityID int64) error
}

type volunteerRepository struct {
	db *sql.DB
}

func NewVolunteerRepository(db *sql.DB) VolunteerRepository {
	return &volunteerRepository{db: db}
}

func (r *volunteerRepository) Store(ctx context.Context, v *models.Volunteer) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO volunteers (opportunity_id, user_id, assigned, task_complete, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING id, created_at, updated_at`,
		v.OpportunityID, v.UserID, v.Assigned, v.TaskComplete,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

// FindByOpportunity joins the recipient fields needed for notification
// fan-out; insertion order is the assignment order.
func (r *volunteerRepository) FindByOpportunity(ctx context.Context, opportunityID int64) ([]models.Volunteer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.id, v.opportunity_id, v.user_id, v.assigned, v.task_complete,
		       v.created_at, v.updated_at,
		       u.name, u.email, u.bounced, u.telegram_chat_id
		FROM volunteers v
		JOIN users u ON u.id = v.user_id
		WHERE v.opportunity_id = $1
		ORDER BY v.id`, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vols []models.Volunteer
	for rows.Next() {
		var v models.Volunteer
		if err := rows.Scan(
			&v.ID, &v.OpportunityID, &v.UserID, &v.Assigned, &v.TaskComplete,
			&v.CreatedAt, &v.UpdatedAt,
			&v.Name, &v.Email, &v.Bounced, &v.TelegramChatID,
		); err != nil {
			return nil, err
		}
		vols = append(vols, v)
	}
	return vols, rows.Err()
}

func (r *volunteerRepository) SetAssigned(ctx context.Context, id int64, assigned bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE volunteers SET assigned=$1, updated_at=NOW() WHERE id=$2`, assigned, id)
	return err
}

func (r *volunteerRepository) SetTaskComplete(ctx context.Context, id int64, complete bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE volunteers SET task_complete=$1, updated_at=NOW() WHERE id=$2`, complete, id)
	return err
}

func (r *volunteerRepository) DeleteByOpportunity(ctx context.Context, opportunityID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM volunteers WHERE opportunity_id = $1`, opportunityID)
	return err
}
