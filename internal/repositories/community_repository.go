package repositories

import (
	"context"
	"database/sql"

	"opphub/internal/models"
)

type CommunityRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Community, error)
	IsStudentCommunity(ctx context.Context, communityID *int64) (bool, error)
	IsManager(ctx context.Context, userID, communityID int64) (bool, error)
}

type communityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) FindByID(ctx context.Context, id int64) (*models.Community, error) {
	c := &models.Community{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, target_audience, application_process, cycle_id, created_at, updated_at
		FROM communities WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.TargetAudience, &c.ApplicationProcess, &c.CycleID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *communityRepository) IsStudentCommunity(ctx context.Context, communityID *int64) (bool, error) {
	if communityID == nil {
		return false, nil
	}
	var audience int
	err := r.db.QueryRowContext(ctx,
		`SELECT target_audience FROM communities WHERE id = $1`, *communityID).Scan(&audience)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return audience == models.AudienceStudent, nil
}

func (r *communityRepository) IsManager(ctx context.Context, userID, communityID int64) (bool, error) {
	var isManager bool
	err := r.db.QueryRowContext(ctx, `
		SELECT is_manager FROM community_users
		WHERE user_id = $1 AND community_id = $2`, userID, communityID).Scan(&isManager)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isManager, nil
}
