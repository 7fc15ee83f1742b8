package repositories

import (
	"context"
	"database/sql"

	"opphub/internal/models"
)

type TagRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Tag, error)
	FindByTypeAndName(ctx context.Context, tagType, name string) (*models.Tag, error)
	Store(ctx context.Context, tag *models.Tag) error

	AttachToOpportunity(ctx context.Context, tagID, opportunityID int64) error
	DetachAllFromOpportunity(ctx context.Context, opportunityID int64) error
	FindByOpportunity(ctx context.Context, opportunityID int64) ([]models.Tag, error)
	TagIDsByOpportunity(ctx context.Context, opportunityID int64) ([]int64, error)

	AttachSkill(ctx context.Context, tagID, applicationID, userID int64) error
	DetachAllSkills(ctx context.Context, applicationID int64) error
	FindSkills(ctx context.Context, applicationID int64) ([]models.Tag, error)
}

type tagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindByID(ctx context.Context, id int64) (*models.Tag, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, type, created_at, updated_at FROM tags WHERE id = $1`, id))
}

func (r *tagRepository) FindByTypeAndName(ctx context.Context, tagType, name string) (*models.Tag, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, type, created_at, updated_at FROM tags WHERE type = $1 AND name = $2`,
		tagType, name))
}

func (r *tagRepository) Store(ctx context.Context, tag *models.Tag) error {
	// tags(type, name) carries a unique constraint as a second line of
	// defense against concurrent find-or-create races.
	return r.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, type, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`,
		tag.Name, tag.Type, tag.CreatedAt, tag.UpdatedAt,
	).Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
}

func (r *tagRepository) AttachToOpportunity(ctx context.Context, tagID, opportunityID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO opportunity_tags (tag_id, opportunity_id) VALUES ($1,$2)`,
		tagID, opportunityID)
	return err
}

func (r *tagRepository) DetachAllFromOpportunity(ctx context.Context, opportunityID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM opportunity_tags WHERE opportunity_id = $1`, opportunityID)
	return err
}

func (r *tagRepository) FindByOpportunity(ctx context.Context, opportunityID int64) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.type, t.created_at, t.updated_at
		FROM tags t
		JOIN opportunity_tags ot ON ot.tag_id = t.id
		WHERE ot.opportunity_id = $1
		ORDER BY t.type, t.name`, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func (r *tagRepository) TagIDsByOpportunity(ctx context.Context, opportunityID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM opportunity_tags WHERE opportunity_id = $1`, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *tagRepository) AttachSkill(ctx context.Context, tagID, applicationID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO application_skills (skill_id, application_id, user_id, created_at)
		VALUES ($1,$2,$3,NOW())`,
		tagID, applicationID, userID)
	return err
}

func (r *tagRepository) DetachAllSkills(ctx context.Context, applicationID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM application_skills WHERE application_id = $1`, applicationID)
	return err
}

func (r *tagRepository) FindSkills(ctx context.Context, applicationID int64) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.type, t.created_at, t.updated_at
		FROM tags t
		JOIN application_skills s ON s.skill_id = t.id
		WHERE s.application_id = $1
		ORDER BY t.name`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func (r *tagRepository) scanOne(row *sql.Row) (*models.Tag, error) {
	tag := &models.Tag{}
	err := row.Scan(&tag.ID, &tag.Name, &tag.Type, &tag.CreatedAt, &tag.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func scanTags(rows *sql.Rows) ([]models.Tag, error) {
	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
