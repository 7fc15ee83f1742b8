package repositories

import (
	"context"
	"database/sql"

	"opphub/internal/models"
)

type LanguageRepository interface {
	Store(ctx context.Context, skill *models.LanguageSkill) error
	FindByOpportunity(ctx context.Context, opportunityID int64) ([]models.LanguageSkill, error)
	DeleteByOpportunity(ctx context.Context, opportunityID int64) error
}

type languageRepository struct {
	db *sql.DB
}

func NewLanguageRepository(db *sql.DB) LanguageRepository {
	return &languageRepository{db: db}
}

func (r *languageRepository) Store(ctx context.Context, skill *models.LanguageSkill) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO language_skills (
			opportunity_id, language_id, speaking_proficiency,
			reading_proficiency, writing_proficiency, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		skill.OpportunityID, skill.LanguageID, skill.SpeakingProficiency,
		skill.ReadingProficiency, skill.WritingProficiency, skill.CreatedAt, skill.UpdatedAt,
	).Scan(&skill.ID)
}

func (r *languageRepository) FindByOpportunity(ctx context.Context, opportunityID int64) ([]models.LanguageSkill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, opportunity_id, language_id, speaking_proficiency,
		       reading_proficiency, writing_proficiency, created_at, updated_at
		FROM language_skills
		WHERE opportunity_id = $1
		ORDER BY id`, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []models.LanguageSkill
	for rows.Next() {
		var s models.LanguageSkill
		if err := rows.Scan(
			&s.ID, &s.OpportunityID, &s.LanguageID, &s.SpeakingProficiency,
			&s.ReadingProficiency, &s.WritingProficiency, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *languageRepository) DeleteByOpportunity(ctx context.Context, opportunityID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM language_skills WHERE opportunity_id = $1`, opportunityID)
	return err
}
