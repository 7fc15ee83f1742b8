package repositories

import (
	"context"
	"database/sql"
	"time"

	"opphub/internal/models"
)

type ApplicationRepository interface {
	FindByUserCommunityCycle(ctx context.Context, userID, communityID, cycleID int64) (*models.Application, error)
	Store(ctx context.Context, app *models.Application) error
	FindByIDForUser(ctx context.Context, applicationID, userID int64) (*models.Application, error)
	Tasks(ctx context.Context, applicationID int64) ([]models.ApplicationTask, error)
	StoreTask(ctx context.Context, t *models.ApplicationTask) error
	UpdateTaskSortOrder(ctx context.Context, applicationTaskID int64, sortOrder int) error

	// The two transactional operations: each runs its writes inside a
	// single BeginTx/Commit so a partial failure cannot leave sort
	// order or step state inconsistent.
	DeleteTaskSelection(ctx context.Context, applicationID, taskID int64) (*models.Application, error)
	SwapTaskOrder(ctx context.Context, a, b models.ApplicationTask) error
}

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, user_id, community_id, cycle_id, current_step, created_at, updated_at`

func (r *applicationRepository) FindByUserCommunityCycle(ctx context.Context, userID, communityID, cycleID int64) (*models.Application, error) {
	return scanApplication(r.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE user_id = $1 AND community_id = $2 AND cycle_id = $3`,
		userID, communityID, cycleID))
}

func (r *applicationRepository) Store(ctx context.Context, app *models.Application) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO applications (user_id, community_id, cycle_id, current_step, created_at, updated_at)
		VALUES ($1,$2,$3,1,NOW(),NOW())
		RETURNING id, current_step, created_at, updated_at`,
		app.UserID, app.CommunityID, app.CycleID,
	).Scan(&app.ID, &app.CurrentStep, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepository) FindByIDForUser(ctx context.Context, applicationID, userID int64) (*models.Application, error) {
	return scanApplication(r.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE id = $1 AND user_id = $2`, applicationID, userID))
}

func (r *applicationRepository) Tasks(ctx context.Context, applicationID int64) ([]models.ApplicationTask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, application_id, user_id, task_id, sort_order, created_at, updated_at
		FROM application_tasks
		WHERE application_id = $1
		ORDER BY sort_order, id`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.ApplicationTask
	for rows.Next() {
		var t models.ApplicationTask
		if err := rows.Scan(
			&t.ID, &t.ApplicationID, &t.UserID, &t.TaskID, &t.SortOrder,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *applicationRepository) StoreTask(ctx context.Context, t *models.ApplicationTask) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO application_tasks (application_id, user_id, task_id, sort_order, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING id, created_at, updated_at`,
		t.ApplicationID, t.UserID, t.TaskID, t.SortOrder,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *applicationRepository) UpdateTaskSortOrder(ctx context.Context, applicationTaskID int64, sortOrder int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE application_tasks SET sort_order=$1, updated_at=NOW() WHERE id=$2`,
		sortOrder, applicationTaskID)
	return err
}

// DeleteTaskSelection removes one selection and resets the application
// to step 1 as a single unit.
func (r *applicationRepository) DeleteTaskSelection(ctx context.Context, applicationID, taskID int64) (*models.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM application_tasks WHERE task_id = $1 AND application_id = $2`,
		taskID, applicationID); err != nil {
		return nil, err
	}

	updatedAt := time.Now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE applications SET current_step = 1, updated_at = $1 WHERE id = $2`,
		updatedAt, applicationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &models.Application{ID: applicationID, CurrentStep: 1, UpdatedAt: updatedAt}, nil
}

// SwapTaskOrder exchanges the sort orders of two selections; both rows
// update or neither does.
func (r *applicationRepository) SwapTaskOrder(ctx context.Context, a, b models.ApplicationTask) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE application_tasks SET sort_order = $1 WHERE id = $2`,
		b.SortOrder, a.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE application_tasks SET sort_order = $1 WHERE id = $2`,
		a.SortOrder, b.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func scanApplication(row *sql.Row) (*models.Application, error) {
	app := &models.Application{}
	err := row.Scan(
		&app.ID, &app.UserID, &app.CommunityID, &app.CycleID, &app.CurrentStep,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}
