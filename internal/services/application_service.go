package services

import (
	"context"

	"opphub/internal/apperrors"
	"opphub/internal/models"
	"opphub/internal/repositories"
	"opphub/pkg/logger"
)

// ApplicationService handles the applicant side of the marketplace: one
// application per (user, community, cycle), holding up to three ranked
// opportunity selections and a reconciled skill set.
type ApplicationService interface {
	Apply(ctx context.Context, userID, taskID int64) (*models.Application, error)
	GetByID(ctx context.Context, userID, applicationID int64) (*models.Application, error)
	DeleteTaskSelection(ctx context.Context, userID, applicationID, taskID int64) (*models.Application, error)
	SwapTaskOrder(ctx context.Context, userID, applicationID, taskAID, taskBID int64) error
	SaveSkills(ctx context.Context, userID, applicationID int64, inputs []models.TagInput) ([]models.Tag, error)
}

type applicationService struct {
	repo     repositories.ApplicationRepository
	opps     repositories.OpportunityRepository
	vols     repositories.VolunteerRepository
	users    repositories.UserRepository
	comms    repositories.CommunityRepository
	tags     repositories.TagRepository
	tagSvc   TagService
	notifier NotificationService
}

func NewApplicationService(
	repo repositories.ApplicationRepository,
	opps repositories.OpportunityRepository,
	vols repositories.VolunteerRepository,
	users repositories.UserRepository,
	comms repositories.CommunityRepository,
	tags repositories.TagRepository,
	tagSvc TagService,
	notifier NotificationService,
) ApplicationService {
	return &applicationService{
		repo:     repo,
		opps:     opps,
		vols:     vols,
		users:    users,
		comms:    comms,
		tags:     tags,
		tagSvc:   tagSvc,
		notifier: notifier,
	}
}

// Apply finds or creates the caller's application for the owning
// community's current cycle and adds taskID as a selection. Selecting
// an already-selected opportunity is a no-op success; a fourth
// selection fails with the application id attached so the client can
// route the user to their existing list.
func (s *applicationService) Apply(ctx context.Context, userID, taskID int64) (*models.Application, error) {
	opp, err := s.opps.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.Persistence("load opportunity", err)
	}
	if opp == nil {
		return nil, apperrors.ErrNotFound
	}
	if opp.CommunityID == nil {
		return nil, apperrors.Invalid("task_id", "opportunity does not accept applications")
	}
	community, err := s.comms.FindByID(ctx, *opp.CommunityID)
	if err != nil {
		return nil, apperrors.Persistence("load community", err)
	}
	if community == nil || community.ApplicationProcess != models.ProcessInternship {
		return nil, apperrors.Invalid("task_id", "opportunity does not accept applications")
	}
	if community.CycleID == nil {
		return nil, apperrors.Invalid("task_id", "no open application cycle")
	}

	app, err := s.repo.FindByUserCommunityCycle(ctx, userID, community.ID, *community.CycleID)
	if err != nil {
		return nil, apperrors.Persistence("load application", err)
	}
	if app == nil {
		app = &models.Application{UserID: userID, CommunityID: community.ID, CycleID: *community.CycleID}
		if err := s.repo.Store(ctx, app); err != nil {
			return nil, apperrors.Persistence("create application", err)
		}
	}

	tasks, err := s.repo.Tasks(ctx, app.ID)
	if err != nil {
		return nil, apperrors.Persistence("load application tasks", err)
	}
	for _, t := range tasks {
		if t.TaskID == taskID {
			app.Tasks = tasks
			return app, nil
		}
	}
	if len(tasks) >= models.MaxTaskSelections {
		return nil, &apperrors.MaximumReachedError{ApplicationID: app.ID}
	}

	task := &models.ApplicationTask{
		ApplicationID: app.ID,
		UserID:        userID,
		TaskID:        taskID,
		SortOrder:     lowestFreeSortOrder(tasks),
	}
	if err := s.repo.StoreTask(ctx, task); err != nil {
		return nil, apperrors.Persistence("create application task", err)
	}
	app.Tasks = append(tasks, *task)

	s.recordVolunteer(ctx, userID, opp)
	return app, nil
}

// recordVolunteer puts the applicant on the opportunity's volunteer
// roster and pings the owner. Both are secondary to the selection
// itself; failures are logged and swallowed.
func (s *applicationService) recordVolunteer(ctx context.Context, userID int64, opp *models.Opportunity) {
	existing, err := s.vols.FindByOpportunity(ctx, opp.ID)
	if err != nil {
		logger.Log.Warnf("[application][volunteer] task_id=%d: failed to load roster: %v", opp.ID, err)
		return
	}
	for _, v := range existing {
		if v.UserID == userID {
			return
		}
	}
	v := &models.Volunteer{OpportunityID: opp.ID, UserID: userID}
	if err := s.vols.Store(ctx, v); err != nil {
		logger.Log.Warnf("[application][volunteer] task_id=%d user_id=%d: failed to save: %v", opp.ID, userID, err)
		return
	}

	owner, err := s.users.FindByID(ctx, opp.OwnerID)
	if err != nil || owner == nil {
		logger.Log.Warnf("[application][notify] task_id=%d: owner unavailable: %v", opp.ID, err)
		return
	}
	s.notifier.CreateNotification(models.NotificationEvent{
		Action: models.NotifyTaskApplied,
		Model:  models.NotificationModel{Task: opp, User: owner},
	})
}

// GetByID returns the caller's own application. The task list is
// re-sequenced on read so deletions never leave a gap in the ranking.
func (s *applicationService) GetByID(ctx context.Context, userID, applicationID int64) (*models.Application, error) {
	app, err := s.repo.FindByIDForUser(ctx, applicationID, userID)
	if err != nil {
		return nil, apperrors.Persistence("load application", err)
	}
	if app == nil {
		return nil, apperrors.ErrNotFound
	}

	tasks, err := s.repo.Tasks(ctx, app.ID)
	if err != nil {
		return nil, apperrors.Persistence("load application tasks", err)
	}
	for i := range tasks {
		want := i + 1
		if tasks[i].SortOrder == want {
			continue
		}
		if err := s.repo.UpdateTaskSortOrder(ctx, tasks[i].ID, want); err != nil {
			logger.Log.Warnf("[application][resequence] id=%d task=%d: %v", app.ID, tasks[i].ID, err)
			continue
		}
		tasks[i].SortOrder = want
	}
	app.Tasks = tasks

	skills, err := s.tags.FindSkills(ctx, app.ID)
	if err != nil {
		logger.Log.Warnf("[application][skills] id=%d: failed to load: %v", app.ID, err)
	}
	app.Skills = skills
	return app, nil
}

// DeleteTaskSelection removes a selection and resets the application's
// wizard back to step 1 in one transaction.
func (s *applicationService) DeleteTaskSelection(ctx context.Context, userID, applicationID, taskID int64) (*models.Application, error) {
	owned, err := s.repo.FindByIDForUser(ctx, applicationID, userID)
	if err != nil {
		return nil, apperrors.Persistence("load application", err)
	}
	if owned == nil {
		return nil, apperrors.ErrNotFound
	}

	app, err := s.repo.DeleteTaskSelection(ctx, applicationID, taskID)
	if err != nil {
		return nil, apperrors.Persistence("delete application task", err)
	}
	return app, nil
}

// SwapTaskOrder exchanges the rank of two of the caller's selections.
func (s *applicationService) SwapTaskOrder(ctx context.Context, userID, applicationID, taskAID, taskBID int64) error {
	owned, err := s.repo.FindByIDForUser(ctx, applicationID, userID)
	if err != nil {
		return apperrors.Persistence("load application", err)
	}
	if owned == nil {
		return apperrors.ErrNotFound
	}

	tasks, err := s.repo.Tasks(ctx, applicationID)
	if err != nil {
		return apperrors.Persistence("load application tasks", err)
	}
	var a, b *models.ApplicationTask
	for i := range tasks {
		switch tasks[i].ID {
		case taskAID:
			a = &tasks[i]
		case taskBID:
			b = &tasks[i]
		}
	}
	if a == nil || b == nil {
		return apperrors.ErrNotFound
	}

	if err := s.repo.SwapTaskOrder(ctx, *a, *b); err != nil {
		return apperrors.Persistence("swap application tasks", err)
	}
	return nil
}

// SaveSkills replaces the application's skill set wholesale.
func (s *applicationService) SaveSkills(ctx context.Context, userID, applicationID int64, inputs []models.TagInput) ([]models.Tag, error) {
	owned, err := s.repo.FindByIDForUser(ctx, applicationID, userID)
	if err != nil {
		return nil, apperrors.Persistence("load application", err)
	}
	if owned == nil {
		return nil, apperrors.ErrNotFound
	}

	if err := s.tags.DetachAllSkills(ctx, applicationID); err != nil {
		return nil, apperrors.Persistence("clear application skills", err)
	}
	return s.tagSvc.ReconcileApplicationSkills(ctx, userID, applicationID, inputs), nil
}

// lowestFreeSortOrder returns the smallest rank in 1..MaxTaskSelections
// not taken by an existing selection.
func lowestFreeSortOrder(tasks []models.ApplicationTask) int {
	taken := map[int]bool{}
	for _, t := range tasks {
		taken[t.SortOrder] = true
	}
	for i := 1; i <= models.MaxTaskSelections; i++ {
		if !taken[i] {
			return i
		}
	}
	return len(tasks) + 1
}
