package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opphub/internal/apperrors"
	"opphub/internal/models"
)

type appFixture struct {
	repo     *fakeApplicationRepo
	opps     *fakeOpportunityRepo
	vols     *fakeVolunteerRepo
	users    *fakeUserRepo
	comms    *fakeCommunityRepo
	tags     *fakeTagRepo
	notifier *fakeNotifier
	svc      ApplicationService
}

func newAppFixture() *appFixture {
	f := &appFixture{
		repo:     newFakeApplicationRepo(),
		opps:     newFakeOpportunityRepo(),
		vols:     newFakeVolunteerRepo(),
		users:    newFakeUserRepo(),
		comms:    newFakeCommunityRepo(),
		tags:     newFakeTagRepo(),
		notifier: &fakeNotifier{},
	}
	cycle := int64(2025)
	f.comms.byID[5] = &models.Community{
		ID:                 5,
		Name:               "Interns",
		ApplicationProcess: models.ProcessInternship,
		CycleID:            &cycle,
	}
	f.svc = NewApplicationService(
		f.repo, f.opps, f.vols, f.users, f.comms, f.tags, NewTagService(f.tags), f.notifier,
	)
	return f
}

// addTask seeds an open opportunity in community 5 under the given id.
func (f *appFixture) addTask(id int64) *models.Opportunity {
	communityID := int64(5)
	return f.opps.add(models.Opportunity{
		ID:          id,
		Title:       "Task",
		State:       models.StateOpen,
		CommunityID: &communityID,
	})
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the application on first selection", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)

		app, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)
		assert.NotZero(t, app.ID)
		assert.Equal(t, 1, app.CurrentStep)
		assert.Equal(t, int64(5), app.CommunityID)
		assert.Equal(t, int64(2025), app.CycleID)
		require.Len(t, app.Tasks, 1)
		assert.Equal(t, int64(100), app.Tasks[0].TaskID)
		assert.Equal(t, 1, app.Tasks[0].SortOrder)
	})

	t.Run("reuses the application for the same community and cycle", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)
		f.addTask(101)

		first, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)
		second, err := f.svc.Apply(ctx, 1, 101)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, f.repo.apps, 1)
	})

	t.Run("selecting the same opportunity twice is a no-op", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)

		_, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)
		app, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)
		assert.Len(t, app.Tasks, 1)
	})

	t.Run("a fourth selection fails with the application id", func(t *testing.T) {
		f := newAppFixture()
		for _, taskID := range []int64{100, 101, 102, 103} {
			f.addTask(taskID)
		}
		for _, taskID := range []int64{100, 101, 102} {
			_, err := f.svc.Apply(ctx, 1, taskID)
			require.NoError(t, err)
		}

		_, err := f.svc.Apply(ctx, 1, 103)
		require.Error(t, err)
		var maxErr *apperrors.MaximumReachedError
		require.ErrorAs(t, err, &maxErr)
		assert.Equal(t, int64(1), maxErr.ApplicationID)
	})

	t.Run("a freed rank is reused by the next selection", func(t *testing.T) {
		f := newAppFixture()
		for _, taskID := range []int64{100, 101, 102, 103} {
			f.addTask(taskID)
		}
		for _, taskID := range []int64{100, 101, 102} {
			_, err := f.svc.Apply(ctx, 1, taskID)
			require.NoError(t, err)
		}
		_, err := f.svc.DeleteTaskSelection(ctx, 1, 1, 101)
		require.NoError(t, err)

		app, err := f.svc.Apply(ctx, 1, 103)
		require.NoError(t, err)

		orders := map[int64]int{}
		for _, task := range app.Tasks {
			orders[task.TaskID] = task.SortOrder
		}
		assert.Equal(t, 2, orders[103], "the freed middle rank goes to the new selection")
	})

	t.Run("an unknown opportunity is not found", func(t *testing.T) {
		f := newAppFixture()
		_, err := f.svc.Apply(ctx, 1, 999)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("a community without an internship process is not appliable", func(t *testing.T) {
		f := newAppFixture()
		cycle := int64(2025)
		f.comms.byID[6] = &models.Community{ID: 6, ApplicationProcess: "none", CycleID: &cycle}
		communityID := int64(6)
		f.opps.add(models.Opportunity{ID: 200, Title: "T", State: models.StateOpen, CommunityID: &communityID})

		_, err := f.svc.Apply(ctx, 1, 200)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Empty(t, f.repo.apps)
	})

	t.Run("a community with no open cycle is not appliable", func(t *testing.T) {
		f := newAppFixture()
		f.comms.byID[5].CycleID = nil
		f.addTask(100)

		_, err := f.svc.Apply(ctx, 1, 100)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("notifies the opportunity owner", func(t *testing.T) {
		f := newAppFixture()
		owner := f.users.add(models.User{ID: 9, Name: "Owner", Email: "o@example.com"})
		opp := f.addTask(100)
		opp.OwnerID = owner.ID

		_, err := f.svc.Apply(ctx, 1, opp.ID)
		require.NoError(t, err)
		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, models.NotifyTaskApplied, f.notifier.events[0].Action)
		assert.Len(t, f.vols.byOpp[opp.ID], 1)
	})
}

func TestDeleteTaskSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("resets the wizard to step one", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)
		_, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)
		if app := f.repo.apps[1]; app != nil {
			app.CurrentStep = 3
		}

		app, err := f.svc.DeleteTaskSelection(ctx, 1, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, app.CurrentStep)
		assert.Empty(t, f.repo.tasks[1])
	})

	t.Run("someone else's application is not found", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)
		_, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)

		_, err = f.svc.DeleteTaskSelection(ctx, 2, 1, 100)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestSwapTaskOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges the ranks of two selections", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)
		f.addTask(101)
		_, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)
		app, err := f.svc.Apply(ctx, 1, 101)
		require.NoError(t, err)
		a, b := app.Tasks[0], app.Tasks[1]

		require.NoError(t, f.svc.SwapTaskOrder(ctx, 1, app.ID, a.ID, b.ID))

		got, err := f.svc.GetByID(ctx, 1, app.ID)
		require.NoError(t, err)
		assert.Equal(t, b.TaskID, got.Tasks[0].TaskID)
		assert.Equal(t, a.TaskID, got.Tasks[1].TaskID)
	})

	t.Run("a task outside the application is not found", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)
		app, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)

		err = f.svc.SwapTaskOrder(ctx, 1, app.ID, app.Tasks[0].ID, 999)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("a repository failure surfaces as persistence", func(t *testing.T) {
		f := newAppFixture()
		f.addTask(100)
		f.addTask(101)
		_, err := f.svc.Apply(ctx, 1, 100)
		require.NoError(t, err)
		app, err := f.svc.Apply(ctx, 1, 101)
		require.NoError(t, err)
		f.repo.swapErr = errors.New("serialization failure")

		err = f.svc.SwapTaskOrder(ctx, 1, app.ID, app.Tasks[0].ID, app.Tasks[1].ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsPersistence(err))
	})
}

func TestGetByIDResequences(t *testing.T) {
	ctx := context.Background()
	f := newAppFixture()
	for _, taskID := range []int64{100, 101, 102} {
		f.addTask(taskID)
		_, err := f.svc.Apply(ctx, 1, taskID)
		require.NoError(t, err)
	}
	_, err := f.svc.DeleteTaskSelection(ctx, 1, 1, 100)
	require.NoError(t, err)

	app, err := f.svc.GetByID(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, app.Tasks, 2)
	assert.Equal(t, 1, app.Tasks[0].SortOrder)
	assert.Equal(t, 2, app.Tasks[1].SortOrder)
}

func TestSaveSkills(t *testing.T) {
	ctx := context.Background()
	f := newAppFixture()
	f.addTask(100)
	_, err := f.svc.Apply(ctx, 1, 100)
	require.NoError(t, err)

	skills, err := f.svc.SaveSkills(ctx, 1, 1, []models.TagInput{
		{Name: "go", Type: "skill"},
		{Name: "sql", Type: "skill"},
	})
	require.NoError(t, err)
	assert.Len(t, skills, 2)

	// replacing wholesale drops the previous set
	skills, err = f.svc.SaveSkills(ctx, 1, 1, []models.TagInput{{Name: "go", Type: "skill"}})
	require.NoError(t, err)
	assert.Len(t, skills, 1)
	assert.Len(t, f.tags.bySkills[1], 1)
}
