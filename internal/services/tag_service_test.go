package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opphub/internal/models"
)

func TestReconcileOpportunityTags(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a missing tag and attaches it", func(t *testing.T) {
		repo := newFakeTagRepo()
		svc := NewTagService(repo)

		tags := svc.ReconcileOpportunityTags(ctx, 7, []models.TagInput{
			{Name: "mentoring", Type: "topic"},
		})

		require.Len(t, tags, 1)
		assert.Equal(t, "mentoring", tags[0].Name)
		assert.Equal(t, 1, repo.storeCalls)
		assert.Equal(t, []int64{tags[0].ID}, repo.byOpp[7])
	})

	t.Run("reuses an existing tag instead of creating a duplicate", func(t *testing.T) {
		repo := newFakeTagRepo()
		existing := repo.addTag("topic", "mentoring")
		svc := NewTagService(repo)

		tags := svc.ReconcileOpportunityTags(ctx, 7, []models.TagInput{
			{Name: "mentoring", Type: "topic"},
		})

		require.Len(t, tags, 1)
		assert.Equal(t, existing.ID, tags[0].ID)
		assert.Zero(t, repo.storeCalls)
	})

	t.Run("trims names before matching", func(t *testing.T) {
		repo := newFakeTagRepo()
		existing := repo.addTag("topic", "mentoring")
		svc := NewTagService(repo)

		tags := svc.ReconcileOpportunityTags(ctx, 7, []models.TagInput{
			{Name: "  mentoring  ", Type: "topic"},
		})

		require.Len(t, tags, 1)
		assert.Equal(t, existing.ID, tags[0].ID)
		assert.Zero(t, repo.storeCalls)
	})

	t.Run("a batch with duplicates resolves to one tag", func(t *testing.T) {
		repo := newFakeTagRepo()
		svc := NewTagService(repo)

		tags := svc.ReconcileOpportunityTags(ctx, 7, []models.TagInput{
			{Name: "go", Type: "skill"},
			{Name: " go ", Type: "skill"},
			{Name: "go", Type: "skill"},
		})

		require.Len(t, tags, 1)
		assert.Equal(t, 1, repo.storeCalls)
		assert.Equal(t, 1, repo.attachCalls)
	})

	t.Run("resolves by id when one is given", func(t *testing.T) {
		repo := newFakeTagRepo()
		existing := repo.addTag("skill", "sql")
		svc := NewTagService(repo)

		tags := svc.ReconcileOpportunityTags(ctx, 7, []models.TagInput{
			{ID: existing.ID},
		})

		require.Len(t, tags, 1)
		assert.Equal(t, existing.ID, tags[0].ID)
	})

	t.Run("skips blank names and unknown ids", func(t *testing.T) {
		repo := newFakeTagRepo()
		svc := NewTagService(repo)

		tags := svc.ReconcileOpportunityTags(ctx, 7, []models.TagInput{
			{Name: "   ", Type: "topic"},
			{Name: "x", Type: ""},
			{ID: 999},
		})

		assert.Empty(t, tags)
		assert.Zero(t, repo.storeCalls)
	})
}

func TestReconcileApplicationSkills(t *testing.T) {
	repo := newFakeTagRepo()
	svc := NewTagService(repo)

	tags := svc.ReconcileApplicationSkills(context.Background(), 3, 11, []models.TagInput{
		{Name: "python", Type: "skill"},
		{Name: "sql", Type: "skill"},
	})

	require.Len(t, tags, 2)
	assert.Len(t, repo.bySkills[11], 2)
}
