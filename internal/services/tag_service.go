package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"opphub/internal/models"
	"opphub/internal/repositories"
	"opphub/pkg/logger"
)

// TagService resolves tag inputs (numeric ids or free-text name+type)
// to canonical tags and attaches them to an owner entity. Find-before-
// create keeps a (type, trimmed name) pair resolving to a single tag
// across calls; inputs are de-duplicated up front so one batch cannot
// create the same tag twice.
type TagService interface {
	ReconcileOpportunityTags(ctx context.Context, opportunityID int64, inputs []models.TagInput) []models.Tag
	ReconcileApplicationSkills(ctx context.Context, userID, applicationID int64, inputs []models.TagInput) []models.Tag
}

type tagService struct {
	repo repositories.TagRepository
}

func NewTagService(repo repositories.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) ReconcileOpportunityTags(ctx context.Context, opportunityID int64, inputs []models.TagInput) []models.Tag {
	attach := func(tagID int64) error {
		return s.repo.AttachToOpportunity(ctx, tagID, opportunityID)
	}
	return s.reconcile(ctx, attach, inputs)
}

func (s *tagService) ReconcileApplicationSkills(ctx context.Context, userID, applicationID int64, inputs []models.TagInput) []models.Tag {
	attach := func(tagID int64) error {
		return s.repo.AttachSkill(ctx, tagID, applicationID, userID)
	}
	return s.reconcile(ctx, attach, inputs)
}

func (s *tagService) reconcile(ctx context.Context, attach func(tagID int64) error, inputs []models.TagInput) []models.Tag {
	var tags []models.Tag
	for _, input := range dedupeInputs(inputs) {
		tag, err := s.resolve(ctx, input)
		if err != nil {
			logger.Log.Warnf("[tags][resolve][err] name=%q type=%q: %v", input.Name, input.Type, err)
			continue
		}
		if tag == nil {
			continue
		}
		if err := attach(tag.ID); err != nil {
			logger.Log.Warnf("[tags][attach][err] tag_id=%d: %v", tag.ID, err)
			continue
		}
		tags = append(tags, *tag)
	}
	return tags
}

func (s *tagService) resolve(ctx context.Context, input models.TagInput) (*models.Tag, error) {
	if input.ID != 0 {
		return s.repo.FindByID(ctx, input.ID)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || input.Type == "" {
		return nil, nil
	}

	existing, err := s.repo.FindByTypeAndName(ctx, input.Type, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	tag := &models.Tag{Name: name, Type: input.Type, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Store(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// dedupeInputs collapses inputs that reference the same tag id or
// normalize to the same (type, name) pair.
func dedupeInputs(inputs []models.TagInput) []models.TagInput {
	seen := map[string]bool{}
	var out []models.TagInput
	for _, input := range inputs {
		var key string
		if input.ID != 0 {
			key = "id:" + strconv.FormatInt(input.ID, 10)
		} else {
			key = "name:" + input.Type + ":" + strings.TrimSpace(input.Name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, input)
	}
	return out
}
