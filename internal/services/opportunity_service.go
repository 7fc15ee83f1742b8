package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"opphub/internal/apperrors"
	"opphub/internal/authz"
	"opphub/internal/models"
	"opphub/internal/repositories"
	"opphub/pkg/logger"
)

// OpportunityService owns the opportunity lifecycle: state transitions,
// timestamp bookkeeping, tag reconciliation and the per-transition
// notification fan-out.
type OpportunityService interface {
	Create(ctx context.Context, attrs *models.OpportunityAttributes) (*models.Opportunity, error)
	Update(ctx context.Context, id int64, attrs *models.OpportunityAttributes) (*models.Opportunity, models.OpportunityState, error)
	UpdateState(ctx context.Context, id int64, state models.OpportunityState) (*models.Opportunity, models.OpportunityState, error)
	Publish(ctx context.Context, id int64) (*models.Opportunity, error)
	Copy(ctx context.Context, sourceID int64, newTitle string, actingUser *models.User) (int64, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64, loggedIn bool) (*models.Opportunity, error)
	List(ctx context.Context, viewer *models.User) ([]models.Opportunity, error)
	DispatchLifecycleNotifications(ctx context.Context, opp *models.Opportunity, prevState models.OpportunityState, stateChanged bool)
	CanUpdateOpportunity(ctx context.Context, user *models.User, id int64) bool
	CanAdministerOpportunity(ctx context.Context, user *models.User, id int64) bool
}

type opportunityService struct {
	repo     repositories.OpportunityRepository
	tags     repositories.TagRepository
	vols     repositories.VolunteerRepository
	langs    repositories.LanguageRepository
	users    repositories.UserRepository
	comms    repositories.CommunityRepository
	tagSvc   TagService
	notifier NotificationService
	search   SearchIndexer
}

func NewOpportunityService(
	repo repositories.OpportunityRepository,
	tags repositories.TagRepository,
	vols repositories.VolunteerRepository,
	langs repositories.LanguageRepository,
	users repositories.UserRepository,
	comms repositories.CommunityRepository,
	tagSvc TagService,
	notifier NotificationService,
	search SearchIndexer,
) OpportunityService {
	return &opportunityService{
		repo:     repo,
		tags:     tags,
		vols:     vols,
		langs:    langs,
		users:    users,
		comms:    comms,
		tagSvc:   tagSvc,
		notifier: notifier,
		search:   search,
	}
}

func validateOpportunity(attrs *models.OpportunityAttributes, requireOwner bool) *apperrors.ValidationError {
	verr := apperrors.NewValidation()
	if strings.TrimSpace(attrs.Title) == "" {
		verr.Add("title", "title is required")
	}
	if attrs.State != "" && !isValidState(attrs.State) {
		verr.Add("state", "unknown state")
	}
	if requireOwner && attrs.OwnerID == 0 {
		verr.Add("owner_id", "owner is required")
	}
	return verr
}

func (s *opportunityService) Create(ctx context.Context, attrs *models.OpportunityAttributes) (*models.Opportunity, error) {
	if verr := validateOpportunity(attrs, true); verr.HasErrors() {
		return nil, verr
	}

	now := time.Now()
	opp := &models.Opportunity{
		Title:       attrs.Title,
		Description: attrs.Description,
		Details:     attrs.Details,
		Outcome:     attrs.Outcome,
		About:       attrs.About,
		State:       attrs.State,
		OwnerID:     attrs.OwnerID,
		AgencyID:    attrs.AgencyID,
		CommunityID: attrs.CommunityID,
		Restrict:    attrs.Restrict,
		CompleteBy:  attrs.CompleteBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if opp.State == "" {
		opp.State = models.StateDraft
	}
	if opp.State == models.StateSubmitted {
		t := now
		opp.SubmittedAt = &t
	}

	if err := s.repo.Store(ctx, opp); err != nil {
		return nil, apperrors.Persistence("create opportunity", err)
	}

	opp.Tags = s.tagSvc.ReconcileOpportunityTags(ctx, opp.ID, attrs.Tags)
	s.replaceLanguageSkills(ctx, opp, attrs.Language)

	owner, err := s.users.FindByID(ctx, opp.OwnerID)
	if err != nil {
		logger.Log.Warnf("[opportunity][create] id=%d: failed to load owner: %v", opp.ID, err)
	}
	opp.Owner = owner

	s.search.IndexOpportunity(ctx, opp.ID)
	return opp, nil
}

// Update replaces the content attributes and, when the state differs,
// runs the state transition. It returns the pre-update state so the
// caller can route transition notifications.
func (s *opportunityService) Update(ctx context.Context, id int64, attrs *models.OpportunityAttributes) (*models.Opportunity, models.OpportunityState, error) {
	if verr := validateOpportunity(attrs, false); verr.HasErrors() {
		return nil, "", verr
	}

	orig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", apperrors.Persistence("load opportunity", err)
	}
	if orig == nil {
		return nil, "", apperrors.ErrNotFound
	}

	next := attrs.State
	if next == "" {
		next = orig.State
	}

	opp := *orig
	opp.Title = attrs.Title
	opp.Description = attrs.Description
	opp.Details = attrs.Details
	opp.Outcome = attrs.Outcome
	opp.About = attrs.About
	opp.Restrict = attrs.Restrict
	opp.CompleteBy = attrs.CompleteBy
	if attrs.AgencyID != nil {
		opp.AgencyID = attrs.AgencyID
	}
	if attrs.CommunityID != nil {
		opp.CommunityID = attrs.CommunityID
	}
	ApplyStateTimestamps(&opp, next, time.Now())

	if err := s.repo.Update(ctx, &opp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", apperrors.Persistence("update opportunity", err)
	}

	// Secondary writes: failures are logged and swallowed, the primary
	// result stands.
	s.replaceLanguageSkills(ctx, &opp, attrs.Language)
	if err := s.tags.DetachAllFromOpportunity(ctx, opp.ID); err != nil {
		logger.Log.Warnf("[opportunity][update] id=%d: failed to clear tags: %v", opp.ID, err)
	} else {
		opp.Tags = s.tagSvc.ReconcileOpportunityTags(ctx, opp.ID, attrs.Tags)
	}

	s.hydrate(ctx, &opp, true)
	s.search.IndexOpportunity(ctx, opp.ID)
	return &opp, orig.State, nil
}

// UpdateState is the state-only fast path used by moderation.
func (s *opportunityService) UpdateState(ctx context.Context, id int64, state models.OpportunityState) (*models.Opportunity, models.OpportunityState, error) {
	if !isValidState(state) {
		verr := apperrors.NewValidation()
		verr.Add("state", "unknown state")
		return nil, "", verr
	}

	orig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", apperrors.Persistence("load opportunity", err)
	}
	if orig == nil {
		return nil, "", apperrors.ErrNotFound
	}

	opp := *orig
	ApplyStateTimestamps(&opp, state, time.Now())

	if err := s.repo.UpdateStateAndTimestamps(ctx, &opp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", apperrors.Persistence("update opportunity state", err)
	}

	s.hydrate(ctx, &opp, true)
	s.search.IndexOpportunity(ctx, opp.ID)
	return &opp, orig.State, nil
}

// Publish forces an opportunity open and notifies its owner.
func (s *opportunityService) Publish(ctx context.Context, id int64) (*models.Opportunity, error) {
	opp, _, err := s.UpdateState(ctx, id, models.StateOpen)
	if err != nil {
		return nil, err
	}
	// publish always notifies the owner, even on a repeat call
	if opp.Owner != nil {
		s.notifier.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskOpened,
			Model:  models.NotificationModel{Task: opp, User: opp.Owner},
		})
	}
	return opp, nil
}

func (s *opportunityService) Copy(ctx context.Context, sourceID int64, newTitle string, actingUser *models.User) (int64, error) {
	source, err := s.repo.FindByID(ctx, sourceID)
	if err != nil {
		return 0, apperrors.Persistence("load opportunity", err)
	}
	if source == nil {
		return 0, apperrors.ErrNotFound
	}

	now := time.Now()
	clone := &models.Opportunity{
		Title:       newTitle,
		Description: source.Description,
		Details:     source.Details,
		Outcome:     source.Outcome,
		About:       source.About,
		State:       models.StateDraft,
		OwnerID:     actingUser.ID,
		AgencyID:    source.AgencyID,
		CommunityID: source.CommunityID,
		Restrict:    restrictValues(actingUser),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Store(ctx, clone); err != nil {
		return 0, apperrors.Persistence("copy opportunity", err)
	}

	if student, err := s.comms.IsStudentCommunity(ctx, source.CommunityID); err != nil {
		logger.Log.Warnf("[opportunity][copy] id=%d: community lookup failed: %v", sourceID, err)
	} else if student {
		skills, err := s.langs.FindByOpportunity(ctx, sourceID)
		if err != nil {
			logger.Log.Warnf("[opportunity][copy] id=%d: failed to load language skills: %v", sourceID, err)
		}
		for _, skill := range skills {
			// clones are stripped of the source row identity
			skill.ID = 0
			skill.OpportunityID = clone.ID
			skill.CreatedAt = now
			skill.UpdatedAt = now
			if err := s.langs.Store(ctx, &skill); err != nil {
				logger.Log.Warnf("[opportunity][copy] id=%d: failed to clone language skill: %v", clone.ID, err)
			}
		}
	}

	tagIDs, err := s.tags.TagIDsByOpportunity(ctx, sourceID)
	if err != nil {
		logger.Log.Warnf("[opportunity][copy] id=%d: failed to load tags: %v", sourceID, err)
	}
	for _, tagID := range tagIDs {
		if err := s.tags.AttachToOpportunity(ctx, tagID, clone.ID); err != nil {
			logger.Log.Warnf("[opportunity][copy] id=%d: failed to attach tag %d: %v", clone.ID, tagID, err)
		}
	}

	s.search.IndexOpportunity(ctx, clone.ID)
	return clone.ID, nil
}

// Delete cascades in a fixed order; a failure at any step aborts the
// remaining steps.
func (s *opportunityService) Delete(ctx context.Context, id int64) error {
	opp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperrors.Persistence("load opportunity", err)
	}
	if opp == nil {
		return apperrors.ErrNotFound
	}

	if err := s.tags.DetachAllFromOpportunity(ctx, id); err != nil {
		return apperrors.Persistence("delete opportunity tags", err)
	}
	if err := s.vols.DeleteByOpportunity(ctx, id); err != nil {
		return apperrors.Persistence("delete opportunity volunteers", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Persistence("delete opportunity", err)
	}
	s.search.IndexOpportunity(ctx, id)
	return nil
}

func (s *opportunityService) GetByID(ctx context.Context, id int64, loggedIn bool) (*models.Opportunity, error) {
	opp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("load opportunity", err)
	}
	if opp == nil {
		return nil, apperrors.ErrNotFound
	}
	s.hydrate(ctx, opp, loggedIn)
	return opp, nil
}

func (s *opportunityService) List(ctx context.Context, viewer *models.User) ([]models.Opportunity, error) {
	opps, err := s.repo.FindAll(ctx, viewer)
	if err != nil {
		return nil, apperrors.Persistence("list opportunities", err)
	}
	for i := range opps {
		owner, err := s.users.FindByID(ctx, opps[i].OwnerID)
		if err != nil {
			logger.Log.Warnf("[opportunity][list] id=%d: failed to load owner: %v", opps[i].ID, err)
			continue
		}
		opps[i].Owner = owner
	}
	return opps, nil
}

// DispatchLifecycleNotifications routes the per-transition notification
// set. It fires only when the state actually changed; recipients who
// bounced are dropped by the dispatcher.
func (s *opportunityService) DispatchLifecycleNotifications(ctx context.Context, opp *models.Opportunity, prevState models.OpportunityState, stateChanged bool) {
	if !stateChanged {
		return
	}

	owner := opp.Owner
	if owner == nil {
		var err error
		owner, err = s.users.FindByID(ctx, opp.OwnerID)
		if err != nil || owner == nil {
			logger.Log.Warnf("[opportunity][notify] id=%d: owner unavailable: %v", opp.ID, err)
		}
	}
	volunteers := opp.Volunteers
	if volunteers == nil {
		var err error
		volunteers, err = s.vols.FindByOpportunity(ctx, opp.ID)
		if err != nil {
			logger.Log.Warnf("[opportunity][notify] id=%d: failed to load volunteers: %v", opp.ID, err)
		}
	}

	notifyOwner := func(action string) {
		if owner == nil {
			return
		}
		s.notifier.CreateNotification(models.NotificationEvent{
			Action: action,
			Model:  models.NotificationModel{Task: opp, User: owner},
		})
	}
	notifyVolunteer := func(v models.Volunteer, action string) {
		s.notifier.CreateNotification(models.NotificationEvent{
			Action: action,
			Model: models.NotificationModel{
				Task: opp,
				User: &models.User{
					ID:             v.UserID,
					Name:           v.Name,
					Email:          v.Email,
					Bounced:        v.Bounced,
					TelegramChatID: v.TelegramChatID,
				},
			},
		})
	}

	switch opp.State {
	case models.StateInProgress:
		for _, v := range volunteers {
			if v.Assigned {
				notifyVolunteer(v, models.NotifyTaskAssigned)
			} else {
				notifyVolunteer(v, models.NotifyTaskNotAssigned)
			}
		}
	case models.StateCompleted:
		notifyOwner(models.NotifyTaskCompleted)
		for _, v := range volunteers {
			if v.Assigned && v.TaskComplete {
				notifyVolunteer(v, models.NotifyTaskCompletedParticipant)
			}
		}
	case models.StateOpen:
		notifyOwner(models.NotifyTaskOpened)
	case models.StateSubmitted:
		notifyOwner(models.NotifyTaskSubmitted)
		s.notifyAdmins(ctx, opp)
	case models.StateDraft:
		notifyOwner(models.NotifyTaskDraft)
	case models.StateCanceled:
		switch prevState {
		case models.StateOpen:
			for _, v := range volunteers {
				notifyVolunteer(v, models.NotifyTaskCanceled)
			}
		case models.StateInProgress:
			for _, v := range volunteers {
				if v.Assigned {
					notifyVolunteer(v, models.NotifyTaskCanceled)
				}
			}
		}
	}
}

// notifyAdmins fans the submitted-for-review event out to the owning
// community's admins, or to every enabled global admin when the
// opportunity has no community.
func (s *opportunityService) notifyAdmins(ctx context.Context, opp *models.Opportunity) {
	var admins []models.User
	var err error
	if opp.CommunityID != nil {
		admins, err = s.users.FindCommunityAdmins(ctx, *opp.CommunityID)
	} else {
		admins, err = s.users.FindGlobalAdmins(ctx)
	}
	if err != nil {
		logger.Log.Warnf("[opportunity][notify] id=%d: failed to load admins: %v", opp.ID, err)
		return
	}
	for i := range admins {
		s.notifier.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskSubmittedAdmin,
			Model:  models.NotificationModel{Task: opp, Admin: &admins[i]},
		})
	}
}

func (s *opportunityService) CanUpdateOpportunity(ctx context.Context, user *models.User, id int64) bool {
	opp, err := s.repo.FindByID(ctx, id)
	if err != nil || opp == nil {
		return false
	}
	if opp.OwnerID == user.ID {
		return true
	}
	return s.canAdminister(ctx, user, opp)
}

func (s *opportunityService) CanAdministerOpportunity(ctx context.Context, user *models.User, id int64) bool {
	opp, err := s.repo.FindByID(ctx, id)
	if err != nil || opp == nil {
		return false
	}
	return s.canAdminister(ctx, user, opp)
}

func (s *opportunityService) canAdminister(ctx context.Context, user *models.User, opp *models.Opportunity) bool {
	if authz.IsAdmin(user.RoleID) {
		return true
	}
	if authz.IsAgencyAdmin(user.RoleID) && s.sameAgencyAsOwner(ctx, user, opp.OwnerID) {
		return true
	}
	if opp.CommunityID != nil {
		isManager, err := s.comms.IsManager(ctx, user.ID, *opp.CommunityID)
		if err == nil && isManager {
			return true
		}
	}
	return false
}

func (s *opportunityService) sameAgencyAsOwner(ctx context.Context, user *models.User, ownerID int64) bool {
	if user.Agency == nil {
		return false
	}
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil || owner == nil || owner.Agency == nil {
		return false
	}
	return owner.Agency.Name == user.Agency.Name
}

// replaceLanguageSkills applies the three-way language field for
// student-community opportunities: nil leaves the rows untouched, empty
// clears them, non-empty replaces them.
func (s *opportunityService) replaceLanguageSkills(ctx context.Context, opp *models.Opportunity, language []models.LanguageSkill) {
	if language == nil {
		return
	}
	student, err := s.comms.IsStudentCommunity(ctx, opp.CommunityID)
	if err != nil {
		logger.Log.Warnf("[opportunity][language] id=%d: community lookup failed: %v", opp.ID, err)
		return
	}
	if !student {
		return
	}

	if err := s.langs.DeleteByOpportunity(ctx, opp.ID); err != nil {
		logger.Log.Warnf("[opportunity][language] id=%d: failed to clear language skills: %v", opp.ID, err)
		return
	}
	now := time.Now()
	var kept []models.LanguageSkill
	for _, skill := range language {
		skill.ID = 0
		skill.OpportunityID = opp.ID
		skill.CreatedAt = now
		skill.UpdatedAt = now
		if err := s.langs.Store(ctx, &skill); err != nil {
			logger.Log.Warnf("[opportunity][language] id=%d: failed to save language skill: %v", opp.ID, err)
			continue
		}
		kept = append(kept, skill)
	}
	opp.Language = kept
}

func (s *opportunityService) hydrate(ctx context.Context, opp *models.Opportunity, loggedIn bool) {
	owner, err := s.users.FindByID(ctx, opp.OwnerID)
	if err != nil {
		logger.Log.Warnf("[opportunity][hydrate] id=%d: failed to load owner: %v", opp.ID, err)
	}
	opp.Owner = owner

	if loggedIn {
		vols, err := s.vols.FindByOpportunity(ctx, opp.ID)
		if err != nil {
			logger.Log.Warnf("[opportunity][hydrate] id=%d: failed to load volunteers: %v", opp.ID, err)
		}
		opp.Volunteers = vols
	}

	if opp.Tags == nil {
		tags, err := s.tags.FindByOpportunity(ctx, opp.ID)
		if err != nil {
			logger.Log.Warnf("[opportunity][hydrate] id=%d: failed to load tags: %v", opp.ID, err)
		}
		opp.Tags = tags
	}

	if student, err := s.comms.IsStudentCommunity(ctx, opp.CommunityID); err == nil && student {
		skills, err := s.langs.FindByOpportunity(ctx, opp.ID)
		if err != nil {
			logger.Log.Warnf("[opportunity][hydrate] id=%d: failed to load language skills: %v", opp.ID, err)
		}
		opp.Language = skills
	}
}

func restrictValues(user *models.User) models.Restrict {
	if user.Agency == nil {
		return models.Restrict{}
	}
	return models.Restrict{
		Name:       user.Agency.Name,
		Abbr:       user.Agency.Abbr,
		ParentAbbr: user.Agency.ParentAbbr,
		Slug:       user.Agency.Slug,
		Domain:     user.Agency.Domain,
	}
}
