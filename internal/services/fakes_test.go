package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"opphub/internal/models"
)

// In-memory fakes for the repository interfaces. Each test configures
// only the fields it needs; error fields force the corresponding call
// to fail.

type fakeOpportunityRepo struct {
	nextID    int64
	byID      map[int64]*models.Opportunity
	updateErr error
	deleteErr error
	deleted   []int64
	due       []models.Opportunity
}

func newFakeOpportunityRepo() *fakeOpportunityRepo {
	return &fakeOpportunityRepo{byID: map[int64]*models.Opportunity{}}
}

func (f *fakeOpportunityRepo) add(opp models.Opportunity) *models.Opportunity {
	if opp.ID == 0 {
		f.nextID++
		opp.ID = f.nextID
	} else if opp.ID > f.nextID {
		f.nextID = opp.ID
	}
	f.byID[opp.ID] = &opp
	return &opp
}

func (f *fakeOpportunityRepo) Store(_ context.Context, opp *models.Opportunity) error {
	f.nextID++
	opp.ID = f.nextID
	cp := *opp
	f.byID[opp.ID] = &cp
	return nil
}

func (f *fakeOpportunityRepo) FindByID(_ context.Context, id int64) (*models.Opportunity, error) {
	opp, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *opp
	return &cp, nil
}

func (f *fakeOpportunityRepo) FindAll(_ context.Context, _ *models.User) ([]models.Opportunity, error) {
	var out []models.Opportunity
	for _, o := range f.byID {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOpportunityRepo) Update(_ context.Context, opp *models.Opportunity) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *opp
	f.byID[opp.ID] = &cp
	return nil
}

func (f *fakeOpportunityRepo) UpdateStateAndTimestamps(_ context.Context, opp *models.Opportunity) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cur, ok := f.byID[opp.ID]
	if !ok {
		cp := *opp
		f.byID[opp.ID] = &cp
		return nil
	}
	cur.State = opp.State
	cur.SubmittedAt = opp.SubmittedAt
	cur.PublishedAt = opp.PublishedAt
	cur.AssignedAt = opp.AssignedAt
	cur.CompletedAt = opp.CompletedAt
	cur.CanceledAt = opp.CanceledAt
	cur.UpdatedAt = opp.UpdatedAt
	return nil
}

func (f *fakeOpportunityRepo) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeOpportunityRepo) ListDueBy(_ context.Context, _ time.Time, _ models.OpportunityState) ([]models.Opportunity, error) {
	return f.due, nil
}

func (f *fakeOpportunityRepo) ListByCommunity(_ context.Context, communityID int64) ([]models.Opportunity, error) {
	var out []models.Opportunity
	for _, o := range f.byID {
		if o.CommunityID != nil && *o.CommunityID == communityID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeTagRepo struct {
	nextID      int64
	tags        map[int64]*models.Tag
	byOpp       map[int64][]int64
	bySkills    map[int64][]int64
	detachErr   error
	detached    []int64
	storeCalls  int
	attachCalls int
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		tags:     map[int64]*models.Tag{},
		byOpp:    map[int64][]int64{},
		bySkills: map[int64][]int64{},
	}
}

func (f *fakeTagRepo) addTag(tagType, name string) *models.Tag {
	f.nextID++
	tag := &models.Tag{ID: f.nextID, Name: name, Type: tagType}
	f.tags[tag.ID] = tag
	return tag
}

func (f *fakeTagRepo) FindByID(_ context.Context, id int64) (*models.Tag, error) {
	tag, ok := f.tags[id]
	if !ok {
		return nil, nil
	}
	cp := *tag
	return &cp, nil
}

func (f *fakeTagRepo) FindByTypeAndName(_ context.Context, tagType, name string) (*models.Tag, error) {
	for _, tag := range f.tags {
		if tag.Type == tagType && tag.Name == name {
			cp := *tag
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTagRepo) Store(_ context.Context, tag *models.Tag) error {
	f.storeCalls++
	f.nextID++
	tag.ID = f.nextID
	cp := *tag
	f.tags[tag.ID] = &cp
	return nil
}

func (f *fakeTagRepo) AttachToOpportunity(_ context.Context, tagID, opportunityID int64) error {
	f.attachCalls++
	f.byOpp[opportunityID] = append(f.byOpp[opportunityID], tagID)
	return nil
}

func (f *fakeTagRepo) DetachAllFromOpportunity(_ context.Context, opportunityID int64) error {
	if f.detachErr != nil {
		return f.detachErr
	}
	f.detached = append(f.detached, opportunityID)
	delete(f.byOpp, opportunityID)
	return nil
}

func (f *fakeTagRepo) FindByOpportunity(_ context.Context, opportunityID int64) ([]models.Tag, error) {
	var out []models.Tag
	for _, id := range f.byOpp[opportunityID] {
		if tag, ok := f.tags[id]; ok {
			out = append(out, *tag)
		}
	}
	return out, nil
}

func (f *fakeTagRepo) TagIDsByOpportunity(_ context.Context, opportunityID int64) ([]int64, error) {
	return append([]int64(nil), f.byOpp[opportunityID]...), nil
}

func (f *fakeTagRepo) AttachSkill(_ context.Context, tagID, applicationID, _ int64) error {
	f.bySkills[applicationID] = append(f.bySkills[applicationID], tagID)
	return nil
}

func (f *fakeTagRepo) DetachAllSkills(_ context.Context, applicationID int64) error {
	delete(f.bySkills, applicationID)
	return nil
}

func (f *fakeTagRepo) FindSkills(_ context.Context, applicationID int64) ([]models.Tag, error) {
	var out []models.Tag
	for _, id := range f.bySkills[applicationID] {
		if tag, ok := f.tags[id]; ok {
			out = append(out, *tag)
		}
	}
	return out, nil
}

type fakeVolunteerRepo struct {
	nextID    int64
	byOpp     map[int64][]models.Volunteer
	deleteErr error
	deleted   []int64
}

func newFakeVolunteerRepo() *fakeVolunteerRepo {
	return &fakeVolunteerRepo{byOpp: map[int64][]models.Volunteer{}}
}

func (f *fakeVolunteerRepo) Store(_ context.Context, v *models.Volunteer) error {
	f.nextID++
	v.ID = f.nextID
	f.byOpp[v.OpportunityID] = append(f.byOpp[v.OpportunityID], *v)
	return nil
}

func (f *fakeVolunteerRepo) FindByOpportunity(_ context.Context, opportunityID int64) ([]models.Volunteer, error) {
	return append([]models.Volunteer(nil), f.byOpp[opportunityID]...), nil
}

func (f *fakeVolunteerRepo) SetAssigned(_ context.Context, id int64, assigned bool) error {
	for oppID := range f.byOpp {
		for i := range f.byOpp[oppID] {
			if f.byOpp[oppID][i].ID == id {
				f.byOpp[oppID][i].Assigned = assigned
			}
		}
	}
	return nil
}

func (f *fakeVolunteerRepo) SetTaskComplete(_ context.Context, id int64, complete bool) error {
	for oppID := range f.byOpp {
		for i := range f.byOpp[oppID] {
			if f.byOpp[oppID][i].ID == id {
				f.byOpp[oppID][i].TaskComplete = complete
			}
		}
	}
	return nil
}

func (f *fakeVolunteerRepo) DeleteByOpportunity(_ context.Context, opportunityID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byOpp, opportunityID)
	f.deleted = append(f.deleted, opportunityID)
	return nil
}

type fakeLanguageRepo struct {
	nextID int64
	byOpp  map[int64][]models.LanguageSkill
}

func newFakeLanguageRepo() *fakeLanguageRepo {
	return &fakeLanguageRepo{byOpp: map[int64][]models.LanguageSkill{}}
}

func (f *fakeLanguageRepo) Store(_ context.Context, skill *models.LanguageSkill) error {
	f.nextID++
	skill.ID = f.nextID
	f.byOpp[skill.OpportunityID] = append(f.byOpp[skill.OpportunityID], *skill)
	return nil
}

func (f *fakeLanguageRepo) FindByOpportunity(_ context.Context, opportunityID int64) ([]models.LanguageSkill, error) {
	return append([]models.LanguageSkill(nil), f.byOpp[opportunityID]...), nil
}

func (f *fakeLanguageRepo) DeleteByOpportunity(_ context.Context, opportunityID int64) error {
	delete(f.byOpp, opportunityID)
	return nil
}

type fakeUserRepo struct {
	nextID       int64
	byID         map[int64]*models.User
	commAdmins   map[int64][]models.User
	globalAdmins []models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]*models.User{}, commAdmins: map[int64][]models.User{}}
}

func (f *fakeUserRepo) add(u models.User) *models.User {
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	} else if u.ID > f.nextID {
		f.nextID = u.ID
	}
	f.byID[u.ID] = &u
	return &u
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindCommunityAdmins(_ context.Context, communityID int64) ([]models.User, error) {
	return append([]models.User(nil), f.commAdmins[communityID]...), nil
}

func (f *fakeUserRepo) FindGlobalAdmins(_ context.Context) ([]models.User, error) {
	return append([]models.User(nil), f.globalAdmins...), nil
}

func (f *fakeUserRepo) SetTelegramChatID(_ context.Context, userID, chatID int64) error {
	if u, ok := f.byID[userID]; ok {
		id := chatID
		u.TelegramChatID = &id
	}
	return nil
}

type fakeCommunityRepo struct {
	byID     map[int64]*models.Community
	managers map[int64]map[int64]bool // communityID -> userID
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{byID: map[int64]*models.Community{}, managers: map[int64]map[int64]bool{}}
}

func (f *fakeCommunityRepo) FindByID(_ context.Context, id int64) (*models.Community, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommunityRepo) IsStudentCommunity(_ context.Context, communityID *int64) (bool, error) {
	if communityID == nil {
		return false, nil
	}
	c, ok := f.byID[*communityID]
	if !ok {
		return false, nil
	}
	return c.TargetAudience == models.AudienceStudent, nil
}

func (f *fakeCommunityRepo) IsManager(_ context.Context, userID, communityID int64) (bool, error) {
	return f.managers[communityID][userID], nil
}

type fakeApplicationRepo struct {
	nextID     int64
	nextTaskID int64
	apps       map[int64]*models.Application
	tasks      map[int64][]models.ApplicationTask
	swapErr    error
	swapCalls  int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[int64]*models.Application{}, tasks: map[int64][]models.ApplicationTask{}}
}

func (f *fakeApplicationRepo) FindByUserCommunityCycle(_ context.Context, userID, communityID, cycleID int64) (*models.Application, error) {
	for _, app := range f.apps {
		if app.UserID == userID && app.CommunityID == communityID && app.CycleID == cycleID {
			cp := *app
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeApplicationRepo) Store(_ context.Context, app *models.Application) error {
	f.nextID++
	app.ID = f.nextID
	app.CurrentStep = 1
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApplicationRepo) FindByIDForUser(_ context.Context, applicationID, userID int64) (*models.Application, error) {
	app, ok := f.apps[applicationID]
	if !ok || app.UserID != userID {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (f *fakeApplicationRepo) Tasks(_ context.Context, applicationID int64) ([]models.ApplicationTask, error) {
	out := append([]models.ApplicationTask(nil), f.tasks[applicationID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeApplicationRepo) StoreTask(_ context.Context, t *models.ApplicationTask) error {
	f.nextTaskID++
	t.ID = f.nextTaskID
	f.tasks[t.ApplicationID] = append(f.tasks[t.ApplicationID], *t)
	return nil
}

func (f *fakeApplicationRepo) UpdateTaskSortOrder(_ context.Context, applicationTaskID int64, sortOrder int) error {
	for appID := range f.tasks {
		for i := range f.tasks[appID] {
			if f.tasks[appID][i].ID == applicationTaskID {
				f.tasks[appID][i].SortOrder = sortOrder
			}
		}
	}
	return nil
}

func (f *fakeApplicationRepo) DeleteTaskSelection(_ context.Context, applicationID, taskID int64) (*models.Application, error) {
	kept := f.tasks[applicationID][:0]
	for _, t := range f.tasks[applicationID] {
		if t.TaskID != taskID {
			kept = append(kept, t)
		}
	}
	f.tasks[applicationID] = kept
	if app, ok := f.apps[applicationID]; ok {
		app.CurrentStep = 1
	}
	return &models.Application{ID: applicationID, CurrentStep: 1, UpdatedAt: time.Now()}, nil
}

func (f *fakeApplicationRepo) SwapTaskOrder(_ context.Context, a, b models.ApplicationTask) error {
	f.swapCalls++
	if f.swapErr != nil {
		return f.swapErr
	}
	for appID := range f.tasks {
		for i := range f.tasks[appID] {
			switch f.tasks[appID][i].ID {
			case a.ID:
				f.tasks[appID][i].SortOrder = b.SortOrder
			case b.ID:
				f.tasks[appID][i].SortOrder = a.SortOrder
			}
		}
	}
	return nil
}

type fakeNotifier struct {
	events []models.NotificationEvent
}

func (f *fakeNotifier) CreateNotification(event models.NotificationEvent) {
	f.events = append(f.events, event)
}

func (f *fakeNotifier) actions() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Action)
	}
	return out
}

type fakeSearch struct {
	indexed []int64
}

func (f *fakeSearch) IndexOpportunity(_ context.Context, id int64) {
	f.indexed = append(f.indexed, id)
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

type fakeEmail struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmail) SendNotificationEmail(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

type fakeTelegram struct {
	msgs []string
	err  error
}

func (f *fakeTelegram) SendMessage(_ int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, text)
	return nil
}
