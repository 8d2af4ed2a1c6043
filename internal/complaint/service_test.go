package complaint

import (
	"context"
	"testing"

	"github.com/civicdesk/platform/internal/account"
	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/events"
	"github.com/civicdesk/platform/internal/shared/types"
)

type fakeStore struct {
	complaints map[types.ID]*Complaint
	total      int
	lastFilter Filter
	updates    int
	deletes    int
}

func newFakeStore(complaints ...*Complaint) *fakeStore {
	s := &fakeStore{complaints: map[types.ID]*Complaint{}}
	for _, c := range complaints {
		s.complaints[c.ID] = c
	}
	return s
}

func (s *fakeStore) Save(ctx context.Context, c *Complaint) error {
	s.complaints[c.ID] = c
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, id types.ID) (*Complaint, error) {
	c, ok := s.complaints[id]
	if !ok {
		return nil, errors.NotFound("complaint", id.String())
	}
	copied := *c
	return &copied, nil
}

func (s *fakeStore) Update(ctx context.Context, c *Complaint) error {
	if _, ok := s.complaints[c.ID]; !ok {
		return errors.NotFound("complaint", c.ID.String())
	}
	s.updates++
	s.complaints[c.ID] = c
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id types.ID) error {
	if _, ok := s.complaints[id]; !ok {
		return errors.NotFound("complaint", id.String())
	}
	s.deletes++
	delete(s.complaints, id)
	return nil
}

func (s *fakeStore) List(ctx context.Context, filter Filter, page Page, sort Sort) ([]Complaint, int, error) {
	s.lastFilter = filter
	out := make([]Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		out = append(out, *c)
	}
	total := s.total
	if total == 0 {
		total = len(out)
	}
	return out, total, nil
}

func (s *fakeStore) Analytics(ctx context.Context) (*Analytics, error) {
	return &Analytics{Total: len(s.complaints)}, nil
}

type fakeAccounts struct {
	accounts map[types.ID]*account.Account
}

func (f *fakeAccounts) FindByID(ctx context.Context, id types.ID) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, errors.NotFound("user", id.String())
	}
	return a, nil
}

type fakeClassifier struct {
	result classify.Result
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) classify.Result {
	f.calls++
	return f.result
}

type fakeReplies struct{}

func (fakeReplies) GenerateReply(ctx context.Context, citizenName, title, description, status string) string {
	return "Dear " + citizenName + ", your report on " + title + " is " + status + "."
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func newTestService(store *fakeStore, accounts *fakeAccounts, classifier *fakeClassifier, bus *fakeBus) *Service {
	if accounts == nil {
		accounts = &fakeAccounts{accounts: map[types.ID]*account.Account{}}
	}
	if classifier == nil {
		classifier = &fakeClassifier{result: classify.Result{Category: classify.CategoryGeneral, Urgency: 1}}
	}
	var publisher Publisher
	if bus != nil {
		publisher = bus
	}
	return NewService(store, accounts, classifier, fakeReplies{}, publisher)
}

func citizen() auth.Actor {
	return auth.Actor{ID: types.NewID(), Name: "Mira", Role: auth.RoleCitizen}
}

func admin() auth.Actor {
	return auth.Actor{ID: types.NewID(), Name: "Lena", Role: auth.RoleAdmin}
}

func pendingComplaint(owner types.ID) *Complaint {
	c, err := New(owner, CreateInput{
		Title:       "Overflowing bins",
		Description: "Garbage has not been collected for a week",
	}, classify.Result{Category: classify.CategoryGarbage, Urgency: 2})
	if err != nil {
		panic(err)
	}
	return c
}

func TestServiceCreate(t *testing.T) {
	store := newFakeStore()
	classifier := &fakeClassifier{result: classify.Result{Category: classify.CategoryWater, Urgency: 4}}
	bus := &fakeBus{}
	svc := newTestService(store, nil, classifier, bus)
	actor := citizen()

	c, err := svc.Create(context.Background(), actor, CreateInput{
		Title:       "Burst pipe",
		Description: "Water leaking onto the street",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if c.Category != classify.CategoryWater || c.Urgency != 4 {
		t.Errorf("classification not applied: category=%q urgency=%d", c.Category, c.Urgency)
	}
	if c.UserID != actor.ID {
		t.Errorf("owner = %v, want %v", c.UserID, actor.ID)
	}
	if _, ok := store.complaints[c.ID]; !ok {
		t.Error("complaint was not persisted")
	}
	if len(bus.published) != 1 || bus.published[0].Type != events.TypeComplaintCreated {
		t.Errorf("published events = %+v, want one created event", bus.published)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil, nil)

	_, err := svc.Create(context.Background(), citizen(), CreateInput{Title: "No description"})
	if !errors.Is(err, errors.ErrValidation) {
		t.Errorf("Create() error = %v, want validation error", err)
	}
}

func TestServiceGetVisibility(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	tests := []struct {
		name    string
		actor   auth.Actor
		wantErr error
	}{
		{"owner sees own", owner, nil},
		{"admin sees all", admin(), nil},
		{
			"staff in matching department",
			auth.Actor{ID: types.NewID(), Role: auth.RoleStaff, Department: string(classify.CategoryGarbage)},
			nil,
		},
		{
			"staff in other department denied",
			auth.Actor{ID: types.NewID(), Role: auth.RoleStaff, Department: string(classify.CategoryRoads)},
			errors.ErrForbidden,
		},
		{"other citizen denied", citizen(), errors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(context.Background(), tt.actor, c.ID)
			if tt.wantErr == nil && err != nil {
				t.Errorf("Get() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceListScopesCitizen(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil, nil)
	actor := citizen()

	other := types.NewID()
	_, err := svc.List(context.Background(), actor, Filter{UserID: other}, Page{}, DefaultSort)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if store.lastFilter.UserID != actor.ID {
		t.Errorf("effective UserID = %v, want the actor's own id", store.lastFilter.UserID)
	}
}

func TestServiceListPagination(t *testing.T) {
	owner := citizen()
	store := newFakeStore(pendingComplaint(owner.ID))
	store.total = 250
	svc := newTestService(store, nil, nil, nil)

	result, err := svc.List(context.Background(), admin(), Filter{}, Page{Number: 2, Limit: 100}, DefaultSort)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if result.Count != 250 {
		t.Errorf("count = %d, want 250", result.Count)
	}
	if result.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", result.TotalPages)
	}
	if result.CurrentPage != 2 {
		t.Errorf("currentPage = %d, want 2", result.CurrentPage)
	}
}

func TestServiceListEmptyPagination(t *testing.T) {
	store := newFakeStore()
	store.total = 0
	svc := newTestService(store, nil, nil, nil)

	result, err := svc.List(context.Background(), admin(), Filter{}, Page{}, DefaultSort)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if result.TotalPages != 0 {
		t.Errorf("totalPages = %d for zero items, want 0", result.TotalPages)
	}
}

func TestApplyUpdateRequiresAdmin(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	svc := newTestService(newFakeStore(c), nil, nil, nil)

	status := StatusResolved
	_, err := svc.ApplyUpdate(context.Background(), owner, c.ID, UpdatePatch{Status: &status})
	if !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("ApplyUpdate() error = %v, want forbidden", err)
	}
}

func TestApplyUpdateStatusChangeAppendsTemplatedEntry(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	status := StatusInProgress
	updated, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{Status: &status})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if updated.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", updated.Status, StatusInProgress)
	}
	if len(updated.Timeline) != 1 {
		t.Fatalf("timeline has %d entries, want exactly 1", len(updated.Timeline))
	}
	entry := updated.Timeline[0]
	if entry.Status != StatusInProgress || entry.Message != statusMessage(StatusInProgress) {
		t.Errorf("timeline entry = %+v, want templated in-progress message", entry)
	}
	if store.updates != 1 {
		t.Errorf("store updates = %d, want 1", store.updates)
	}
}

func TestApplyUpdateReplyMessageWinsOverTemplate(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	status := StatusResolved
	updated, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{
		Status:       &status,
		ReplyMessage: "The crew cleared the bins this morning.",
	})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if len(updated.Timeline) != 1 {
		t.Fatalf("timeline has %d entries, want exactly 1", len(updated.Timeline))
	}
	if updated.Timeline[0].Message != "The crew cleared the bins this morning." {
		t.Errorf("timeline message = %q, want the custom reply", updated.Timeline[0].Message)
	}
}

func TestApplyUpdateReplyWithoutStatusChange(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	updated, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{
		ReplyMessage: "We are reviewing your report.",
	})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if len(updated.Timeline) != 1 {
		t.Fatalf("timeline has %d entries, want 1", len(updated.Timeline))
	}
	if updated.Timeline[0].Status != StatusPending {
		t.Errorf("timeline entry status = %q, want current status", updated.Timeline[0].Status)
	}
}

func TestApplyUpdateNoTimelineWithoutChange(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	urgency := 5
	updated, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{Urgency: &urgency})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if len(updated.Timeline) != 0 {
		t.Errorf("timeline has %d entries, want 0 without status change or reply", len(updated.Timeline))
	}
	if updated.Urgency != 5 {
		t.Errorf("urgency = %d, want 5", updated.Urgency)
	}
}

func TestApplyUpdateSameStatusNoEntry(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	status := StatusPending
	updated, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{Status: &status})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if len(updated.Timeline) != 0 {
		t.Errorf("setting the same status appended %d timeline entries, want 0", len(updated.Timeline))
	}
}

func TestApplyUpdateSeverityMerge(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	c.Severity.TrafficBlock = true
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	on := true
	updated, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{
		Severity: &SeverityPatch{WaterLeak: &on},
	})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	want := Severity{TrafficBlock: true, WaterLeak: true}
	if updated.Severity != want {
		t.Errorf("severity = %+v, want %+v", updated.Severity, want)
	}
}

func TestApplyUpdateAssignment(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)

	staff := &account.Account{
		ID:         types.NewID(),
		Name:       "Dario",
		Email:      "dario@city.example",
		Role:       auth.RoleStaff,
		Department: string(classify.CategoryGarbage),
	}
	accounts := &fakeAccounts{accounts: map[types.ID]*account.Account{staff.ID: staff}}
	bus := &fakeBus{}
	svc := newTestService(store, accounts, nil, bus)

	updated, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{AssignedTo: &staff.ID})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if updated.AssignedTo == nil || *updated.AssignedTo != staff.ID {
		t.Errorf("assignedTo = %v, want %v", updated.AssignedTo, staff.ID)
	}
	if updated.Assignee == nil || updated.Assignee.Name != "Dario" {
		t.Errorf("assignee ref = %+v, want populated staff ref", updated.Assignee)
	}

	var sawAssigned bool
	for _, e := range bus.published {
		if e.Type == events.TypeComplaintAssigned {
			sawAssigned = true
		}
	}
	if !sawAssigned {
		t.Error("expected an assigned event to be published")
	}
}

func TestApplyUpdateRejectsNonStaffAssignee(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)

	target := &account.Account{ID: types.NewID(), Name: "Ana", Role: auth.RoleCitizen}
	accounts := &fakeAccounts{accounts: map[types.ID]*account.Account{target.ID: target}}
	svc := newTestService(store, accounts, nil, nil)

	_, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{AssignedTo: &target.ID})
	if !errors.Is(err, errors.ErrInvalidAssignment) {
		t.Errorf("ApplyUpdate() error = %v, want invalid assignment", err)
	}
	if store.updates != 0 {
		t.Errorf("store updates = %d, want 0 when assignment is rejected", store.updates)
	}
}

func TestApplyUpdateUnknownAssignee(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	svc := newTestService(newFakeStore(c), nil, nil, nil)

	missing := types.NewID()
	_, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, UpdatePatch{AssignedTo: &missing})
	if !errors.Is(err, errors.ErrInvalidAssignment) {
		t.Errorf("ApplyUpdate() error = %v, want invalid assignment", err)
	}
}

func TestApplyUpdateAdminNote(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)
	actingAdmin := admin()

	updated, err := svc.ApplyUpdate(context.Background(), actingAdmin, c.ID, UpdatePatch{
		AdminNote: "duplicate of an earlier report",
	})
	if err != nil {
		t.Fatalf("ApplyUpdate() error = %v", err)
	}

	if len(updated.AdminNotes) != 1 {
		t.Fatalf("admin notes has %d entries, want 1", len(updated.AdminNotes))
	}
	if updated.AdminNotes[0].Admin != actingAdmin.ID {
		t.Errorf("note author = %v, want the acting admin", updated.AdminNotes[0].Admin)
	}
	if len(updated.Timeline) != 0 {
		t.Error("admin note alone must not touch the citizen-visible timeline")
	}
}

func TestApplyUpdateValidation(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	badStatus := Status("Closed")
	badCategory := classify.Category("Parks")
	badUrgency := 9

	tests := []struct {
		name  string
		patch UpdatePatch
	}{
		{"unknown status", UpdatePatch{Status: &badStatus}},
		{"unknown category", UpdatePatch{Category: &badCategory}},
		{"urgency out of range", UpdatePatch{Urgency: &badUrgency}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ApplyUpdate(context.Background(), admin(), c.ID, tt.patch)
			if !errors.Is(err, errors.ErrValidation) {
				t.Errorf("ApplyUpdate() error = %v, want validation error", err)
			}
		})
	}

	if store.updates != 0 {
		t.Errorf("store updates = %d, want 0 for rejected patches", store.updates)
	}
}

func TestUpdateOwn(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	classifier := &fakeClassifier{result: classify.Result{Category: classify.CategoryRoads, Urgency: 4}}
	svc := newTestService(store, nil, classifier, nil)

	desc := "A deep pothole opened up after the rain"
	updated, err := svc.UpdateOwn(context.Background(), owner, c.ID, OwnPatch{Description: &desc})
	if err != nil {
		t.Fatalf("UpdateOwn() error = %v", err)
	}

	if updated.Description != desc {
		t.Errorf("description = %q, want the new text", updated.Description)
	}
	if updated.Category != classify.CategoryRoads || updated.Urgency != 4 {
		t.Errorf("changed description was not reclassified: category=%q urgency=%d", updated.Category, updated.Urgency)
	}
	if classifier.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", classifier.calls)
	}
}

func TestUpdateOwnUnchangedDescriptionSkipsReclassification(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	classifier := &fakeClassifier{result: classify.Result{Category: classify.CategoryRoads, Urgency: 4}}
	svc := newTestService(store, nil, classifier, nil)

	title := "Bins still overflowing"
	updated, err := svc.UpdateOwn(context.Background(), owner, c.ID, OwnPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateOwn() error = %v", err)
	}

	if classifier.calls != 0 {
		t.Errorf("classifier calls = %d, want 0 when the description is untouched", classifier.calls)
	}
	if updated.Category != classify.CategoryGarbage {
		t.Errorf("category = %q, want unchanged", updated.Category)
	}
}

func TestUpdateOwnGuards(t *testing.T) {
	owner := citizen()

	inProgress := pendingComplaint(owner.ID)
	inProgress.Status = StatusInProgress

	other := pendingComplaint(owner.ID)

	store := newFakeStore(inProgress, other)
	svc := newTestService(store, nil, nil, nil)

	title := "edited"

	_, err := svc.UpdateOwn(context.Background(), owner, inProgress.ID, OwnPatch{Title: &title})
	if !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("editing a non-pending complaint: error = %v, want forbidden", err)
	}

	_, err = svc.UpdateOwn(context.Background(), citizen(), other.ID, OwnPatch{Title: &title})
	if !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("editing someone else's complaint: error = %v, want forbidden", err)
	}
}

func TestDeleteOwn(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	store := newFakeStore(c)
	bus := &fakeBus{}
	svc := newTestService(store, nil, nil, bus)

	if err := svc.DeleteOwn(context.Background(), owner, c.ID); err != nil {
		t.Fatalf("DeleteOwn() error = %v", err)
	}
	if store.deletes != 1 {
		t.Errorf("store deletes = %d, want 1", store.deletes)
	}
	if len(bus.published) != 1 || bus.published[0].Type != events.TypeComplaintDeleted {
		t.Errorf("published events = %+v, want one deleted event", bus.published)
	}
}

func TestDeleteOwnGuards(t *testing.T) {
	owner := citizen()

	resolved := pendingComplaint(owner.ID)
	resolved.Status = StatusResolved

	store := newFakeStore(resolved)
	svc := newTestService(store, nil, nil, nil)

	if err := svc.DeleteOwn(context.Background(), owner, resolved.ID); !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("deleting a resolved complaint: error = %v, want forbidden", err)
	}
	if err := svc.DeleteOwn(context.Background(), citizen(), resolved.ID); !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("deleting someone else's complaint: error = %v, want forbidden", err)
	}
	if store.deletes != 0 {
		t.Errorf("store deletes = %d, want 0", store.deletes)
	}
}

func TestDeleteAny(t *testing.T) {
	owner := citizen()
	resolved := pendingComplaint(owner.ID)
	resolved.Status = StatusResolved
	store := newFakeStore(resolved)
	svc := newTestService(store, nil, nil, nil)

	if err := svc.DeleteAny(context.Background(), owner, resolved.ID); !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("citizen delete-any: error = %v, want forbidden", err)
	}

	if err := svc.DeleteAny(context.Background(), admin(), resolved.ID); err != nil {
		t.Fatalf("DeleteAny() error = %v", err)
	}
	if store.deletes != 1 {
		t.Errorf("store deletes = %d, want 1", store.deletes)
	}
}

func TestAnalyticsAdminOnly(t *testing.T) {
	owner := citizen()
	store := newFakeStore(pendingComplaint(owner.ID))
	svc := newTestService(store, nil, nil, nil)

	if _, err := svc.Analytics(context.Background(), owner); !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("citizen analytics: error = %v, want forbidden", err)
	}

	staff := auth.Actor{ID: types.NewID(), Role: auth.RoleStaff, Department: string(classify.CategoryGarbage)}
	if _, err := svc.Analytics(context.Background(), staff); !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("staff analytics: error = %v, want forbidden", err)
	}

	result, err := svc.Analytics(context.Background(), admin())
	if err != nil {
		t.Fatalf("Analytics() error = %v", err)
	}
	if result.Total != 1 {
		t.Errorf("total = %d, want 1", result.Total)
	}
}

func TestGenerateReply(t *testing.T) {
	owner := citizen()
	c := pendingComplaint(owner.ID)
	c.User = &account.Ref{ID: owner.ID, Name: "Mira"}
	store := newFakeStore(c)
	svc := newTestService(store, nil, nil, nil)

	message, err := svc.GenerateReply(context.Background(), admin(), c.ID, StatusResolved)
	if err != nil {
		t.Fatalf("GenerateReply() error = %v", err)
	}
	if message == "" {
		t.Error("expected a non-empty reply")
	}

	if _, err := svc.GenerateReply(context.Background(), admin(), c.ID, Status("Archived")); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("invalid status: error = %v, want validation error", err)
	}
	if _, err := svc.GenerateReply(context.Background(), owner, c.ID, StatusResolved); !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("citizen reply: error = %v, want forbidden", err)
	}
}
