package complaint

import (
	"context"
	"log"
	"time"

	"github.com/civicdesk/platform/internal/account"
	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/events"
	"github.com/civicdesk/platform/internal/shared/metrics"
	"github.com/civicdesk/platform/internal/shared/types"
)

// Classifier assigns a category and urgency to complaint text.
type Classifier interface {
	Classify(ctx context.Context, text string) classify.Result
}

// ReplyWriter drafts citizen-facing reply text for a status change.
type ReplyWriter interface {
	GenerateReply(ctx context.Context, citizenName, title, description, status string) string
}

// AccountResolver resolves account references for ownership and
// assignment checks.
type AccountResolver interface {
	FindByID(ctx context.Context, id types.ID) (*account.Account, error)
}

// Publisher receives complaint domain events. Publishing is best-effort.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// UpdatePatch carries the optional fields of an admin update. Each field
// is applied independently, in a fixed order.
type UpdatePatch struct {
	Status       *Status            `json:"status,omitempty"`
	Category     *classify.Category `json:"category,omitempty"`
	Urgency      *int               `json:"urgency,omitempty"`
	Severity     *SeverityPatch     `json:"severity,omitempty"`
	AssignedTo   *types.ID          `json:"assignedTo,omitempty"`
	AdminNote    string             `json:"adminNote,omitempty"`
	ReplyMessage string             `json:"replyMessage,omitempty"`
}

// OwnPatch carries the fields a citizen may edit while the complaint is
// still pending. Nil fields keep their current value.
type OwnPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

// ListResult is a paginated complaint listing.
type ListResult struct {
	Complaints  []Complaint `json:"complaints"`
	Count       int         `json:"count"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
}

// Service implements complaint lifecycle, query, and analytics
// operations. The caller's actor is passed explicitly into every call.
type Service struct {
	store      Store
	accounts   AccountResolver
	classifier Classifier
	replies    ReplyWriter
	bus        Publisher
}

// NewService creates a complaint service. Bus may be nil, in which case
// no events are published.
func NewService(store Store, accounts AccountResolver, classifier Classifier, replies ReplyWriter, bus Publisher) *Service {
	return &Service{
		store:      store,
		accounts:   accounts,
		classifier: classifier,
		replies:    replies,
		bus:        bus,
	}
}

// Create files a new complaint for the acting citizen. The description
// is classified before the entity is persisted; classification never
// fails, so neither does this step.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (*Complaint, error) {
	classification := s.classifier.Classify(ctx, in.Description)

	c, err := New(actor.ID, in, classification)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}

	metrics.RecordComplaintCreated(string(c.Category), c.Urgency)
	s.publish(ctx, actor, events.TypeComplaintCreated, map[string]any{
		"id":       c.ID,
		"category": c.Category,
		"urgency":  c.Urgency,
	})

	return c, nil
}

// Get returns one complaint. Visible to its owner, to admins, and to
// staff whose department matches its category.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id types.ID) (*Complaint, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canView(actor, c) {
		return nil, errors.Forbidden("not allowed to view this complaint", string(actor.Role))
	}

	return c, nil
}

func (s *Service) canView(actor auth.Actor, c *Complaint) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsStaff():
		return string(c.Category) == actor.Department
	default:
		return c.UserID == actor.ID
	}
}

// List returns a page of complaints under the actor's scope. The scope
// resolution is not bypassable by the requested filter.
func (s *Service) List(ctx context.Context, actor auth.Actor, requested Filter, page Page, sort Sort) (*ListResult, error) {
	effective := ResolveScope(actor, requested)
	page = page.Normalize()

	complaints, total, err := s.store.List(ctx, effective, page, sort)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Complaints:  complaints,
		Count:       total,
		TotalPages:  types.Pages(total, page.Limit),
		CurrentPage: page.Number,
	}, nil
}

// ApplyUpdate applies an admin patch as one atomic document write. The
// effects run in a fixed order and at most one timeline entry is
// appended per call.
func (s *Service) ApplyUpdate(ctx context.Context, actor auth.Actor, id types.ID, patch UpdatePatch) (*Complaint, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required", string(actor.Role))
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStatus := c.Status

	// 1. Scalar overrides
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	if patch.Urgency != nil {
		c.Urgency = *patch.Urgency
	}

	// 2. Severity merge, patch wins per flag
	if patch.Severity != nil {
		c.MergeSeverity(*patch.Severity)
	}

	// 3. Staff assignment
	var assignee *account.Account
	if patch.AssignedTo != nil {
		assignee, err = s.accounts.FindByID(ctx, *patch.AssignedTo)
		if err != nil || assignee.Role != auth.RoleStaff {
			return nil, errors.InvalidAssignment(patch.AssignedTo.String())
		}
		c.Assign(assignee.ID)
		ref := assignee.Ref()
		c.Assignee = &ref
	}

	// 4. Internal audit note
	if patch.AdminNote != "" {
		c.AppendAdminNote(patch.AdminNote, actor.ID)
	}

	// 5. Timeline, exactly one entry at most
	statusChanged := patch.Status != nil && *patch.Status != prevStatus
	if patch.ReplyMessage != "" {
		c.AppendTimeline(c.Status, patch.ReplyMessage)
	} else if statusChanged {
		c.AppendTimeline(c.Status, statusMessage(c.Status))
	}

	c.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}

	if statusChanged {
		metrics.RecordStatusChange(string(prevStatus), string(c.Status))
	}
	if assignee != nil {
		metrics.RecordAssignment(string(c.Category))
		s.publish(ctx, actor, events.TypeComplaintAssigned, map[string]any{
			"id":         c.ID,
			"assignedTo": assignee.ID,
		})
	}
	s.publish(ctx, actor, events.TypeComplaintUpdated, map[string]any{
		"id":     c.ID,
		"status": c.Status,
	})

	return c, nil
}

func validatePatch(patch UpdatePatch) error {
	details := map[string]string{}
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		details["status"] = "unknown status"
	}
	if patch.Category != nil && !classify.ValidCategory(*patch.Category) {
		details["category"] = "unknown category"
	}
	if patch.Urgency != nil && !classify.ValidUrgency(*patch.Urgency) {
		details["urgency"] = "urgency must be between 1 and 5"
	}
	if len(details) > 0 {
		return errors.Validation("invalid update", details)
	}
	return nil
}

// UpdateOwn lets a citizen edit their own complaint while it is still
// pending. A changed description is reclassified.
func (s *Service) UpdateOwn(ctx context.Context, actor auth.Actor, id types.ID, patch OwnPatch) (*Complaint, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.UserID != actor.ID {
		return nil, errors.Forbidden("not the owner of this complaint", string(actor.Role))
	}
	if c.Status != StatusPending {
		return nil, errors.Forbidden("complaint can no longer be edited", string(actor.Role))
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, errors.Validation("invalid update", map[string]string{"title": "title is required"})
		}
		c.Title = *patch.Title
	}
	if patch.Description != nil && *patch.Description != c.Description {
		if *patch.Description == "" {
			return nil, errors.Validation("invalid update", map[string]string{"description": "description is required"})
		}
		c.Description = *patch.Description
		classification := s.classifier.Classify(ctx, c.Description)
		c.Category = classification.Category
		c.Urgency = classification.Urgency
	}
	if patch.Location != nil {
		c.Location = *patch.Location
	}
	if patch.Images != nil {
		c.Images = *patch.Images
	}

	c.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteOwn lets a citizen delete their own complaint while pending.
func (s *Service) DeleteOwn(ctx context.Context, actor auth.Actor, id types.ID) error {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if c.UserID != actor.ID {
		return errors.Forbidden("not the owner of this complaint", string(actor.Role))
	}
	if c.Status != StatusPending {
		return errors.Forbidden("only pending complaints can be deleted", string(actor.Role))
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, actor, events.TypeComplaintDeleted, map[string]any{"id": id})
	return nil
}

// DeleteAny is the unconditional admin delete.
func (s *Service) DeleteAny(ctx context.Context, actor auth.Actor, id types.ID) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("admin access required", string(actor.Role))
	}

	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, actor, events.TypeComplaintDeleted, map[string]any{"id": id})
	return nil
}

// Analytics returns dashboard aggregates over the whole collection.
// Scope narrowing applies only to listings, never here; access is
// therefore restricted to admins.
func (s *Service) Analytics(ctx context.Context, actor auth.Actor) (*Analytics, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required", string(actor.Role))
	}

	return s.store.Analytics(ctx)
}

// GenerateReply drafts citizen-facing reply text for a status change on
// the given complaint. Always succeeds for an existing complaint.
func (s *Service) GenerateReply(ctx context.Context, actor auth.Actor, id types.ID, status Status) (string, error) {
	if !actor.IsAdmin() {
		return "", errors.Forbidden("admin access required", string(actor.Role))
	}
	if !ValidStatus(status) {
		return "", errors.Validation("invalid status", map[string]string{"status": string(status)})
	}

	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	name := ""
	if c.User != nil {
		name = c.User.Name
	}

	return s.replies.GenerateReply(ctx, name, c.Title, c.Description, string(status)), nil
}

func (s *Service) publish(ctx context.Context, actor auth.Actor, eventType string, data map[string]any) {
	if s.bus == nil {
		return
	}

	event := events.NewEvent(eventType, data).WithActor(actor.ID, string(actor.Role))
	if err := s.bus.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}
