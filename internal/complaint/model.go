// Package complaint owns the complaint entity, its status lifecycle, and
// the role-scoped query and analytics layer.
package complaint

import (
	"time"

	"github.com/civicdesk/platform/internal/account"
	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/types"
)

// Status defines the lifecycle state of a complaint. Any authorized
// actor may set any of the three values at any time; the machine favors
// correction flexibility over strict forward movement.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}

// Severity holds independent risk flags. They are not mutually exclusive.
type Severity struct {
	TrafficBlock    bool `json:"traffic_block"`
	WaterLeak       bool `json:"water_leak"`
	ElectricityRisk bool `json:"electricity_risk"`
	FireHazard      bool `json:"fire_hazard"`
}

// SeverityPatch is a partial severity update; nil flags keep their
// current value.
type SeverityPatch struct {
	TrafficBlock    *bool `json:"traffic_block,omitempty"`
	WaterLeak       *bool `json:"water_leak,omitempty"`
	ElectricityRisk *bool `json:"electricity_risk,omitempty"`
	FireHazard      *bool `json:"fire_hazard,omitempty"`
}

// TimelineEntry is one citizen-visible status history record.
type TimelineEntry struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminNote is one internal audit record. Not citizen-visible.
type AdminNote struct {
	Note      string    `json:"note"`
	Admin     types.ID  `json:"admin"`
	Timestamp time.Time `json:"timestamp"`
}

// Complaint is the aggregate for one filed civic complaint.
type Complaint struct {
	ID          types.ID          `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    classify.Category `json:"category"`
	Urgency     int               `json:"urgency"`
	Severity    Severity          `json:"severity"`
	Status      Status            `json:"status"`

	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	UserID     types.ID  `json:"-"`
	AssignedTo *types.ID `json:"-"`

	// Populated account references for responses
	User     *account.Ref `json:"user,omitempty"`
	Assignee *account.Ref `json:"assignedTo,omitempty"`

	Timeline   []TimelineEntry `json:"timeline"`
	AdminNotes []AdminNote     `json:"adminNotes,omitempty"`
	Images     []string        `json:"images"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput carries the citizen-supplied fields of a new complaint.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Images      []string `json:"images"`
}

// New creates a complaint in the Pending state with the given
// classification. Severity starts with every flag false and the timeline
// empty; creation itself is not a timeline event.
func New(owner types.ID, in CreateInput, classification classify.Result) (*Complaint, error) {
	details := map[string]string{}
	if in.Title == "" {
		details["title"] = "title is required"
	}
	if in.Description == "" {
		details["description"] = "description is required"
	}
	if owner.IsZero() {
		details["user"] = "owner is required"
	}
	if len(details) > 0 {
		return nil, errors.Validation("invalid complaint", details)
	}

	now := time.Now().UTC()
	images := in.Images
	if images == nil {
		images = []string{}
	}

	return &Complaint{
		ID:          types.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Category:    classification.Category,
		Urgency:     classification.Urgency,
		Status:      StatusPending,
		Location:    in.Location,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		UserID:      owner,
		Timeline:    []TimelineEntry{},
		AdminNotes:  []AdminNote{},
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MergeSeverity applies a partial severity update; flags absent from the
// patch keep their prior value.
func (c *Complaint) MergeSeverity(patch SeverityPatch) {
	if patch.TrafficBlock != nil {
		c.Severity.TrafficBlock = *patch.TrafficBlock
	}
	if patch.WaterLeak != nil {
		c.Severity.WaterLeak = *patch.WaterLeak
	}
	if patch.ElectricityRisk != nil {
		c.Severity.ElectricityRisk = *patch.ElectricityRisk
	}
	if patch.FireHazard != nil {
		c.Severity.FireHazard = *patch.FireHazard
	}
}

// AppendTimeline appends one citizen-visible history entry. The timeline
// only ever grows; there is no removal operation.
func (c *Complaint) AppendTimeline(status Status, message string) {
	c.Timeline = append(c.Timeline, TimelineEntry{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// AppendAdminNote appends one internal audit note.
func (c *Complaint) AppendAdminNote(note string, admin types.ID) {
	c.AdminNotes = append(c.AdminNotes, AdminNote{
		Note:      note,
		Admin:     admin,
		Timestamp: time.Now().UTC(),
	})
}

// Assign points the complaint at a staff account. Callers must have
// verified the target's role; this only records the reference.
func (c *Complaint) Assign(staffID types.ID) {
	c.AssignedTo = &staffID
}

// statusMessage is the system-generated timeline text for a status
// change without a custom reply.
func statusMessage(s Status) string {
	switch s {
	case StatusInProgress:
		return "Your complaint is being worked on by our team."
	case StatusResolved:
		return "Your complaint has been resolved. Thank you for your patience."
	default:
		return "Your complaint has been received and is pending review."
	}
}
