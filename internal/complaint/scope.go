package complaint

import (
	"strings"

	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/types"
)

// Filter selects complaints for listing. Zero values mean "no
// constraint" for that field.
type Filter struct {
	Status     Status
	Category   classify.Category
	Urgency    int
	AssignedTo types.ID
	UserID     types.ID
	Search     string
}

// ResolveScope narrows a requested filter to what the actor is allowed
// to see. It is a pure function and runs before any query construction,
// so request parameters cannot widen an actor's scope:
//   - staff: category forced to the actor's department
//   - citizen: results forced to complaints the actor owns
//   - admin/superadmin: requested filter passes through unchanged
func ResolveScope(actor auth.Actor, requested Filter) Filter {
	effective := requested

	switch {
	case actor.IsStaff():
		effective.Category = classify.Category(actor.Department)
	case actor.Role == auth.RoleCitizen:
		effective.UserID = actor.ID
	}

	return effective
}

// Sort describes a listing order. Field names use the API's camelCase
// convention and are whitelisted at the repository.
type Sort struct {
	Field string
	Desc  bool
}

// DefaultSort is reverse-chronological by creation time.
var DefaultSort = Sort{Field: "createdAt", Desc: true}

// ParseSort reads a sort parameter of the form "field" or "-field".
// Empty input yields the default sort.
func ParseSort(s string) Sort {
	if s == "" {
		return DefaultSort
	}
	if strings.HasPrefix(s, "-") {
		return Sort{Field: s[1:], Desc: true}
	}
	return Sort{Field: s, Desc: false}
}

// Page describes a 1-indexed pagination request.
type Page struct {
	Number int
	Limit  int
}

// DefaultLimit caps a complaint listing page when the caller gives none.
const DefaultLimit = 100

// Normalize clamps a page request to sane values.
func (p Page) Normalize() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
