// Package classify assigns a category and an urgency level to free-text
// complaint descriptions. A remote text model is consulted first when
// configured; deterministic keyword rules guarantee a result otherwise.
package classify

// Category is the fixed-enumeration classification of a complaint's
// subject matter.
type Category string

const (
	CategoryGarbage     Category = "Garbage & Sanitation"
	CategoryRoads       Category = "Roads & Infrastructure"
	CategoryWater       Category = "Water Supply"
	CategoryElectricity Category = "Electricity & Power"
	CategorySafety      Category = "Public Safety"
	CategoryGeneral     Category = "General"
)

// Categories lists every valid category in enumeration order. The order
// matters: the keyword fallback awards the first matching category.
var Categories = []Category{
	CategoryGarbage,
	CategoryRoads,
	CategoryWater,
	CategoryElectricity,
	CategorySafety,
	CategoryGeneral,
}

// ValidCategory reports whether c is a member of the enumerated set.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Urgency bounds. Level 5 is critical, level 1 can wait weeks.
const (
	MinUrgency = 1
	MaxUrgency = 5
)

// ValidUrgency reports whether u lies in the accepted range.
func ValidUrgency(u int) bool {
	return u >= MinUrgency && u <= MaxUrgency
}
