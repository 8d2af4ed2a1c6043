package complaint

import (
	"context"

	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/shared/types"
)

// GeoPoint is one mappable complaint location for spatial clustering.
type GeoPoint struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Category  classify.Category `json:"category"`
}

// SeverityCounts holds per-flag true counts across the whole collection.
type SeverityCounts struct {
	TrafficBlock    int `json:"traffic_block"`
	WaterLeak       int `json:"water_leak"`
	ElectricityRisk int `json:"electricity_risk"`
	FireHazard      int `json:"fire_hazard"`
}

// Analytics is the dashboard aggregate over the full complaint set.
type Analytics struct {
	Total      int                       `json:"total"`
	ByStatus   map[Status]int            `json:"byStatus"`
	ByCategory map[classify.Category]int `json:"byCategory"`
	ByUrgency  map[int]int               `json:"byUrgency"`
	Severity   SeverityCounts            `json:"severity"`
	GeoPoints  []GeoPoint                `json:"geoPoints"`
}

// Store is the persistence interface for complaints.
type Store interface {
	Save(ctx context.Context, c *Complaint) error
	FindByID(ctx context.Context, id types.ID) (*Complaint, error)
	// Update persists the full entity as one atomic document write.
	Update(ctx context.Context, c *Complaint) error
	Delete(ctx context.Context, id types.ID) error
	// List returns a page of complaints matching the effective filter and
	// the unpaginated match count.
	List(ctx context.Context, filter Filter, page Page, sort Sort) ([]Complaint, int, error)
	// Analytics aggregates over the entire collection, unscoped.
	Analytics(ctx context.Context) (*Analytics, error)
}
