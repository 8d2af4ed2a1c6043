// Package events publishes complaint domain events to KurrentDB
// (EventStoreDB). Publishing is best-effort: the platform runs without a
// bus when the store is unreachable at startup.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/civicdesk/platform/internal/shared/config"
	"github.com/civicdesk/platform/internal/shared/types"
	"github.com/google/uuid"
)

// Event types published by the complaint service.
const (
	TypeComplaintCreated  = "complaint.created"
	TypeComplaintUpdated  = "complaint.updated"
	TypeComplaintAssigned = "complaint.assigned"
	TypeComplaintDeleted  = "complaint.deleted"
)

// Event represents a domain event
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Actor information
	ActorID   types.ID `json:"actor_id"`
	ActorRole string   `json:"actor_role"`

	// Event data
	Data any `json:"data"`
}

// NewEvent creates a new event with auto-generated ID and timestamp
func NewEvent(eventType string, data any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// WithActor sets the actor information on the event
func (e Event) WithActor(actorID types.ID, role string) Event {
	e.ActorID = actorID
	e.ActorRole = role
	return e
}

// Bus provides event publishing backed by KurrentDB
type Bus struct {
	client *esdb.Client
	prefix string
}

// NewBus creates a new event bus connected to KurrentDB
func NewBus(ctx context.Context, cfg config.KurrentDBConfig) (*Bus, error) {
	settings, err := esdb.ParseConnectionString(connectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create KurrentDB client: %w", err)
	}

	return &Bus{client: client, prefix: "civicdesk"}, nil
}

func connectionString(cfg config.KurrentDBConfig) string {
	var auth string
	if cfg.Username != "" && cfg.Password != "" {
		auth = fmt.Sprintf("%s:%s@", cfg.Username, cfg.Password)
	}

	params := ""
	if cfg.Insecure {
		params = "?tls=false&tlsVerifyCert=false"
	}

	return fmt.Sprintf("esdb://%s%s:%d%s", auth, cfg.Host, cfg.Port, params)
}

// Publish appends an event to the stream derived from its type:
// complaint.created -> civicdesk-complaint-created.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	stream := fmt.Sprintf("%s-%s", b.prefix, strings.ReplaceAll(event.Type, ".", "-"))

	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		eventID = uuid.New()
	}

	esdbEvent := esdb.EventData{
		EventType:   event.Type,
		ContentType: esdb.ContentTypeJson,
		Data:        data,
		EventID:     eventID,
	}

	_, err = b.client.AppendToStream(ctx, stream, esdb.AppendToStreamOptions{
		ExpectedRevision: esdb.Any{},
	}, esdbEvent)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close closes the underlying client
func (b *Bus) Close() {
	if b.client != nil {
		b.client.Close()
	}
}

// Health verifies the bus connection by reading from the $streams projection
func (b *Bus) Health(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stream, err := b.client.ReadStream(timeoutCtx, "$streams", esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1)
	if err != nil {
		return fmt.Errorf("KurrentDB health check failed: %w", err)
	}
	defer stream.Close()

	return nil
}
