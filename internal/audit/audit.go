package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	auditDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/audit"
	"github.com/vivekrana775/ems-backend/internal/core/events"
)

const EventTypeRecorded = "audit.recorded"

// Entry is one auditable action. Metadata is free-form and stored as JSON.
type Entry struct {
	UserID   *string
	Action   string
	Entity   string
	EntityID string
	Metadata map[string]interface{}
}

// Recorder accepts audit entries. Recording is fire-and-forget: failures
// are logged by the transport, never surfaced to the caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Writer persists audit rows; implemented by the postgres package.
type Writer interface {
	Write(log *auditDatamodel.AuditLog) error
}

// BusRecorder publishes entries onto the in-process event bus so the
// primary mutation never waits on the audit write.
type BusRecorder struct {
	bus    *events.EventBus
	logger *slog.Logger
}

func NewBusRecorder(bus *events.EventBus, logger *slog.Logger) *BusRecorder {
	return &BusRecorder{bus: bus, logger: logger}
}

func (r *BusRecorder) Record(ctx context.Context, entry Entry) {
	event := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeRecorded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":   entry.UserID,
			"action":    entry.Action,
			"entity":    entry.Entity,
			"entity_id": entry.EntityID,
			"metadata":  entry.Metadata,
		},
	}
	if err := r.bus.Publish(ctx, event); err != nil {
		r.logger.Error("audit publish failed", "action", entry.Action, "error", err)
	}
}

// RegisterPersistence subscribes a handler that turns published audit
// events into rows via the writer.
func RegisterPersistence(bus *events.EventBus, writer Writer, logger *slog.Logger) {
	bus.Subscribe(EventTypeRecorded, func(ctx context.Context, event events.Event) error {
		data, ok := event.Payload().(map[string]interface{})
		if !ok {
			return nil
		}

		log := &auditDatamodel.AuditLog{
			Action:    stringValue(data["action"]),
			CreatedAt: event.OccurredAt(),
		}
		if userID, ok := data["user_id"].(*string); ok {
			log.UserID = userID
		}
		if entity := stringValue(data["entity"]); entity != "" {
			log.Entity = &entity
		}
		if entityID := stringValue(data["entity_id"]); entityID != "" {
			log.EntityID = &entityID
		}
		if metadata, ok := data["metadata"].(map[string]interface{}); ok && metadata != nil {
			raw, err := json.Marshal(metadata)
			if err != nil {
				logger.Error("audit metadata marshal failed", "action", log.Action, "error", err)
			} else {
				log.Metadata = raw
			}
		}

		if err := writer.Write(log); err != nil {
			logger.Error("audit write failed", "action", log.Action, "error", err)
		}
		return nil
	})
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
