package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"drinks-service/internal/auth"
	"drinks-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeDrink ResourceType = "drink"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSeed   Action = "seed"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

const (
	defaultWriteTimeout   = 2 * time.Second
	metadataKeyError      = "error"
	errMarshalMetadataFmt = "failed to marshal audit metadata: %w"
	errInsertEventFmt     = "failed to insert audit event: %w"
)

// Event represents an audit event. ActorID is the token subject of the caller.
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorType    ActorType
	ActorID      string
	ResourceType ResourceType
	ResourceID   string
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// Execer is the part of pgxpool.Pool the logger writes through.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Logger writes audit events to the audit_events table. Writes triggered from a
// request run in the background; Wait blocks until they are done.
type Logger struct {
	db      Execer
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewLogger(db Execer, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{db: db, logger: logger, timeout: defaultWriteTimeout}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf(errMarshalMetadataFmt, err)
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, actor_type, actor_id, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := l.db.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.ActorType,
		event.ActorID,
		event.ResourceType,
		event.ResourceID,
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf(errInsertEventFmt, err)
	}
	return nil
}

// LogFromContext records the outcome of a request asynchronously
func (l *Logger) LogFromContext(c echo.Context, resourceType ResourceType, resourceID string, action Action, status Status, metadata map[string]any) {
	event := eventFromContext(c, resourceType, resourceID, action)
	event.Status = status
	event.Metadata = logger.SanitizeMap(metadata)
	l.logAsync(event)
}

// LogError records a failed action with error details asynchronously
func (l *Logger) LogError(c echo.Context, resourceType ResourceType, resourceID string, action Action, err error) {
	event := eventFromContext(c, resourceType, resourceID, action)
	event.Status = StatusFailure
	message := logger.SanitizeLogMessage(err.Error())
	event.Metadata = map[string]any{metadataKeyError: message}
	event.ErrorMessage = message
	l.logAsync(event)
}

// Wait blocks until all background writes have finished.
func (l *Logger) Wait() {
	l.wg.Wait()
}

func (l *Logger) logAsync(event *Event) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		if err := l.Log(ctx, event); err != nil {
			l.logger.Error("audit log failed",
				"event_type", event.EventType,
				"resource_id", event.ResourceID,
				"request_id", event.RequestID,
				"error", err)
		}
	}()
}

func eventFromContext(c echo.Context, resourceType ResourceType, resourceID string, action Action) *Event {
	event := &Event{
		EventType:    string(action) + "_" + string(resourceType),
		ActorType:    ActorTypeSystem,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if subject := auth.GetSubject(c); subject != "" {
		event.ActorType = ActorTypeUser
		event.ActorID = subject
	}

	return event
}
