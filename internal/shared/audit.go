package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents a record stored in audit_logs.
type AuditLog struct {
	ActorID  int64
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditLogger writes records into audit_logs.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return errors.New("audit log requires action/entity/entity_id")
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, $6)`, log.ActorID, log.Action, log.Entity, log.EntityID, metaJSON, eventTime(log.At))
	return err
}

// eventTime substitutes now for unset timestamps. A zero time.Time is not
// SQL NULL, so leaving it to the database would store the year-1 sentinel.
func eventTime(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now().UTC()
	}
	return at
}

// RecordStatusChange persists a status transition entry for an entity.
func (l *AuditLogger) RecordStatusChange(ctx context.Context, actorID int64, entity, entityID, field, from, to string) error {
	return l.Record(ctx, AuditLog{
		ActorID:  actorID,
		Action:   "status_change",
		Entity:   entity,
		EntityID: entityID,
		Meta: map[string]any{
			"field": field,
			"from":  from,
			"to":    to,
		},
	})
}
