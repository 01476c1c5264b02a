package outbox

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/oakvale-college/lifecycle-service/internal/config"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	auditChannelName             = "audit_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

// Relay listens for PostgreSQL NOTIFY signals on the audit_channel and
// publishes unpublished audit rows to RabbitMQ. The audit_log table is
// the outbox: published_at is NULL until the row has been shipped.
type Relay struct {
	db            *sql.DB
	publisher     ports.AuditEventPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	lastProcessed time.Time
	isHealthy     bool
}

// NewRelay creates a new audit relay that listens for PostgreSQL notifications.
func NewRelay(db *sql.DB, dbURL string, publisher ports.AuditEventPublisher) *Relay {
	dbCB := config.NewCircuitBreaker("Relay-PostgreSQL")

	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          dbCB,
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy returns true if the relay process is alive and responding.
// Liveness is about "is the process alive", not "is the system healthy":
// an open circuit is degraded but recoverable and should not kill the pod.
func (r *Relay) IsHealthy() bool {
	return r.isHealthy
}

// IsReady returns true if the relay can process events (for readiness probes).
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	// Check if we've processed something recently (not stuck)
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}

	return r.isHealthy
}

// Start begins listening for audit notifications and processing events.
// This is a blocking call that runs until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("audit relay: listener error: %v", err)
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(auditChannelName); err != nil {
		return err
	}

	log.Printf("audit relay: listening on '%s' for notifications...", auditChannelName)

	// Process any unpublished rows on startup (catch-up)
	if err := r.processUnpublishedEntries(ctx); err != nil {
		log.Printf("audit relay: error processing startup backlog: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("audit relay: shutting down...")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				log.Println("audit relay: received nil notification (reconnecting...)")
				r.isHealthy = false
				continue
			}

			if err := r.processEntryByID(ctx, notification.Extra); err != nil {
				log.Printf("audit relay: error processing entry %s: %v", notification.Extra, err)
			} else {
				r.lastProcessed = time.Now()
				r.isHealthy = true
			}

		case <-time.After(periodicProcessInterval):
			// Periodic ping to keep connection alive and catch any missed events
			go r.listener.Ping()

			if err := r.processUnpublishedEntries(ctx); err != nil {
				log.Printf("audit relay: error in periodic processing: %v", err)
			} else {
				r.lastProcessed = time.Now()
			}
		}
	}
}

// processEntryByID publishes a single audit row by its ID.
func (r *Relay) processEntryByID(ctx context.Context, entryID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		evt, err := scanAuditEvent(tx.QueryRowContext(ctx, `
			SELECT id, entity_type, entity_id, action, old_value, new_value, changed_by, changed_at
			FROM audit_log
			WHERE id = $1 AND published_at IS NULL
			FOR UPDATE SKIP LOCKED`, entryID))

		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.publisher.PublishAuditRecorded(ctx, evt); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE audit_log SET published_at = NOW() WHERE id = $1`, evt.ID); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	return err
}

// processUnpublishedEntries publishes all unpublished rows (catch-up/recovery).
func (r *Relay) processUnpublishedEntries(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, entity_type, entity_id, action, old_value, new_value, changed_by, changed_at
			FROM audit_log
			WHERE published_at IS NULL
			ORDER BY changed_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var events []ports.AuditEvent
		for rows.Next() {
			evt, err := scanAuditEvent(rows)
			if err != nil {
				return nil, err
			}
			events = append(events, evt)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		// Release the result set before writing on the same transaction.
		rows.Close()

		for _, evt := range events {
			if err := r.publisher.PublishAuditRecorded(ctx, evt); err != nil {
				log.Printf("audit relay: failed to publish entry %s: %v", evt.ID, err)
				continue
			}

			if _, err := tx.ExecContext(ctx, `UPDATE audit_log SET published_at = NOW() WHERE id = $1`, evt.ID); err != nil {
				return nil, err
			}

			log.Printf("audit relay: published entry %s", evt.ID)
		}

		return nil, tx.Commit()
	})
	return err
}

func scanAuditEvent(row interface{ Scan(...any) error }) (ports.AuditEvent, error) {
	var evt ports.AuditEvent
	var oldValue, newValue sql.NullString
	err := row.Scan(&evt.ID, &evt.EntityType, &evt.EntityID, &evt.Action, &oldValue, &newValue, &evt.ChangedBy, &evt.ChangedAt)
	if err != nil {
		return evt, err
	}
	evt.OldValue = oldValue.String
	evt.NewValue = newValue.String
	return evt, nil
}
