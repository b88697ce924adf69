package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventDraftCreated   = "draft_created"
	EventQuotePublished = "quote_published"
	EventDraftDiscarded = "draft_discarded"
)

// LogEvent appends to the quote journal. Call it inside the transaction that
// performs the change so the journal never records a rolled back operation.
func (q *Queries) LogEvent(ctx context.Context, userID int64, quoteID int64, eventType string, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	query := `INSERT INTO quote_events (user_id, quote_id, event_type, payload) VALUES ($1, $2, $3, $4)`
	_, err = q.db.Exec(ctx, query, userID, quoteID, eventType, payloadBytes)
	if err != nil {
		return err
	}

	return nil
}

type Event struct {
	ID        int64           `json:"id"`
	QuoteID   int64           `json:"quote_id"`
	EventType string          `json:"event_type"`
	EventTime time.Time       `json:"event_time"`
	Payload   json.RawMessage `json:"payload"`
}

func (q *Queries) GetEventsSince(ctx context.Context, userID int64, sinceID int64) ([]Event, error) {
	query := `
		SELECT id, quote_id, event_type, event_time, payload
		FROM quote_events
		WHERE user_id = $1 AND id > $2
		ORDER BY id ASC
		LIMIT 100
	`
	rows, err := q.db.Query(ctx, query, userID, sinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		err := rows.Scan(
			&event.ID,
			&event.QuoteID,
			&event.EventType,
			&event.EventTime,
			&event.Payload,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if events == nil {
		return []Event{}, nil
	}

	return events, nil
}
