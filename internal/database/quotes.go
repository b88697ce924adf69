package database

import (
	"context"
	"errors"
	"serwer-cytatow/internal/models"
	"time"

	"github.com/jackc/pgx/v5"
)

var quoteColumns = []string{
	"id", "quote", "author", "explanation", "section", "owner_id", "timestamp", "completed", "created_at",
}

// CreateDraft inserts an empty, incomplete quote and returns its id.
func (q *Queries) CreateDraft(ctx context.Context, ownerID int64, section string) (int64, error) {
	query := `
		INSERT INTO quotes (quote, author, explanation, section, owner_id, completed)
		VALUES ('', '', '', $1, $2, FALSE)
		RETURNING id
	`
	var id int64
	err := q.db.QueryRow(ctx, query, section, ownerID).Scan(&id)
	return id, err
}

type SubmitDraftParams struct {
	ID          int64
	OwnerID     int64
	Quote       string
	Author      string
	Explanation string
	Timestamp   time.Time
}

// SubmitDraft publishes a draft in a single statement. The section chosen at
// StartDraft is kept. It reports false when no draft with that id belongs to the
// owner, including drafts that were already published or cancelled.
func (q *Queries) SubmitDraft(ctx context.Context, arg SubmitDraftParams) (bool, error) {
	query := `
		UPDATE quotes
		SET quote = $1, author = $2, explanation = $3, timestamp = $4, completed = TRUE
		WHERE id = $5 AND owner_id = $6 AND completed = FALSE
	`
	res, err := q.db.Exec(ctx, query,
		arg.Quote, arg.Author, arg.Explanation, arg.Timestamp,
		arg.ID, arg.OwnerID,
	)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// DeleteDraft removes an unpublished quote owned by ownerID. Published quotes are never deleted.
func (q *Queries) DeleteDraft(ctx context.Context, id int64, ownerID int64) (bool, error) {
	query := `DELETE FROM quotes WHERE id = $1 AND owner_id = $2 AND completed = FALSE`
	res, err := q.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) GetDraft(ctx context.Context, id int64, ownerID int64) (*models.Quote, error) {
	query, args, err := psql.Select(quoteColumns...).
		From("quotes").
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Where("completed = ?", false).
		ToSql()
	if err != nil {
		return nil, err
	}

	quote, err := scanQuote(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return quote, nil
}

func (q *Queries) GetQuoteByID(ctx context.Context, id int64) (*models.Quote, error) {
	query, args, err := psql.Select(quoteColumns...).From("quotes").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, err
	}

	quote, err := scanQuote(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return quote, nil
}

// ListPublished returns the published quotes of one section, most recently
// inserted first. A zero limit returns the rest of the section after offset.
func (q *Queries) ListPublished(ctx context.Context, section string, limit uint64, offset uint64) ([]models.Quote, error) {
	b := psql.Select(quoteColumns...).
		From("quotes").
		Where("section = ?", section).
		Where("completed = ?", true).
		OrderBy("id DESC")
	if limit > 0 {
		b = b.Limit(limit)
	}
	if offset > 0 {
		b = b.Offset(offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return q.queryQuotes(ctx, query, args...)
}

// ListTopQuotes returns the most recently submitted quotes across all sections.
// Ordering is by submission timestamp, not by id.
func (q *Queries) ListTopQuotes(ctx context.Context, limit uint64) ([]models.Quote, error) {
	query, args, err := psql.Select(quoteColumns...).
		From("quotes").
		Where("completed = ?", true).
		OrderBy("timestamp DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	return q.queryQuotes(ctx, query, args...)
}

func (q *Queries) ListDrafts(ctx context.Context, ownerID int64) ([]models.Quote, error) {
	query, args, err := psql.Select(quoteColumns...).
		From("quotes").
		Where("owner_id = ?", ownerID).
		Where("completed = ?", false).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return q.queryQuotes(ctx, query, args...)
}

// DeleteAbandonedDrafts removes drafts created before the cutoff and returns how many went.
func (q *Queries) DeleteAbandonedDrafts(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM quotes WHERE completed = FALSE AND created_at < $1`
	res, err := q.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (q *Queries) queryQuotes(ctx context.Context, query string, args ...interface{}) ([]models.Quote, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if quotes == nil {
		return []models.Quote{}, nil
	}

	return quotes, nil
}

func scanQuote(row pgx.Row) (*models.Quote, error) {
	var quote models.Quote
	err := row.Scan(
		&quote.ID,
		&quote.Quote,
		&quote.Author,
		&quote.Explanation,
		&quote.Section,
		&quote.OwnerID,
		&quote.Timestamp,
		&quote.Completed,
		&quote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}
