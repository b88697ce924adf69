// Package service holds the quote lifecycle and account rules on top of the database store.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"serwer-cytatow/internal/catalog"
	"serwer-cytatow/internal/database"
	"serwer-cytatow/internal/models"
)

// TopLimit is how many quotes the top listing shows.
const TopLimit = 5

type SubmitInput struct {
	DraftID     int64
	Quote       string `validate:"notblank"`
	Author      string `validate:"notblank"`
	Explanation string `validate:"notblank"`
	Section     string `validate:"notblank"`
}

type PublishInput struct {
	Quote       string `validate:"notblank"`
	Author      string `validate:"notblank"`
	Explanation string `validate:"notblank"`
	Section     string `validate:"notblank"`
}

type Quotes struct {
	store *database.Store
	now   func() time.Time

	// OnPublish, when set, is called after a quote is committed.
	OnPublish func(section string)
}

func NewQuotes(store *database.Store) *Quotes {
	return &Quotes{store: store, now: time.Now}
}

// StartDraft creates an empty draft owned by ownerID in section and returns its id.
func (s *Quotes) StartDraft(ctx context.Context, ownerID int64, section string) (int64, error) {
	if !catalog.Valid(section) {
		return 0, ErrUnknownSection
	}

	var id int64
	err := s.store.ExecTx(ctx, func(q *database.Queries) error {
		var err error
		id, err = q.CreateDraft(ctx, ownerID, section)
		if err != nil {
			return err
		}
		return q.LogEvent(ctx, ownerID, id, database.EventDraftCreated, map[string]string{"section": section})
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Submit publishes the caller's draft. The posted section must be the one the
// draft was started in. A draft that was submitted meanwhile, by this or a
// concurrent request, yields ErrAlreadyPublished.
func (s *Quotes) Submit(ctx context.Context, ownerID int64, in SubmitInput) error {
	in = trimSubmit(in)
	if err := validateStruct(in); err != nil {
		return err
	}
	if !catalog.Valid(in.Section) {
		return ErrUnknownSection
	}

	err := s.store.ExecTx(ctx, func(q *database.Queries) error {
		return s.submit(ctx, q, ownerID, in)
	})
	if err != nil {
		return err
	}

	s.published(in.Section)
	return nil
}

// Publish creates and submits a quote in one transaction, for callers that never held a draft.
func (s *Quotes) Publish(ctx context.Context, ownerID int64, in PublishInput) (int64, error) {
	sub := trimSubmit(SubmitInput{
		Quote:       in.Quote,
		Author:      in.Author,
		Explanation: in.Explanation,
		Section:     in.Section,
	})
	if err := validateStruct(sub); err != nil {
		return 0, err
	}
	if !catalog.Valid(sub.Section) {
		return 0, ErrUnknownSection
	}

	err := s.store.ExecTx(ctx, func(q *database.Queries) error {
		id, err := q.CreateDraft(ctx, ownerID, sub.Section)
		if err != nil {
			return err
		}
		sub.DraftID = id
		return s.submit(ctx, q, ownerID, sub)
	})
	if err != nil {
		return 0, err
	}

	s.published(sub.Section)
	return sub.DraftID, nil
}

func (s *Quotes) submit(ctx context.Context, q *database.Queries, ownerID int64, in SubmitInput) error {
	draft, err := q.GetDraft(ctx, in.DraftID, ownerID)
	if err != nil {
		return err
	}
	if draft == nil {
		return missingDraft(ctx, q, ownerID, in.DraftID)
	}
	if draft.Section != in.Section {
		return &ValidationError{Field: "section", Message: "does not match the draft"}
	}

	ok, err := q.SubmitDraft(ctx, database.SubmitDraftParams{
		ID:          in.DraftID,
		OwnerID:     ownerID,
		Quote:       in.Quote,
		Author:      in.Author,
		Explanation: in.Explanation,
		Timestamp:   s.now(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return missingDraft(ctx, q, ownerID, in.DraftID)
	}
	return q.LogEvent(ctx, ownerID, in.DraftID, database.EventQuotePublished, map[string]string{
		"section": in.Section,
		"author":  in.Author,
	})
}

// missingDraft tells a quote the owner already published apart from a draft
// that never existed, was cancelled or belongs to someone else.
func missingDraft(ctx context.Context, q *database.Queries, ownerID, draftID int64) error {
	quote, err := q.GetQuoteByID(ctx, draftID)
	if err != nil {
		return err
	}
	if quote != nil && quote.OwnerID == ownerID && quote.Completed {
		return ErrAlreadyPublished
	}
	return ErrDraftNotFound
}

// Cancel deletes the caller's draft. Published quotes cannot be cancelled.
func (s *Quotes) Cancel(ctx context.Context, ownerID int64, draftID int64) error {
	return s.store.ExecTx(ctx, func(q *database.Queries) error {
		ok, err := q.DeleteDraft(ctx, draftID, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDraftNotFound
		}
		return q.LogEvent(ctx, ownerID, draftID, database.EventDraftDiscarded, nil)
	})
}

// Draft returns the caller's open draft or ErrDraftNotFound.
func (s *Quotes) Draft(ctx context.Context, ownerID int64, draftID int64) (*models.Quote, error) {
	draft, err := s.store.GetDraft(ctx, draftID, ownerID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

// Listing returns a section's published quotes, newest inserted first.
func (s *Quotes) Listing(ctx context.Context, section string) ([]models.Quote, error) {
	return s.ListingPage(ctx, section, 0, 0)
}

// ListingPage is Listing with limit/offset paging. A zero limit means no paging.
func (s *Quotes) ListingPage(ctx context.Context, section string, limit, offset uint64) ([]models.Quote, error) {
	if !catalog.Valid(section) {
		return nil, ErrUnknownSection
	}
	return s.store.ListPublished(ctx, section, limit, offset)
}

// Top returns the most recently submitted quotes across all sections.
func (s *Quotes) Top(ctx context.Context) ([]models.Quote, error) {
	return s.store.ListTopQuotes(ctx, TopLimit)
}

func (s *Quotes) Drafts(ctx context.Context, ownerID int64) ([]models.Quote, error) {
	return s.store.ListDrafts(ctx, ownerID)
}

// PurgeAbandonedDrafts deletes drafts older than maxAge.
func (s *Quotes) PurgeAbandonedDrafts(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.store.DeleteAbandonedDrafts(ctx, s.now().Add(-maxAge))
}

func (s *Quotes) published(section string) {
	if s.OnPublish != nil {
		s.OnPublish(section)
	}
}

func trimSubmit(in SubmitInput) SubmitInput {
	in.Quote = strings.TrimSpace(in.Quote)
	in.Author = strings.TrimSpace(in.Author)
	in.Explanation = strings.TrimSpace(in.Explanation)
	in.Section = strings.TrimSpace(in.Section)
	return in
}

// IsClientError reports errors caused by the request rather than the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDraftNotFound) ||
		errors.Is(err, ErrAlreadyPublished) ||
		errors.Is(err, ErrUnknownSection) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnauthenticated)
}
