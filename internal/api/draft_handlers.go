package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"serwer-cytatow/internal/catalog"
	"serwer-cytatow/internal/models"
	"serwer-cytatow/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func sectionURL(section string) string {
	return "/section/" + url.PathEscape(section)
}

func (s *Server) CreateDraft(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	section := chi.URLParam(r, "section")

	id, err := s.quotes.StartDraft(r.Context(), claims.UserID, section)
	if err != nil {
		if errors.Is(err, service.ErrUnknownSection) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	target := fmt.Sprintf("/new/%s?draft_id=%d", url.PathEscape(section), id)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ComposeForm shows the quote form. With a draft_id it is bound to that draft,
// without one it publishes directly into the section.
func (s *Server) ComposeForm(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	section, ok := catalog.Lookup(chi.URLParam(r, "section"))
	if !ok {
		s.notFound(w, r)
		return
	}

	data := &HTMLData{
		Title:   "New " + section.Title(),
		Section: &section,
	}

	if raw := r.URL.Query().Get("draft_id"); raw != "" {
		draftID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.notFound(w, r)
			return
		}
		draft, err := s.quotes.Draft(r.Context(), claims.UserID, draftID)
		if err != nil {
			if errors.Is(err, service.ErrDraftNotFound) {
				setFlash(w, "error", "That draft no longer exists.")
				http.Redirect(w, r, sectionURL(section.ID), http.StatusSeeOther)
				return
			}
			s.serverError(w, r, err)
			return
		}
		data.Draft = draft
	}

	s.render(w, r, http.StatusOK, "compose.page.html", data)
}

func (s *Server) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	draftID, err := strconv.ParseInt(r.FormValue("draft_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid draft id", http.StatusBadRequest)
		return
	}

	in := service.SubmitInput{
		DraftID:     draftID,
		Quote:       r.FormValue("quote"),
		Author:      r.FormValue("author"),
		Explanation: r.FormValue("explanation"),
		Section:     r.FormValue("section"),
	}

	err = s.quotes.Submit(r.Context(), claims.UserID, in)
	if err != nil {
		s.handleSubmitError(w, r, err, in)
		return
	}

	s.log.Info("quote published",
		zap.Int64("quote_id", draftID),
		zap.Int64("user_id", claims.UserID),
		zap.String("section", in.Section),
	)
	setFlash(w, "success", "Quote submitted successfully!")
	http.Redirect(w, r, sectionURL(in.Section), http.StatusSeeOther)
}

// PublishDirect handles the compose form when no draft was started.
func (s *Server) PublishDirect(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	section := chi.URLParam(r, "section")

	in := service.PublishInput{
		Quote:       r.FormValue("quote"),
		Author:      r.FormValue("author"),
		Explanation: r.FormValue("explanation"),
		Section:     section,
	}

	id, err := s.quotes.Publish(r.Context(), claims.UserID, in)
	if err != nil {
		s.handleSubmitError(w, r, err, service.SubmitInput{
			Quote:       in.Quote,
			Author:      in.Author,
			Explanation: in.Explanation,
			Section:     in.Section,
		})
		return
	}

	s.log.Info("quote published",
		zap.Int64("quote_id", id),
		zap.Int64("user_id", claims.UserID),
		zap.String("section", section),
	)
	setFlash(w, "success", "Quote submitted successfully!")
	http.Redirect(w, r, sectionURL(section), http.StatusSeeOther)
}

func (s *Server) handleSubmitError(w http.ResponseWriter, r *http.Request, err error, in service.SubmitInput) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnknownSection):
		s.notFound(w, r)
	case errors.Is(err, service.ErrAlreadyPublished):
		setFlash(w, "error", "This quote has already been published.")
		http.Redirect(w, r, sectionURL(in.Section), http.StatusSeeOther)
	case errors.Is(err, service.ErrDraftNotFound):
		setFlash(w, "error", "That draft no longer exists.")
		http.Redirect(w, r, sectionURL(in.Section), http.StatusSeeOther)
	case errors.As(err, &vErr):
		section, ok := catalog.Lookup(in.Section)
		if !ok {
			s.notFound(w, r)
			return
		}
		data := &HTMLData{
			Title:     "New " + section.Title(),
			Section:   &section,
			FormError: vErr.Error(),
			FormData: map[string]string{
				"quote":       in.Quote,
				"author":      in.Author,
				"explanation": in.Explanation,
			},
		}
		if in.DraftID != 0 {
			data.Draft = &models.Quote{ID: in.DraftID, Section: in.Section}
		}
		s.render(w, r, http.StatusUnprocessableEntity, "compose.page.html", data)
	default:
		s.serverError(w, r, err)
	}
}

// CancelConfirm asks before discarding; only the POST form deletes anything.
func (s *Server) CancelConfirm(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	section, ok := catalog.Lookup(chi.URLParam(r, "section"))
	if !ok {
		s.notFound(w, r)
		return
	}

	draftID, err := strconv.ParseInt(chi.URLParam(r, "draft_id"), 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}

	draft, err := s.quotes.Draft(r.Context(), claims.UserID, draftID)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			setFlash(w, "error", "That draft no longer exists.")
			http.Redirect(w, r, sectionURL(section.ID), http.StatusSeeOther)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "cancel.page.html", &HTMLData{
		Title:   "Discard draft",
		Section: &section,
		Draft:   draft,
	})
}

func (s *Server) CancelDraft(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	section := chi.URLParam(r, "section")

	draftID, err := strconv.ParseInt(chi.URLParam(r, "draft_id"), 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}

	target := "/home"
	if catalog.Valid(section) {
		target = sectionURL(section)
	}

	err = s.quotes.Cancel(r.Context(), claims.UserID, draftID)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			setFlash(w, "error", "That draft no longer exists.")
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		s.serverError(w, r, err)
		return
	}

	setFlash(w, "success", "Draft discarded.")
	http.Redirect(w, r, target, http.StatusSeeOther)
}
