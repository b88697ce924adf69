package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"serwer-cytatow/internal/catalog"
	"serwer-cytatow/internal/service"

	"github.com/go-chi/chi/v5"

	_ "serwer-cytatow/internal/models"
)

// MaxPageSize bounds the limit parameter of paged listings.
const MaxPageSize = 100

type SectionResponse struct {
	ID       string `json:"id" example:"wisdomq"`
	Title    string `json:"title" example:"Wisdom Quotes"`
	Theme    string `json:"theme,omitempty" example:"wisdom"`
	Language string `json:"language" example:"en"`
	Kind     string `json:"kind" example:"quote"`
}

func newSectionResponse(s catalog.Section) SectionResponse {
	kind := "quote"
	if s.Kind == catalog.KindProverb {
		kind = "proverb"
	}
	return SectionResponse{
		ID:       s.ID,
		Title:    s.Title(),
		Theme:    s.Theme,
		Language: s.Language.Code(),
		Kind:     kind,
	}
}

// @Summary      List sections
// @Description  Returns every section quotes can be published into.
// @Tags         quotes
// @Produce      json
// @Success      200  {array}   SectionResponse
// @Router       /sections [get]
func (s *Server) ListSectionsHandler(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()
	resp := make([]SectionResponse, 0, len(all))
	for _, section := range all {
		resp = append(resp, newSectionResponse(section))
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary      List published quotes of a section
// @Description  Returns the published quotes of one section, most recently created first.
// @Tags         quotes
// @Produce      json
// @Param        section  path      string  true   "Section identifier, e.g. wisdomq"
// @Param        limit    query     int     false  "Page size, at most 100. Omit for the whole section."
// @Param        offset   query     int     false  "Number of quotes to skip. Works with or without limit."
// @Success      200      {array}   models.Quote
// @Failure      400      {string}  string "Invalid paging parameters"
// @Failure      404      {string}  string "Unknown section"
// @Failure      500      {string}  string "Internal Server Error"
// @Router       /sections/{section}/quotes [get]
func (s *Server) ListSectionQuotesHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseUintParam(r, "limit")
	if err != nil || limit > MaxPageSize {
		http.Error(w, "Invalid 'limit' parameter", http.StatusBadRequest)
		return
	}
	offset, err := parseUintParam(r, "offset")
	if err != nil || offset > math.MaxInt64 {
		http.Error(w, "Invalid 'offset' parameter", http.StatusBadRequest)
		return
	}

	quotes, err := s.quotes.ListingPage(r.Context(), chi.URLParam(r, "section"), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrUnknownSection) {
			http.Error(w, "Unknown section", http.StatusNotFound)
			return
		}
		s.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quotes)
}

// @Summary      Latest quotes
// @Description  Returns the five most recently submitted quotes across all sections.
// @Tags         quotes
// @Produce      json
// @Success      200  {array}   models.Quote
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /top [get]
func (s *Server) TopQuotesHandler(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.quotes.Top(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

// @Summary      List my drafts
// @Description  Returns the open drafts of the authenticated user.
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Quote
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /drafts [get]
func (s *Server) ListDraftsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	drafts, err := s.quotes.Drafts(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

func parseUintParam(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

