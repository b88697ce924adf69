package api

import (
	"errors"
	"net/http"

	"serwer-cytatow/internal/catalog"
	"serwer-cytatow/internal/service"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	drafts, err := s.quotes.Drafts(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "home.page.html", &HTMLData{
		Title:  "Home",
		Drafts: drafts,
	})
}

// SectionListing serves both /section/{section} and the short /{section} form.
func (s *Server) SectionListing(w http.ResponseWriter, r *http.Request) {
	section, ok := catalog.Lookup(chi.URLParam(r, "section"))
	if !ok {
		s.notFound(w, r)
		return
	}

	quotes, err := s.quotes.Listing(r.Context(), section.ID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownSection) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "section.page.html", &HTMLData{
		Title:   section.Title(),
		Section: &section,
		Quotes:  quotes,
	})
}

func (s *Server) Top(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.quotes.Top(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "top.page.html", &HTMLData{
		Title:  "Latest Quotes",
		Quotes: quotes,
	})
}

// Landing lists the themed sections of one language. English quotes and
// proverbs have separate landing pages; other languages show both kinds.
func (s *Server) Landing(lang catalog.Language, kinds ...catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := &HTMLData{
			Title:    lang.NativeName(),
			Language: &lang,
		}
		for _, kind := range kinds {
			switch kind {
			case catalog.KindQuote:
				data.Sections = catalog.ForLanguage(lang, kind)
			case catalog.KindProverb:
				data.Proverbs = catalog.ForLanguage(lang, kind)
			}
		}
		s.render(w, r, http.StatusOK, "landing.page.html", data)
	}
}

func (s *Server) About(lang catalog.Language) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "about.page.html", &HTMLData{
			Title:    "About",
			Language: &lang,
		})
	}
}
