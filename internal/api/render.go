package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"serwer-cytatow/internal/auth"
	"serwer-cytatow/internal/catalog"
	"serwer-cytatow/internal/models"

	"github.com/gorilla/csrf"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// HTMLData is handed to every page template.
type HTMLData struct {
	Title       string
	Path        string
	Flash       *Flash
	FormError   string
	FormData    map[string]string
	CurrentUser *auth.AppClaims
	CSRFField   template.HTML

	Section   *catalog.Section
	Language  *catalog.Language
	Sections  []catalog.Section
	Proverbs  []catalog.Section
	Languages []catalog.Language
	Quotes    []models.Quote
	Draft     *models.Quote
	Drafts    []models.Quote
}

var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var htmlPolicy = bluemonday.UGCPolicy().RequireNoFollowOnLinks(true)

// renderMarkdown turns an explanation into sanitized HTML.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(htmlPolicy.SanitizeBytes(buf.Bytes()))
}

var functions = template.FuncMap{
	"formatDate": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	"markdown": renderMarkdown,
	"sectionTitle": func(id string) string {
		if s, ok := catalog.Lookup(id); ok {
			return s.Title()
		}
		return id
	},
}

// parseTemplates builds one template set per page, each with the base layout and all partials.
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.page.html")
	if err != nil {
		return nil, err
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		ts, err := template.New("").Funcs(functions).ParseFS(templateFS,
			"templates/base.layout.html",
			"templates/*.partial.html",
			page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		cache[path.Base(page)] = ts
	}
	return cache, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data *HTMLData) {
	if data == nil {
		data = &HTMLData{}
	}
	data.Path = r.URL.Path
	if data.CurrentUser == nil {
		data.CurrentUser = GetUserFromContext(r.Context())
	}
	if data.Flash == nil {
		data.Flash = popFlash(w, r)
	}
	data.CSRFField = csrf.TemplateField(r)
	if data.Languages == nil {
		data.Languages = catalog.Languages
	}

	ts, ok := s.templates[page]
	if !ok {
		s.serverError(w, r, fmt.Errorf("template %s does not exist", page))
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error.page.html", &HTMLData{
		Title:     "Not Found",
		FormError: "The page you are looking for does not exist.",
	})
}
