// Package catalog is the static table of sections quotes can be filed under.
//
// A section identifier is theme + language suffix + kind suffix, so "wisdomq"
// is English wisdom quotes and "lovefp" is French love proverbs. The unthemed
// "quotes" section collects submissions that do not belong to a theme.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type Kind struct {
	Suffix string
	Name   string
}

var (
	KindQuote   = Kind{Suffix: "q", Name: "Quotes"}
	KindProverb = Kind{Suffix: "p", Name: "Proverbs"}
)

type Language struct {
	Tag    language.Tag
	Suffix string
	// Slug is the landing page path for the language, e.g. "french".
	Slug string
	// AboutSlug is the about page path, e.g. "fabout".
	AboutSlug string
}

// Code returns the BCP 47 code, e.g. "fr".
func (l Language) Code() string {
	return l.Tag.String()
}

// NativeName is the language's name in itself, e.g. "français".
func (l Language) NativeName() string {
	return display.Self.Name(l.Tag)
}

// EnglishName is the language's name in English, e.g. "French".
func (l Language) EnglishName() string {
	return display.English.Languages().Name(l.Tag)
}

var (
	English = Language{Tag: language.English, Suffix: "", Slug: "quotes", AboutSlug: "about"}
	French  = Language{Tag: language.French, Suffix: "f", Slug: "french", AboutSlug: "fabout"}
	Chinese = Language{Tag: language.Chinese, Suffix: "c", Slug: "chinese", AboutSlug: "cabout"}
	German  = Language{Tag: language.German, Suffix: "g", Slug: "german", AboutSlug: "gabout"}
	Spanish = Language{Tag: language.Spanish, Suffix: "s", Slug: "spanish", AboutSlug: "sabout"}
	Hindi   = Language{Tag: language.Hindi, Suffix: "h", Slug: "hindi", AboutSlug: "habout"}
)

var Languages = []Language{English, French, Chinese, German, Spanish, Hindi}

var Themes = []string{"love", "life", "wisdom", "sad", "motivation", "success"}

// DefaultSection is the unthemed English quotes section.
const DefaultSection = "quotes"

type Section struct {
	ID       string
	Theme    string
	Language Language
	Kind     Kind
}

// Title is a human readable heading, e.g. "Wisdom Quotes (français)".
func (s Section) Title() string {
	if s.Theme == "" {
		return s.Kind.Name
	}
	title := strings.ToUpper(s.Theme[:1]) + s.Theme[1:] + " " + s.Kind.Name
	if s.Language.Suffix != "" {
		title += " (" + s.Language.NativeName() + ")"
	}
	return title
}

var (
	sections []Section
	byID     map[string]Section
)

func init() {
	byID = make(map[string]Section)
	add := func(s Section) {
		sections = append(sections, s)
		byID[s.ID] = s
	}

	add(Section{ID: DefaultSection, Language: English, Kind: KindQuote})
	for _, lang := range Languages {
		for _, kind := range []Kind{KindQuote, KindProverb} {
			for _, theme := range Themes {
				add(Section{
					ID:       theme + lang.Suffix + kind.Suffix,
					Theme:    theme,
					Language: lang,
					Kind:     kind,
				})
			}
		}
	}
}

// Lookup reports the section registered under id.
func Lookup(id string) (Section, bool) {
	s, ok := byID[id]
	return s, ok
}

// Valid reports whether id names a section.
func Valid(id string) bool {
	_, ok := byID[id]
	return ok
}

// All returns every section, the default section first.
func All() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// IDs returns all section identifiers sorted alphabetically.
func IDs() []string {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ForLanguage returns the themed sections of one language and kind in theme order.
func ForLanguage(lang Language, kind Kind) []Section {
	var out []Section
	for _, s := range sections {
		if s.Theme != "" && s.Language.Suffix == lang.Suffix && s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
