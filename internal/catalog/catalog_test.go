package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAll_SectionCount(t *testing.T) {
	// 6 languages x 6 themes x 2 kinds, plus the unthemed default.
	require.Len(t, All(), 6*6*2+1)
	require.Len(t, IDs(), len(All()))
	require.Equal(t, DefaultSection, All()[0].ID)
}

func TestLookup(t *testing.T) {
	cases := []struct {
		id    string
		theme string
		lang  Language
		kind  Kind
	}{
		{"wisdomq", "wisdom", English, KindQuote},
		{"lovep", "love", English, KindProverb},
		{"lovefq", "love", French, KindQuote},
		{"successcp", "success", Chinese, KindProverb},
		{"sadgq", "sad", German, KindQuote},
		{"motivationsp", "motivation", Spanish, KindProverb},
		{"lifehq", "life", Hindi, KindQuote},
	}

	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			s, ok := Lookup(tc.id)
			require.True(t, ok)
			require.Equal(t, tc.theme, s.Theme)
			require.Equal(t, tc.lang.Code(), s.Language.Code())
			require.Equal(t, tc.kind, s.Kind)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	for _, id := range []string{"", "wisdom", "wisdomx", "wisdomzq", "WISDOMQ", "proverbs"} {
		_, ok := Lookup(id)
		require.False(t, ok, id)
		require.False(t, Valid(id), id)
	}
}

func TestForLanguage(t *testing.T) {
	fr := ForLanguage(French, KindQuote)
	require.Len(t, fr, len(Themes))
	for i, s := range fr {
		require.Equal(t, Themes[i], s.Theme)
		require.Equal(t, "f", s.Language.Suffix)
		require.Equal(t, KindQuote, s.Kind)
	}

	en := ForLanguage(English, KindProverb)
	require.Len(t, en, len(Themes))
	require.Equal(t, "lovep", en[0].ID)
}

func TestLanguageSlugs(t *testing.T) {
	seen := map[string]bool{}
	codes := map[string]string{}
	for _, l := range Languages {
		for _, slug := range []string{l.Slug, l.AboutSlug} {
			require.False(t, seen[slug], "duplicate slug %q", slug)
			seen[slug] = true
			codes[slug] = l.Code()
		}
	}

	require.Equal(t, "hi", codes["hindi"])
	require.Equal(t, "de", codes["gabout"])
	require.NotContains(t, codes, "klingon")
}

func TestSectionTitle(t *testing.T) {
	s, _ := Lookup("wisdomq")
	require.Equal(t, "Wisdom Quotes", s.Title())

	s, _ = Lookup("lovefp")
	require.Equal(t, "Love Proverbs (français)", s.Title())

	s, _ = Lookup(DefaultSection)
	require.Equal(t, "Quotes", s.Title())
}

func TestLanguageNames(t *testing.T) {
	require.Equal(t, "French", French.EnglishName())
	require.Equal(t, "español", Spanish.NativeName())
}
