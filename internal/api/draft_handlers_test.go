package api

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

var draftLocation = regexp.MustCompile(`^/new/([a-z]+)\?draft_id=(\d+)$`)

func startDraft(t *testing.T, b *browser, section string) int64 {
	t.Helper()
	res := b.get("/create_draft/" + section)
	require.Equal(t, http.StatusSeeOther, res.Status)

	m := draftLocation.FindStringSubmatch(res.Location)
	require.NotNil(t, m, res.Location)
	require.Equal(t, section, m[1])

	id, err := strconv.ParseInt(m[2], 10, 64)
	require.NoError(t, err)
	return id
}

func draftOwner(t *testing.T, id int64) int64 {
	t.Helper()
	quote, err := testStore.GetQuoteByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, quote)
	return quote.OwnerID
}

func TestDraftSubmitFlow(t *testing.T) {
	b, _ := loggedInBrowser(t)

	id := startDraft(t, b, "wisdomq")

	res := b.get("/section/wisdomq")
	require.Equal(t, http.StatusOK, res.Status)
	require.NotContains(t, res.Body, "Knowledge speaks, wisdom listens")

	res = b.get("/new/wisdomq?draft_id=" + strconv.FormatInt(id, 10))
	require.Equal(t, http.StatusOK, res.Status)
	require.Contains(t, res.Body, `name="draft_id" value="`+strconv.FormatInt(id, 10)+`"`)

	res = b.get("/home")
	require.Contains(t, res.Body, "Wisdom Quotes")

	res = b.post("/submit", url.Values{
		"draft_id":    {strconv.FormatInt(id, 10)},
		"quote":       {"Knowledge speaks, wisdom listens"},
		"author":      {"Jimi Hendrix"},
		"explanation": {"Listening is **learning**."},
		"section":     {"wisdomq"},
	})
	require.Equal(t, http.StatusSeeOther, res.Status)
	require.Equal(t, "/section/wisdomq", res.Location)

	res = b.get("/section/wisdomq")
	require.Equal(t, http.StatusOK, res.Status)
	require.Contains(t, res.Body, "Quote submitted successfully!")
	require.Contains(t, res.Body, "Knowledge speaks, wisdom listens")
	require.Contains(t, res.Body, "Jimi Hendrix")
	require.Contains(t, res.Body, "<strong>learning</strong>")

	anon := newBrowser(t)
	for _, path := range []string{"/section/wisdomq", "/wisdomq", "/top"} {
		res = anon.get(path)
		require.Equal(t, http.StatusOK, res.Status, path)
		require.Contains(t, res.Body, "Knowledge speaks, wisdom listens", path)
	}

	res = b.post("/submit", url.Values{
		"draft_id":    {strconv.FormatInt(id, 10)},
		"quote":       {"Rewritten after the fact"},
		"author":      {"Jimi Hendrix"},
		"explanation": {"Should not land."},
		"section":     {"wisdomq"},
	})
	require.Equal(t, http.StatusSeeOther, res.Status)
	res = b.get("/section/wisdomq")
	require.Contains(t, res.Body, "This quote has already been published.")
	require.NotContains(t, res.Body, "Rewritten after the fact")
}

func TestSubmit_SectionMismatchKeepsDraft(t *testing.T) {
	b, _ := loggedInBrowser(t)
	id := startDraft(t, b, "loveq")
	idStr := strconv.FormatInt(id, 10)

	res := b.post("/submit", url.Values{
		"draft_id":    {idStr},
		"quote":       {"Moved elsewhere"},
		"author":      {"Someone"},
		"explanation": {"Posted to another section."},
		"section":     {"lifeq"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	require.Contains(t, res.Body, "section does not match the draft")

	quote, err := testStore.GetQuoteByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "loveq", quote.Section)
	require.False(t, quote.Completed)
}

func TestSubmit_ValidationKeepsDraft(t *testing.T) {
	b, _ := loggedInBrowser(t)
	id := startDraft(t, b, "lifeq")

	res := b.post("/submit", url.Values{
		"draft_id":    {strconv.FormatInt(id, 10)},
		"quote":       {"Half a thought"},
		"author":      {""},
		"explanation": {"missing author"},
		"section":     {"lifeq"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.Status)
	require.Contains(t, res.Body, "author must not be blank")
	require.Contains(t, res.Body, "Half a thought")

	res = b.get("/new/lifeq?draft_id=" + strconv.FormatInt(id, 10))
	require.Equal(t, http.StatusOK, res.Status, "the draft survives a failed submit")
}

func TestCancelFlow(t *testing.T) {
	b, _ := loggedInBrowser(t)
	id := startDraft(t, b, "lovefq")
	idStr := strconv.FormatInt(id, 10)

	res := b.get("/cancel/" + idStr + "/lovefq")
	require.Equal(t, http.StatusOK, res.Status)
	require.Contains(t, res.Body, `action="/cancel/`+idStr+`/lovefq"`)

	draft, err := testStore.GetDraft(context.Background(), id, draftOwner(t, id))
	require.NoError(t, err)
	require.NotNil(t, draft, "GET only asks for confirmation")

	res = b.post("/cancel/"+idStr+"/lovefq", nil)
	require.Equal(t, http.StatusSeeOther, res.Status)
	require.Equal(t, "/section/lovefq", res.Location)

	res = b.post("/submit", url.Values{
		"draft_id":    {idStr},
		"quote":       {"Too late"},
		"author":      {"Nobody"},
		"explanation": {"Cancelled first"},
		"section":     {"lovefq"},
	})
	require.Equal(t, http.StatusSeeOther, res.Status)
	require.Equal(t, "/section/lovefq", res.Location)

	res = b.get("/section/lovefq")
	require.Contains(t, res.Body, "That draft no longer exists.")
	require.NotContains(t, res.Body, "Too late")

	quote, err := testStore.GetQuoteByID(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, quote)
}

func TestDraftsArePrivate(t *testing.T) {
	owner, _ := loggedInBrowser(t)
	intruder, _ := loggedInBrowser(t)

	id := startDraft(t, owner, "sadq")
	idStr := strconv.FormatInt(id, 10)

	res := intruder.get("/new/sadq?draft_id=" + idStr)
	require.Equal(t, http.StatusSeeOther, res.Status)

	res = intruder.get("/cancel/" + idStr + "/sadq")
	require.Equal(t, http.StatusSeeOther, res.Status)

	res = intruder.post("/cancel/"+idStr+"/sadq", nil)
	require.Equal(t, http.StatusSeeOther, res.Status)

	res = owner.get("/new/sadq?draft_id=" + idStr)
	require.Equal(t, http.StatusOK, res.Status, "the owner's draft is untouched")
}

func TestPublishDirect(t *testing.T) {
	b, _ := loggedInBrowser(t)

	res := b.get("/new/successgp")
	require.Equal(t, http.StatusOK, res.Status)
	require.Contains(t, res.Body, `action="/submit/successgp"`)

	res = b.post("/submit/successgp", url.Values{
		"quote":       {"Ohne Fleiss kein Preis"},
		"author":      {"Sprichwort"},
		"explanation": {"No pain, no gain."},
	})
	require.Equal(t, http.StatusSeeOther, res.Status)
	require.Equal(t, "/section/successgp", res.Location)

	res = newBrowser(t).get("/successgp")
	require.Contains(t, res.Body, "Ohne Fleiss kein Preis")
}

func TestUnknownSectionIsNotFound(t *testing.T) {
	b, _ := loggedInBrowser(t)

	for _, path := range []string{"/section/nosuch", "/nosuch", "/create_draft/nosuch", "/new/nosuch"} {
		res := b.get(path)
		require.Equal(t, http.StatusNotFound, res.Status, path)
	}

	res := b.post("/submit/nosuch", url.Values{"quote": {"q"}, "author": {"a"}, "explanation": {"e"}})
	require.Equal(t, http.StatusNotFound, res.Status)
}
