package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carabin/models"
)

const pmcFixture = `{
	"resultList": {
		"result": [
			{
				"id": "PMC9876543",
				"title": "A <i>Randomized</i> Trial of Something",
				"abstractText": "<h4>Background</h4>Aspirin works. <h4>Conclusion</h4>It still works.",
				"authorString": "Dupont et al.",
				"pubYear": "2024",
				"journalInfo": {"journal": {"title": "The Lancet"}}
			}
		]
	}
}`

func newTestArticleService(handler http.HandlerFunc) (*ArticleService, *httptest.Server) {
	srv := httptest.NewServer(handler)
	svc := &ArticleService{
		client:  &http.Client{Timeout: 2 * time.Second},
		baseURL: srv.URL,
	}
	return svc, srv
}

func TestFetchByIDNormalizesNumericIDs(t *testing.T) {
	var gotQuery string
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(pmcFixture))
	})
	defer srv.Close()

	article := svc.FetchByID("9876543")

	assert.Contains(t, gotQuery, "ext_id:PMC9876543")
	assert.Contains(t, gotQuery, "src:med")
	assert.Equal(t, "PMC9876543", article.ID)
}

func TestFetchStripsMarkupFromFreeText(t *testing.T) {
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pmcFixture))
	})
	defer srv.Close()

	article := svc.FetchByID("PMC9876543")

	assert.Equal(t, "A Randomized Trial of Something", article.Title)
	assert.Equal(t, "BackgroundAspirin works. ConclusionIt still works.", article.AbstractText)
	assert.Equal(t, "Dupont et al.", article.AuthorString)
	assert.Equal(t, "The Lancet", article.JournalTitle)
}

func TestFetchRandomResolvesSentinelSpecialty(t *testing.T) {
	var gotQuery string
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(pmcFixture))
	})
	defer srv.Close()

	article := svc.FetchRandom(models.SpecialtyRandom)

	require.NotNil(t, article)
	assert.NotContains(t, gotQuery, "(random ")
	assert.Contains(t, gotQuery, "HAS_ABSTRACT:y")
	assert.Contains(t, gotQuery, "OPEN_ACCESS:y")
	assert.Contains(t, gotQuery, `"randomized controlled trial"`)
}

func TestFetchRandomUsesRequestedSpecialtyTerms(t *testing.T) {
	var gotQuery string
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(pmcFixture))
	})
	defer srv.Close()

	svc.FetchRandom("Infectious_Diseases")

	assert.Contains(t, gotQuery, "Infectious Diseases")
}

func TestEmptyResultListFallsBackToOfflineRecord(t *testing.T) {
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultList": {"result": []}}`))
	})
	defer srv.Close()

	article := svc.FetchByID("PMC0")

	assert.True(t, strings.HasPrefix(article.Title, "[OFFLINE_MODE] "))
	assert.Equal(t, models.BackupArticle.ID, article.ID)
	assert.Equal(t, models.BackupArticle.AbstractText, article.AbstractText)
}

func TestUnreachableServiceFallsBackToOfflineRecord(t *testing.T) {
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // connection refused from here on

	article := svc.FetchRandom("Cardiology")

	assert.True(t, strings.HasPrefix(article.Title, "[OFFLINE_MODE] "))
}

func TestGarbageResponseFallsBackToOfflineRecord(t *testing.T) {
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	})
	defer srv.Close()

	article := svc.FetchByID("PMC1")

	assert.True(t, strings.HasPrefix(article.Title, "[OFFLINE_MODE] "))
}

func TestOfflineFallbackDoesNotMutateBackup(t *testing.T) {
	svc, srv := newTestArticleService(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	svc.FetchByID("PMC1")
	svc.FetchByID("PMC1")

	assert.False(t, strings.HasPrefix(models.BackupArticle.Title, "[OFFLINE_MODE]"))
}
