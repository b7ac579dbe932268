package geocoding

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&Config{BaseURL: srv.URL, Timeout: 5}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearch_FirstResultWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Pune", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))

		_, _ = w.Write([]byte(`{"results":[
			{"name":"Pune","latitude":18.5204,"longitude":73.8567,"timezone":"Asia/Kolkata","admin1":"Maharashtra","country":"India"},
			{"name":"Pune","latitude":0,"longitude":0,"timezone":"UTC","admin1":"","country":"Elsewhere"}
		]}`))
	})

	place, err := client.Search(context.Background(), "Pune")
	require.NoError(t, err)

	assert.Equal(t, "Pune, Maharashtra, India", place.CanonicalName)
	assert.InDelta(t, 18.5204, place.Latitude, 1e-9)
	assert.InDelta(t, 73.8567, place.Longitude, 1e-9)
	assert.Equal(t, "Asia/Kolkata", place.TimezoneID)
}

func TestSearch_TrimsAndRejectsEmptyQuery(t *testing.T) {
	called := false
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := client.Search(context.Background(), query)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	}
	assert.False(t, called, "an empty query must not reach the network")
}

func TestSearch_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.Search(context.Background(), "Xyzzyville")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestSearch_ResultsKeyAbsent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
	})

	_, err := client.Search(context.Background(), "Xyzzyville")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestSearch_ServerFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "Pune")
	assert.ErrorIs(t, err, domain.ErrGeocodingUnavailable)
}

func TestCanonicalName_SkipsRedundantAdmin(t *testing.T) {
	name := canonicalName(searchResult{Name: "Singapore", Admin1: "Singapore", Country: "Singapore"})
	assert.Equal(t, "Singapore, Singapore", name)

	name = canonicalName(searchResult{Name: "Pune", Admin1: "Maharashtra", Country: "India"})
	assert.Equal(t, "Pune, Maharashtra, India", name)

	name = canonicalName(searchResult{Name: "Null Island"})
	assert.Equal(t, "Null Island", name)
}
