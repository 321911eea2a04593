package ninja

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/internal/httpclient"
	"github.com/Wpsi1337/exile-tracker/internal/rate"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	limiter := rate.New(rate.Config{RequestsPerSecond: 1000, Burst: 1000})
	exec := httpclient.New(zap.NewNop(), limiter, srv.Client(), 1, "ninja", ErrorHandler)
	return NewClient(zap.NewNop(), exec, srv.URL, "POESESSID=test")
}

// ─── Request Shape ──────────────────────────────────────────────────────────

func TestFetchOverview_CurrencyEndpointAndParams(t *testing.T) {
	var gotPath, gotQuery, gotCookie string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotCookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte(`{"lines":[{"currencyTypeName":"Divine Orb","chaosEquivalent":180,"detailsId":"divine-orb"}]}`))
	})

	snap, err := client.FetchOverview(context.Background(), model.GamePoE, "Standard", "Currency", model.ModeStash)
	require.NoError(t, err)

	assert.Equal(t, "/api/data/currencyoverview", gotPath)
	assert.Contains(t, gotQuery, "league=Standard")
	assert.Contains(t, gotQuery, "type=Currency")
	assert.NotContains(t, gotQuery, "source=")
	assert.Equal(t, "POESESSID=test", gotCookie)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "Divine Orb", snap.Entries[0].Name)
}

func TestFetchOverview_ItemEndpoint(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"lines":[{"name":"Mageblood","chaosValue":90000,"divineValue":500,"listingCount":12}]}`))
	})

	snap, err := client.FetchOverview(context.Background(), model.GamePoE, "Standard", "UniqueAccessory", model.ModeStash)
	require.NoError(t, err)

	assert.Equal(t, "/api/data/itemoverview", gotPath)
	assert.Equal(t, 500.0, snap.Entries[0].DivineValue)
}

func TestFetchOverview_PoE2Prefix(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"lines":[{"currencyTypeName":"Exalted Orb","chaosEquivalent":1}]}`))
	})

	_, err := client.FetchOverview(context.Background(), model.GamePoE2, "Rise of the Abyssal", "Currency", model.ModeStash)
	require.NoError(t, err)
	assert.Equal(t, "/poe2/api/data/currencyoverview", gotPath)
}

func TestFetchOverview_ExchangeSourceParam(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"lines":[{"currencyTypeName":"Divine Orb","chaosEquivalent":180}]}`))
	})

	_, err := client.FetchOverview(context.Background(), model.GamePoE, "Standard", "Currency", model.ModeExchange)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "source=exchange")
}

// ─── Failure Classification ─────────────────────────────────────────────────

func TestFetchOverview_EmptyLinesIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lines":[]}`))
	})

	_, err := client.FetchOverview(context.Background(), model.GamePoE, "Standard", "Scarab", model.ModeStash)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, Classify(err, model.ModeStash))
	assert.Contains(t, err.Error(), "No data returned")
}

func TestFetchOverview_404IsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.FetchOverview(context.Background(), model.GamePoE, "Standard", "Bogus", model.ModeStash)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, Classify(err, model.ModeStash))
}

func TestFetchOverview_ServerErrorIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchOverview(context.Background(), model.GamePoE, "Standard", "Currency", model.ModeStash)
	require.Error(t, err)
	assert.Equal(t, KindTransport, Classify(err, model.ModeStash))
}

func TestFetchOverview_ExchangeFailureIsModeUnsupported(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := client.FetchOverview(context.Background(), model.GamePoE, "Standard", "Currency", model.ModeExchange)
	require.Error(t, err)
	assert.Equal(t, KindModeUnsupported, Classify(err, model.ModeExchange))
}

func TestClassify_Markers(t *testing.T) {
	tests := []struct {
		msg  string
		want Kind
	}{
		{"No data returned for category \"Scarab\"", KindNotFound},
		{"HTTP Error 404: gone", KindNotFound},
		{"resource Not Found", KindNotFound},
		{"connection refused", KindTransport},
	}
	for _, tt := range tests {
		err := &Error{Kind: KindTransport, Message: tt.msg}
		assert.Equal(t, tt.want, Classify(err, model.ModeStash), tt.msg)
	}
}

func TestFetchOverview_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{"lines":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchOverview(ctx, model.GamePoE, "Standard", "Currency", model.ModeStash)
	assert.Error(t, err)
}
