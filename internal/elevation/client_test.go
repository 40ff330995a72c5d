package elevation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService answers with elevation = latitude * 10.
func fakeService(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)

		var req lookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.LessOrEqual(t, len(req.Locations), MaxBatch)

		resp := lookupResponse{}
		for _, l := range req.Locations {
			resp.Results = append(resp.Results, Result{Latitude: l.Latitude, Longitude: l.Longitude, Elevation: l.Latitude * 10})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestLookupBatches(t *testing.T) {
	var requests atomic.Int32
	srv := fakeService(t, &requests)
	defer srv.Close()

	locations := make([]Location, 1203)
	for i := range locations {
		locations[i] = Location{Latitude: float64(i) / 100, Longitude: 7}
	}

	got, err := NewClient(srv.URL, 5*time.Second).Lookup(context.Background(), locations)
	require.NoError(t, err)

	assert.Equal(t, int32(3), requests.Load())
	require.Len(t, got, len(locations))
	for i, e := range got {
		assert.InDelta(t, float64(i)/10, e, 1e-9)
	}
}

func TestLookupEmpty(t *testing.T) {
	var requests atomic.Int32
	srv := fakeService(t, &requests)
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second).Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, requests.Load())
}

func TestLookupFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
		{
			name: "short answer",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"results":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Lookup(context.Background(), []Location{{Latitude: 1, Longitude: 2}})
			assert.ErrorIs(t, err, ErrService)
		})
	}
}

func TestLookupUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Lookup(context.Background(), []Location{{Latitude: 1, Longitude: 2}})
	assert.ErrorIs(t, err, ErrService)
}
