package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* Test Get Response Timeout */

func TestGetResponseTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	// send request
	resp, err := GetResponse(GET, srv.URL, 1)
	if err == nil {
		DrainAndClose(resp.Response().Body)
	}
	require.Error(t, err)
	assert.True(t, os.IsTimeout(err), "expected timeout, got: %v", err)
}

/* Test Get Response Retry */

func TestGetResponseRetriesStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	retry := Retry{
		MaxAttempts:          5,
		RetryableStatusCodes: []int{http.StatusGatewayTimeout},
		Backoff:              backoff.Backoff{Min: time.Millisecond, Max: 5 * time.Millisecond},
	}

	resp, err := GetResponse(GET, srv.URL, 5, &retry)
	require.NoError(t, err)
	defer DrainAndClose(resp.Response().Body)

	assert.Equal(t, http.StatusOK, resp.Response().StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGetResponseGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	retry := Retry{
		MaxAttempts:          2,
		RetryableStatusCodes: []int{http.StatusGatewayTimeout},
		Backoff:              backoff.Backoff{Min: time.Millisecond, Max: time.Millisecond},
	}

	resp, err := GetResponse(GET, srv.URL, 5, &retry)
	require.NoError(t, err)
	defer DrainAndClose(resp.Response().Body)

	assert.Equal(t, http.StatusGatewayTimeout, resp.Response().StatusCode)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRateLimitersShareByName(t *testing.T) {
	r := NewRateLimiters()
	a := r.Get("Doppler", 5)
	b := r.Get("doppler", 10)
	assert.Same(t, a, b)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://api.doppler.com/v3/configs/config/secrets",
		JoinURL("https://api.doppler.com/", "/v3/configs", "config/secrets"))
}
