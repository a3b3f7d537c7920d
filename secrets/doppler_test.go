package secrets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/l3uddz/iconkit/utils/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDopplerSet(t *testing.T) {
	var got dopplerUpdateRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/configs/config/secrets", r.URL.Path)
		auth = r.Header.Get("Authorization")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, jsoniter.Unmarshal(body, &got))

		_, _ = w.Write([]byte(`{"secrets": {}}`))
	}))
	defer srv.Close()

	d := NewDoppler(DopplerConfig{URL: srv.URL, Token: "dp.st.test", Project: "iconkit", Config: "prd"},
		web.NewRateLimiters())

	require.NoError(t, SetInt(context.Background(), d, "ICON_COUNT", 4321))
	assert.Equal(t, "Bearer dp.st.test", auth)
	assert.Equal(t, "iconkit", got.Project)
	assert.Equal(t, "prd", got.Config)
	assert.Equal(t, map[string]string{"ICON_COUNT": "4321"}, got.Secrets)
}

func TestDopplerSetRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	d := NewDoppler(DopplerConfig{URL: srv.URL, Token: "bad"}, web.NewRateLimiters())
	d.retry.Backoff.Min = time.Millisecond
	d.retry.Backoff.Max = time.Millisecond

	err := d.Set(context.Background(), "ICON_COUNT", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
