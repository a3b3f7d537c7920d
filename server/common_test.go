package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) (*Server, *database.DB) {
	t.Helper()

	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	hero, err := db.GetOrCreateProvider(ctx, database.Provider{Name: "Hero Icons", GitURL: "https://github.com/tailwindlabs/heroicons.git"})
	require.NoError(t, err)
	_, err = db.GetOrCreateProvider(ctx, database.Provider{Name: "Feather Icons", GitURL: "https://github.com/feathericons/feather.git"})
	require.NoError(t, err)

	icons := []database.Icon{
		{Name: "home", Tags: database.Tags{"solid"}},
		{Name: "bell", Tags: database.Tags{"outline"}},
		{Name: "camera", Tags: database.Tags{"solid"}},
		{Name: "star-icon", Tags: database.Tags{"mini"}},
	}
	for i := range icons {
		icons[i].ProviderID = hero.ID
		icons[i].Version = "v2.1.1"
		icons[i].SVG = "<svg></svg>"
		icons[i].JSX = "<svg></svg>"
	}
	require.NoError(t, db.InsertIcons(ctx, icons))

	_, err = db.UpsertLicense(ctx, database.License{ProviderID: hero.ID, Type: "MIT", URL: "https://github.com/tailwindlabs/heroicons/blob/master/LICENSE"})
	require.NoError(t, err)

	svc, err := search.NewService(db, search.Options{})
	require.NoError(t, err)

	return New(db, svc, opts), db
}

func executeTestRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotEmpty(t, h.Get("X-Request-ID"), "No Request Id")
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}
