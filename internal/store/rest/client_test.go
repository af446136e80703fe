package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/navigator/internal/store"
)

// fakeAPI is a tiny PostgREST stand-in that only understands eq filters on id.
type fakeAPI struct {
	mu      sync.Mutex
	rows    map[string][]store.Row
	lastReq *http.Request
	nextID  int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{rows: map[string][]store.Row{}}
	r := chi.NewRouter()
	r.Route("/rest/v1/{table}", func(r chi.Router) {
		r.Get("/", api.list)
		r.Post("/", api.insert)
		r.Patch("/", api.patch)
		r.Delete("/", api.remove)
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return api, server
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	f.lastReq = r.Clone(context.Background())
	f.mu.Unlock()
}

func (f *fakeAPI) last() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

func (f *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.rows[chi.URLParam(r, "table")])
}

func (f *fakeAPI) insert(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	var row store.Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad json", "code": "PGRST102"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := row["id"]; !ok {
		f.nextID++
		row["id"] = "row-" + string(rune('0'+f.nextID))
	}
	table := chi.URLParam(r, "table")
	f.rows[table] = append(f.rows[table], row)
	writeJSON(w, http.StatusCreated, []store.Row{row})
}

func (f *fakeAPI) patch(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	var patch store.Row
	_ = json.NewDecoder(r.Body).Decode(&patch)
	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.Row{}
	for _, row := range f.rows[chi.URLParam(r, "table")] {
		if row.ID() == id {
			for k, v := range patch {
				row[k] = v
			}
			out = append(out, row)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
	table := chi.URLParam(r, "table")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.Row{}
	kept := f.rows[table][:0]
	for _, row := range f.rows[table] {
		if row.ID() == id {
			out = append(out, row)
			continue
		}
		kept = append(kept, row)
	}
	f.rows[table] = kept
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, defaultAPIURL, u.Host)

	u, err = parseBaseURL("https://proj.supabase.co/some/path?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co", u.String())

	_, err = parseBaseURL("http://")
	require.Error(t, err)
}

func TestSelectEncodesQuery(t *testing.T) {
	api, server := newFakeAPI(t)
	c, err := NewClient(server.URL, "anon-key")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	_, err = c.Select(ctx, "user_goals", store.Query{
		Owner:   "u1",
		Filters: []store.Filter{{Column: "is_active", Value: true}},
		Order:   store.Order{Column: "created_at", Descending: true},
		Limit:   3,
	})
	require.NoError(t, err)

	got := api.last()
	require.NotNil(t, got)
	assert.Equal(t, "/rest/v1/user_goals", got.URL.Path)
	want := url.Values{
		"select":    {"*"},
		"user_id":   {"eq.u1"},
		"is_active": {"eq.true"},
		"order":     {"created_at.desc"},
		"limit":     {"3"},
	}
	assert.Equal(t, want, got.URL.Query())
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.Header.Get("Authorization"))
	assert.True(t, strings.HasPrefix(got.Header.Get("User-Agent"), "navigator/"))
}

func TestTokenOverridesBearer(t *testing.T) {
	api, server := newFakeAPI(t)
	c, err := NewClient(server.URL, "anon-key", WithToken(func(context.Context) (string, error) {
		return "user-jwt", nil
	}))
	require.NoError(t, err)

	_, err = c.Select(context.Background(), "courses", store.Query{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-jwt", api.last().Header.Get("Authorization"))
	assert.Equal(t, "anon-key", api.last().Header.Get("apikey"))
}

func TestInsertUpdateDelete(t *testing.T) {
	api, server := newFakeAPI(t)
	c, err := NewClient(server.URL, "k")
	require.NoError(t, err)
	ctx := context.Background()

	row, err := c.Insert(ctx, "user_skills", store.Row{"skill_name": "Go", "proficiency_level": 3})
	require.NoError(t, err)
	require.NotEmpty(t, row.ID())
	assert.Equal(t, "return=representation", api.last().Header.Get("Prefer"))

	require.NoError(t, c.Update(ctx, "user_skills", row.ID(), store.Row{"proficiency_level": 4}))
	assert.Equal(t, http.MethodPatch, api.last().Method)
	assert.Equal(t, "eq."+row.ID(), api.last().URL.Query().Get("id"))

	rows, err := c.Select(ctx, "user_skills", store.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 4, rows[0]["proficiency_level"])

	require.NoError(t, c.Delete(ctx, "user_skills", row.ID()))
	err = c.Delete(ctx, "user_skills", row.ID())
	require.ErrorIs(t, err, store.ErrNotFound)

	err = c.Update(ctx, "user_skills", "missing", store.Row{"proficiency_level": 1})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHTTPErrorsBecomeStoreErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "JWT expired", "code": "PGRST301"})
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "k")
	require.NoError(t, err)

	_, err = c.Select(context.Background(), "mentors", store.Query{})
	var se *store.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "select", se.Op)
	assert.Contains(t, err.Error(), "JWT expired")

	_, err = c.Insert(context.Background(), "mentors", store.Row{"x": 1})
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "decode response")
}

func TestTransportFailureIsStoreError(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", "k")
	require.NoError(t, err)
	_, err = c.Select(context.Background(), "courses", store.Query{})
	var se *store.StoreError
	require.ErrorAs(t, err, &se)
	assert.Zero(t, se.Status)
}
