package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithRateLimit(0))
}

func TestSubmitRequest(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/submit-request", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		require.NoError(t, err)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"request_id":"r-1"}`))
	})

	id := request.ScenarioBulkTesting
	f := request.Resolve(id).Apply(request.NewFormFields())
	f.Requester = "Jan"

	body, err := c.SubmitRequest(context.Background(), request.BuildPayload(f, &id))
	require.NoError(t, err)
	require.JSONEq(t, `{"request_id":"r-1"}`, string(body))

	require.Equal(t, "bulk-testing", got["scenario"])
	require.Equal(t, "Jan", got["requester"])
	require.Equal(t, map[string]any{"create": true, "name": "Bulk Testing"}, got["subaccount"])
}

func TestSubmitRequest_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"canvas unavailable"}`))
	})

	_, err := c.SubmitRequest(context.Background(), request.BuildPayload(request.NewFormFields(), nil))
	require.Error(t, err)

	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.StatusCode)
	require.Equal(t, "canvas unavailable", se.Body)
	require.Contains(t, err.Error(), "500")
}

func TestServerError_PlainBodyTruncated(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	se := newServerError("op", 502, long)
	require.Len(t, se.Body, maxSnippet+3)

	se = newServerError("op", 404, nil)
	require.Equal(t, "op: server returned 404", se.Error())
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(addr, WithRateLimit(0))
	_, err := c.Health(context.Background())

	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	require.Equal(t, "health", ne.Op)
	require.NotNil(t, errors.Unwrap(err))
}

func TestListRequests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/requests", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"1","requester":"Jan","environment":"test","scenario":"bulk-testing","scenario_name":"Bulk Testing",
			 "start_date":"2024-03-01","end_date":"2024-06-15","cleaned":false,
			 "created_resources":{"subaccounts":[{"id":1}],"courses":[1,2],"users":[]}},
			{"id":"2","scenario":"app-integration","cleaned":true,
			 "created_resources":{"subaccounts":0,"courses":3,"users":null}}
		]`))
	})

	recs, err := c.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.Equal(t, "Bulk Testing", recs[0].DisplayName())
	require.Equal(t, CreatedResources{Subaccounts: 1, Courses: 2, Users: 0}, recs[0].CreatedResources)

	require.Equal(t, "app-integration", recs[1].DisplayName())
	require.True(t, recs[1].Cleaned)
	require.Equal(t, Count(3), recs[1].CreatedResources.Courses)
}

func TestCleanupRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/requests/abc 1/cleanup", r.URL.Path)
		_, _ = w.Write([]byte(`{"deleted_courses":[11,12],"deleted_users":4}`))
	})

	res, err := c.CleanupRequest(context.Background(), "abc 1")
	require.NoError(t, err)
	require.Equal(t, Count(2), res.DeletedCourses)
	require.Equal(t, Count(4), res.DeletedUsers)
}

func TestEnvironmentStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/environments/test/status":
			_, _ = w.Write([]byte(`{"environment":"test","subaccounts":2,"courses":5,"lastActivity":"2024-03-01T10:00:00Z","status":"in-use"}`))
		case "/api/environments/development/status":
			_, _ = w.Write([]byte(`{"subaccounts":0,"courses":0,"lastActivity":null,"status":"clean"}`))
		default:
			http.NotFound(w, r)
		}
	})

	st, err := c.EnvironmentStatus(context.Background(), "test")
	require.NoError(t, err)
	require.Equal(t, 2, st.Subaccounts)
	require.Equal(t, StatusInUse, st.Status)
	require.NotNil(t, st.LastActivity)
	require.True(t, st.LastActivity.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	st, err = c.EnvironmentStatus(context.Background(), "development")
	require.NoError(t, err)
	require.Equal(t, "development", st.Environment)
	require.Nil(t, st.LastActivity)

	_, err = c.EnvironmentStatus(context.Background(), "missing")
	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestEnvironments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"test":"https://test.example.org","acceptatie":"https://acc.example.org"}`))
	})

	envs, err := c.Environments(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://test.example.org", envs["test"])
	require.Len(t, envs, 2)
}

func TestSetup(t *testing.T) {
	var got SetupRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/setup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"subaccounts":[{"id":7,"name":"Faculty"}],"courses":[],"errors":["Failed to create course: boom"]}`))
	})

	res, err := c.Setup(context.Background(), SetupRequest{
		Environment: "test",
		Subaccounts: []SetupSubaccount{{Name: "Faculty", ParentAccountID: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, "test", got.Environment)
	require.NotNil(t, got.Courses)
	require.Len(t, res.Subaccounts, 1)
	require.Equal(t, json.Number("7"), res.Subaccounts[0].ID)
	require.Equal(t, []string{"Failed to create course: boom"}, res.Errors)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "healthy", status)
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	WithRateLimit(0.001)(c)

	_, err := c.Health(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Health(ctx)
	require.Error(t, err)
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.ListRequests(context.Background())
	require.ErrorContains(t, err, "decoding response")
}
