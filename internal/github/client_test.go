package github

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

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{Token: token, BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func TestGetUser(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Write([]byte(`{"login":"octocat","name":"The Octocat","bio":null,"public_repos":8,"followers":20,"location":"SF","html_url":"https://github.com/octocat"}`))
	})

	user, err := client.GetUser(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "The Octocat", user.Name)
	assert.Empty(t, user.Bio)
	assert.Equal(t, 8, user.PublicRepos)
	assert.Equal(t, 20, user.Followers)
}

func TestGetUser_NotFound(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	user, err := client.GetUser(context.Background(), "ghost")
	assert.Nil(t, user)
	assert.ErrorContains(t, err, "github API error 404")
}

func TestGetUser_RateLimited(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.GetUser(context.Background(), "octocat")
	assert.ErrorContains(t, err, "rate limit exceeded")
}

func TestGetUserRepos(t *testing.T) {
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Write([]byte(`[
			{"name":"a","description":null,"language":"Go","stargazers_count":3,"fork":false,"updated_at":"2026-10-01T10:00:00Z","html_url":"https://github.com/octocat/a"},
			{"name":"b","description":"fork","language":null,"stargazers_count":0,"fork":true,"updated_at":"2026-09-01T10:00:00Z","html_url":"https://github.com/octocat/b"}
		]`))
	})

	repos, err := client.GetUserRepos(context.Background(), "octocat", 100)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "Go", repos[0].Language)
	assert.Empty(t, repos[0].Description)
	assert.True(t, repos[1].Fork)
	assert.Empty(t, repos[1].Language)
}

func TestGetUserRepos_MalformedBody(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"not a list"}`))
	})

	_, err := client.GetUserRepos(context.Background(), "octocat", 100)
	assert.ErrorContains(t, err, "failed to decode response")
}

func TestGetUserEvents(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/events", r.URL.Path)
		w.Write([]byte(`[
			{"id":"1","type":"PushEvent","created_at":"2026-10-14T08:00:00Z","payload":{"size":2,"commits":[{"sha":"a"},{"sha":"b"}]}},
			{"id":"2","type":"WatchEvent","created_at":"2026-10-14T09:00:00Z","payload":{"action":"started"}}
		]`))
	})

	events, err := client.GetUserEvents(context.Background(), "octocat", 100)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].CommitCount())
	assert.Equal(t, 0, events[1].CommitCount())
	assert.Equal(t, 14, events[0].CreatedAt.Day())
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := client.GetUser(context.Background(), "slow")
	assert.ErrorContains(t, err, "request failed")
}

func TestHealth(t *testing.T) {
	var remaining atomic.Int32
	remaining.Store(42)
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate_limit", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"rate": map[string]any{"limit": 60, "remaining": remaining.Load(), "reset": 1700000000},
		})
	})

	assert.NoError(t, client.Health(context.Background()))

	remaining.Store(0)
	assert.ErrorContains(t, client.Health(context.Background()), "exhausted")
}

func TestEvent_CommitCount(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  int
	}{
		{
			name:  "commit list wins over size",
			event: Event{Type: EventPush, Payload: json.RawMessage(`{"size":5,"commits":[{"sha":"a"}]}`)},
			want:  1,
		},
		{
			name:  "size when commits omitted",
			event: Event{Type: EventPush, Payload: json.RawMessage(`{"size":3}`)},
			want:  3,
		},
		{
			name:  "non-push event",
			event: Event{Type: "CreateEvent", Payload: json.RawMessage(`{"size":3}`)},
			want:  0,
		},
		{
			name:  "broken payload",
			event: Event{Type: EventPush, Payload: json.RawMessage(`"oops"`)},
			want:  0,
		},
		{
			name:  "empty payload",
			event: Event{Type: EventPush},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.CommitCount())
		})
	}
}
