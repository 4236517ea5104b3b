package portfolio

import (
	"context"
	"log/slog"

	"github.com/caiobertoldo/living-portfolio/internal/github"
	"github.com/caiobertoldo/living-portfolio/internal/observability"
)

const (
	reposPerPage  = 100
	eventsPerPage = 100
)

// Fetcher is the subset of the GitHub client a Source needs
type Fetcher interface {
	GetUser(ctx context.Context, login string) (*github.User, error)
	GetUserRepos(ctx context.Context, login string, perPage int) ([]github.Repository, error)
	GetUserEvents(ctx context.Context, login string, perPage int) ([]github.Event, error)
}

// Source fetches data for a single fixed account. Failures never escape:
// each is logged and turned into an absent or empty result the caller
// must handle.
type Source struct {
	client  Fetcher
	account string
}

// NewSource creates a Source bound to account
func NewSource(client Fetcher, account string) *Source {
	return &Source{
		client:  client,
		account: account,
	}
}

// Account returns the account identifier this source reports on
func (s *Source) Account() string {
	return s.account
}

// Profile returns the account's profile, or false if it could not be fetched.
func (s *Source) Profile(ctx context.Context) (*github.User, bool) {
	user, err := s.client.GetUser(ctx, s.account)
	if err != nil {
		s.fail("profile", err)
		return nil, false
	}
	s.ok("profile")
	return user, true
}

// Repositories returns up to 100 repositories, most recently updated first.
// It returns an empty slice on failure.
func (s *Source) Repositories(ctx context.Context) []github.Repository {
	repos, err := s.client.GetUserRepos(ctx, s.account, reposPerPage)
	if err != nil {
		s.fail("repos", err)
		return []github.Repository{}
	}
	s.ok("repos")
	if repos == nil {
		repos = []github.Repository{}
	}
	return repos
}

// RecentEvents returns the account's recent public events, or false if
// they could not be fetched.
func (s *Source) RecentEvents(ctx context.Context) ([]github.Event, bool) {
	events, err := s.client.GetUserEvents(ctx, s.account, eventsPerPage)
	if err != nil {
		s.fail("events", err)
		return nil, false
	}
	s.ok("events")
	return events, true
}

func (s *Source) ok(resource string) {
	observability.UpstreamFetchTotal.WithLabelValues(resource, "ok").Inc()
}

func (s *Source) fail(resource string, err error) {
	observability.UpstreamFetchTotal.WithLabelValues(resource, "error").Inc()
	slog.Warn("GitHub fetch failed", "resource", resource, "account", s.account, "error", err)
}
