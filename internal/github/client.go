package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint
	DefaultBaseURL = "https://api.github.com"

	userAgent = "living-portfolio"
)

// Client wraps the GitHub REST API. Every call is a single attempt;
// callers decide what a failure means for them.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new GitHub API client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		token:   opts.Token,
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// doRequest makes a request to the GitHub API, authenticated if a token is configured
func (c *Client) doRequest(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	// Anonymous callers hit the rate limit quickly; surface it distinctly
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining == "0" {
			resetTime := resp.Header.Get("X-RateLimit-Reset")
			resp.Body.Close()
			return nil, fmt.Errorf("rate limit exceeded, resets at: %s", resetTime)
		}
	}

	return resp, nil
}

// getJSON performs a GET and decodes a 200 response into target.
func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return readErrorAndClose(resp)
	}

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readErrorAndClose reads an error body and closes it.
func readErrorAndClose(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("github API error %d: %s", resp.StatusCode, string(body))
}

// GetUser fetches a public user profile
func (c *Client) GetUser(ctx context.Context, login string) (*User, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(login))

	var user User
	if err := c.getJSON(ctx, endpoint, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserRepos fetches up to perPage public repositories, most recently updated first.
// Only the first page is requested.
func (c *Client) GetUserRepos(ctx context.Context, login string, perPage int) ([]Repository, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d",
		c.baseURL, url.PathEscape(login), perPage)

	var repos []Repository
	if err := c.getJSON(ctx, endpoint, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetUserEvents fetches the user's recent public events (first page only).
func (c *Client) GetUserEvents(ctx context.Context, login string, perPage int) ([]Event, error) {
	endpoint := fmt.Sprintf("%s/users/%s/events?per_page=%d",
		c.baseURL, url.PathEscape(login), perPage)

	var events []Event
	if err := c.getJSON(ctx, endpoint, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// RateLimit holds GitHub rate limit info
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// GetRateLimit fetches current rate limit status. The endpoint does not
// count against the quota.
func (c *Client) GetRateLimit(ctx context.Context) (*RateLimit, error) {
	var result struct {
		Rate struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"rate"`
	}

	if err := c.getJSON(ctx, c.baseURL+"/rate_limit", &result); err != nil {
		return nil, err
	}

	return &RateLimit{
		Limit:     result.Rate.Limit,
		Remaining: result.Rate.Remaining,
		Reset:     time.Unix(result.Rate.Reset, 0),
	}, nil
}

// Health reports whether the API is reachable and the quota is not exhausted
func (c *Client) Health(ctx context.Context) error {
	rl, err := c.GetRateLimit(ctx)
	if err != nil {
		return fmt.Errorf("github unreachable: %w", err)
	}
	if rl.Remaining == 0 {
		return fmt.Errorf("github rate limit exhausted until %s", rl.Reset.UTC().Format(time.RFC3339))
	}
	return nil
}
