package v3api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

const (
	// DefaultBaseURL is the MBTA V3 API.
	DefaultBaseURL = "https://api-v3.mbta.com"

	DefaultTimeout   = 30 * time.Second
	DefaultPageLimit = 500
)

// Config holds configuration for the API client.
type Config struct {
	// APIKey is sent as the x-api-key header when set.
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds every request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// PageLimit is the page[limit] of every collection request.
	PageLimit int

	HTTPClient *http.Client

	Logger zerolog.Logger
}

// Client fetches alerts and schedules.
type Client struct {
	apiKey     string
	baseURL    *url.URL
	pageLimit  int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new API client. It fails only when BaseURL is not a
// valid absolute URL.
func NewClient(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", raw)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    base,
		pageLimit:  pageLimit,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// endpoint builds the first-page URL of a collection.
func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL.JoinPath(path)
	params.Set("page[limit]", strconv.Itoa(c.pageLimit))
	u.RawQuery = params.Encode()
	return u.String()
}

// fetchAll reads every page of a collection starting at first.
func fetchAll[A any](ctx context.Context, c *Client, first string) ([]resource[A], error) {
	var all []resource[A]
	next := first
	for page := 1; next != ""; page++ {
		var doc document[A]
		if err := c.getJSON(ctx, next, &doc); err != nil {
			return nil, err
		}
		all = append(all, doc.Data...)

		c.logger.Debug().
			Str("url", next).
			Int("page", page).
			Int("resources", len(doc.Data)).
			Msg("fetched page")

		next = ""
		if doc.Links.Next != nil && *doc.Links.Next != "" {
			resolved, err := c.resolve(*doc.Links.Next)
			if err != nil {
				return nil, &transit.FetchError{URL: *doc.Links.Next, Err: fmt.Errorf("invalid next link: %w", err)}
			}
			next = resolved
		}
	}
	return all, nil
}

// resolve turns a possibly relative link into an absolute URL.
func (c *Client) resolve(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return &transit.FetchError{URL: target, Err: fmt.Errorf("creating request: %w", err)}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transit.FetchError{URL: target, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &transit.FetchError{URL: target, StatusCode: resp.StatusCode, Err: transit.ErrUnexpectedStatus}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &transit.FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.api+json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}
