// Package randomorg is a client for the random.org plain-text HTTP API.
package randomorg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL    = "https://www.random.org"
	DefaultQuotaLimit = 1000
	// UserAgent identifies this service to random.org, which asks clients to
	// send a contact-able agent string.
	UserAgent = "randpass (+https://github.com/randpass/randpass-go)"

	MaxStringLength = 20
	MaxStrings      = 10000

	maxBodySize = 1 << 20
)

var (
	ErrInsecureURL       = errors.New("random.org base url must use https")
	ErrInvalidRequest    = errors.New("random.org: invalid request")
	ErrMalformedResponse = errors.New("random.org: malformed response")
)

// ServiceError is a fault reported by random.org itself, such as an exhausted
// quota or an overloaded server.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("random.org error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client talks to random.org over HTTPS.
type Client struct {
	baseURL    string
	quotaLimit int
	httpClient *http.Client
}

// NewClient returns a client for baseURL. quotaLimit is the minimum number of
// remaining bits below which callers should not spend quota.
func NewClient(baseURL string, quotaLimit int, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "https" {
		return nil, ErrInsecureURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		quotaLimit: quotaLimit,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// QuotaLimit returns the configured minimum quota threshold.
func (c *Client) QuotaLimit() int {
	return c.quotaLimit
}

// Quota returns the remaining bit allowance for this host. It may be negative.
func (c *Client) Quota(ctx context.Context) (int, error) {
	q := url.Values{}
	q.Set("format", "plain")

	body, err := c.get(ctx, "/quota/", q)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil {
		return 0, fmt.Errorf("%w: quota %q", ErrMalformedResponse, strings.TrimSpace(body))
	}
	return n, nil
}

// Strings requests count unique random strings of length characters drawn
// from digits and upper- and lowercase letters.
func (c *Client) Strings(ctx context.Context, count, length int) ([]string, error) {
	if count < 1 || count > MaxStrings {
		return nil, fmt.Errorf("%w: count %d not in [1, %d]", ErrInvalidRequest, count, MaxStrings)
	}
	if length < 1 || length > MaxStringLength {
		return nil, fmt.Errorf("%w: length %d not in [1, %d]", ErrInvalidRequest, length, MaxStringLength)
	}

	q := url.Values{}
	q.Set("num", strconv.Itoa(count))
	q.Set("len", strconv.Itoa(length))
	q.Set("digits", "on")
	q.Set("upperalpha", "on")
	q.Set("loweralpha", "on")
	q.Set("unique", "on")
	q.Set("format", "plain")
	q.Set("rnd", "new")

	body, err := c.get(ctx, "/strings/", q)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) != length {
			return nil, fmt.Errorf("%w: got string of length %d, want %d", ErrMalformedResponse, len(line), length)
		}
		out = append(out, line)
	}
	if len(out) != count {
		return nil, fmt.Errorf("%w: got %d strings, want %d", ErrMalformedResponse, len(out), count)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	body := string(data)

	// random.org reports faults as plain text prefixed with "Error:".
	if msg, ok := strings.CutPrefix(strings.TrimSpace(body), "Error:"); ok {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(msg)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return body, nil
}
