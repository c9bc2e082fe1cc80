package randomorg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, DefaultQuotaLimit, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	client.httpClient = srv.Client()
	return client
}

func TestNewClientRequiresHTTPS(t *testing.T) {
	if _, err := NewClient("http://www.random.org", DefaultQuotaLimit, time.Second); !errors.Is(err, ErrInsecureURL) {
		t.Errorf("NewClient(http) error = %v, want %v", err, ErrInsecureURL)
	}
	c, err := NewClient(DefaultBaseURL+"/", 500, time.Second)
	if err != nil {
		t.Fatalf("NewClient(https) unexpected error: %v", err)
	}
	if c.QuotaLimit() != 500 {
		t.Errorf("QuotaLimit() = %d, want 500", c.QuotaLimit())
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
	}
}

func TestQuota(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quota/" {
			t.Errorf("path = %s, want /quota/", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "plain" {
			t.Errorf("format = %s, want plain", got)
		}
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("User-Agent = %q, want %q", got, UserAgent)
		}
		fmt.Fprintln(w, "999712")
	})

	quota, err := client.Quota(context.Background())
	if err != nil {
		t.Fatalf("Quota() unexpected error: %v", err)
	}
	if quota != 999712 {
		t.Errorf("Quota() = %d, want 999712", quota)
	}
}

func TestQuotaMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>maintenance</html>")
	})

	if _, err := client.Quota(context.Background()); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Quota() error = %v, want %v", err, ErrMalformedResponse)
	}
}

func TestStrings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/strings/" {
			t.Errorf("path = %s, want /strings/", r.URL.Path)
		}
		for key, want := range map[string]string{
			"num": "1", "len": "15", "digits": "on", "upperalpha": "on",
			"loweralpha": "on", "unique": "on", "format": "plain", "rnd": "new",
		} {
			if got := q.Get(key); got != want {
				t.Errorf("query %s = %q, want %q", key, got, want)
			}
		}
		fmt.Fprintln(w, "Xk9mQ2vL8pR4tZ7")
	})

	got, err := client.Strings(context.Background(), 1, 15)
	if err != nil {
		t.Fatalf("Strings() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Xk9mQ2vL8pR4tZ7" {
		t.Errorf("Strings() = %v, want [Xk9mQ2vL8pR4tZ7]", got)
	}
}

func TestStringsErrors(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		length  int
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "quota exhausted", count: 1, length: 10, status: http.StatusServiceUnavailable, body: "Error: Your daily quota is exhausted\n", wantMsg: "Your daily quota is exhausted"},
		{name: "error with 200", count: 1, length: 10, status: http.StatusOK, body: "Error: The maximum length is 20\n", wantMsg: "The maximum length is 20"},
		{name: "server failure", count: 1, length: 10, status: http.StatusInternalServerError, body: "oops", wantMsg: "Internal Server Error"},
		{name: "wrong length", count: 1, length: 10, status: http.StatusOK, body: "abc\n", wantErr: ErrMalformedResponse},
		{name: "wrong count", count: 2, length: 3, status: http.StatusOK, body: "abc\n", wantErr: ErrMalformedResponse},
		{name: "empty body", count: 1, length: 3, status: http.StatusOK, body: "", wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.Strings(context.Background(), tt.count, tt.length)
			if err == nil {
				t.Fatal("Strings() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Strings() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				var svcErr *ServiceError
				if !errors.As(err, &svcErr) {
					t.Fatalf("Strings() error = %v, want *ServiceError", err)
				}
				if svcErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", svcErr.StatusCode, tt.status)
				}
				if svcErr.Message != tt.wantMsg {
					t.Errorf("Message = %q, want %q", svcErr.Message, tt.wantMsg)
				}
			}
		})
	}
}

func TestStringsRejectsOutOfRangeRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	})

	for _, tc := range []struct{ count, length int }{{0, 10}, {1, 0}, {1, MaxStringLength + 1}, {MaxStrings + 1, 5}} {
		if _, err := client.Strings(context.Background(), tc.count, tc.length); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Strings(%d, %d) error = %v, want %v", tc.count, tc.length, err, ErrInvalidRequest)
		}
	}
}

func TestStringsTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Strings(ctx, 1, 10)
	if err == nil {
		t.Fatal("Strings() expected timeout error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) && !strings.Contains(err.Error(), "deadline") {
		t.Errorf("Strings() error = %v, want deadline exceeded", err)
	}
}
