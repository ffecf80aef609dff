package pure360

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

type capturedRequest struct {
	Path        string
	ContentType string
	UserAgent   string
	Form        url.Values
}

// captureServer records every request it receives and answers with body.
type captureServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
}

func newCaptureServer(t *testing.T, status int, body string) *captureServer {
	t.Helper()
	cs := &captureServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}
		cs.mu.Lock()
		cs.requests = append(cs.requests, capturedRequest{
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			UserAgent:   r.Header.Get("User-Agent"),
			Form:        r.PostForm,
		})
		cs.mu.Unlock()

		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *captureServer) Requests() []capturedRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]capturedRequest(nil), cs.requests...)
}

func TestNewClients(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ClientOption
		wantErr bool
	}{
		{
			name:    "Valid configuration",
			wantErr: false,
		},
		{
			name:    "Missing Base URL",
			opts:    []ClientOption{WithBaseURL("")},
			wantErr: true,
		},
		{
			name:    "Nil HTTP client",
			opts:    []ClientOption{WithHTTPClient(nil)},
			wantErr: true,
		},
		{
			name:    "Nil clock",
			opts:    []ClientOption{WithClock(nil)},
			wantErr: true,
		},
		{
			name:    "Delimiter equals quote",
			opts:    []ClientOption{WithCSVDialect('"', '"')},
			wantErr: true,
		},
		{
			name:    "Custom dialect",
			opts:    []ClientOption{WithCSVDialect(';', '\'')},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err1 := NewListUploadClient(tt.opts...)
			_, err2 := NewListClient(tt.opts...)
			_, err3 := NewOneToOneClient(tt.opts...)
			for _, err := range []error{err1, err2, err3} {
				if (err != nil) != tt.wantErr {
					t.Errorf("constructor error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestWithBaseURLTrimsSlash(t *testing.T) {
	c, err := newClient(WithBaseURL("http://example.test/interface/"))
	if err != nil {
		t.Fatalf("newClient() failed: %v", err)
	}
	if c.baseURL != "http://example.test/interface" {
		t.Errorf("Expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestClient_PostFormSendsHeaders(t *testing.T) {
	ts := newCaptureServer(t, http.StatusOK, "OK")

	c, _ := newClient(WithBaseURL(ts.URL))
	resp, err := c.postForm(context.Background(), listPath, url.Values{"a": {"b"}})
	if err != nil {
		t.Fatalf("postForm() failed: %v", err)
	}
	if resp != "OK" {
		t.Errorf("Expected body OK, got %q", resp)
	}

	reqs := ts.Requests()
	if len(reqs) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(reqs))
	}
	if reqs[0].ContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Unexpected content type %s", reqs[0].ContentType)
	}
	if !strings.HasPrefix(reqs[0].UserAgent, "email-provider-pure360/") {
		t.Errorf("Unexpected user agent %s", reqs[0].UserAgent)
	}
	if reqs[0].Form.Get("a") != "b" {
		t.Errorf("Expected form field a=b, got %v", reqs[0].Form)
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusBadRequest, IsBadRequest},
		{http.StatusUnauthorized, IsUnauthorized},
		{http.StatusNotFound, IsNotFound},
	}

	for _, tt := range tests {
		ts := newCaptureServer(t, tt.status, "nope")
		c, _ := newClient(WithBaseURL(ts.URL))
		_, err := c.postForm(context.Background(), listPath, url.Values{})
		if err == nil || !tt.check(err) {
			t.Errorf("Expected status %d error, got: %v", tt.status, err)
		}
	}

	apiErr := &Error{StatusCode: 418, Body: "I'm a teapot"}
	if apiErr.Error() != "api request failed with status 418: I'm a teapot" {
		t.Errorf("Unexpected error string: %s", apiErr.Error())
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("Plain error must not be classified as not found")
	}
}

func TestClient_NetworkErrors(t *testing.T) {
	c, _ := newClient(WithBaseURL("http://[::1]:namedport"))
	if _, err := c.postForm(context.Background(), listPath, url.Values{}); err == nil {
		t.Error("Expected error for invalid URL")
	}

	c2, _ := newClient(WithBaseURL("http://127.0.0.1:0"))
	if _, err := c2.postForm(context.Background(), listPath, url.Values{}); err == nil {
		t.Error("Expected error for connection refusal")
	}
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (f *fakeMetrics) ObserveRequest(endpoint, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outcomes == nil {
		f.outcomes = map[string]int{}
	}
	f.outcomes[endpoint+" "+outcome]++
}

func TestClient_Metrics(t *testing.T) {
	ok := newCaptureServer(t, http.StatusOK, "OK")
	bad := newCaptureServer(t, http.StatusInternalServerError, "boom")
	m := &fakeMetrics{}

	c, _ := newClient(WithBaseURL(ok.URL), WithMetrics(m))
	if _, err := c.postForm(context.Background(), listPath, url.Values{}); err != nil {
		t.Fatalf("postForm() failed: %v", err)
	}
	c2, _ := newClient(WithBaseURL(bad.URL), WithMetrics(m))
	if _, err := c2.postForm(context.Background(), listPath, url.Values{}); err == nil {
		t.Fatal("Expected error from 500 response")
	}

	if m.outcomes["/list.php success"] != 1 || m.outcomes["/list.php error"] != 1 {
		t.Errorf("Unexpected metric observations: %v", m.outcomes)
	}
}
