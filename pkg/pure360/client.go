package pure360

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"go.miloapis.com/email-provider-pure360/pkg/version"
)

const (
	defaultBaseURL = "http://response.pure360.com/interface"

	listUploadMetaPath = "/list_upload_meta.php"
	listUploadDataPath = "/list_upload_data.php"
	listPath           = "/list.php"
	oneToOnePath       = "/common/one2OneCreate.php"
)

// MetricsRecorder receives one observation per outbound request.
type MetricsRecorder interface {
	ObserveRequest(endpoint, outcome string, duration time.Duration)
}

// client is the transport shared by the list upload, list and one-to-one
// clients. It holds no per-call state.
type client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
	delimiter  rune
	quote      rune
	metrics    MetricsRecorder
	userAgent  string
}

// ClientOption defines a functional option for configuring a client.
type ClientOption func(*client)

// WithBaseURL sets a custom base URL for the client.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithClock overrides the clock used to default the delivery time of
// one-to-one messages.
func WithClock(now func() time.Time) ClientOption {
	return func(c *client) {
		c.now = now
	}
}

// WithCSVDialect sets the field delimiter and quote character used to
// read the header line of list upload files.
func WithCSVDialect(delimiter, quote rune) ClientOption {
	return func(c *client) {
		c.delimiter = delimiter
		c.quote = quote
	}
}

// WithMetrics registers a recorder for outbound requests.
func WithMetrics(m MetricsRecorder) ClientOption {
	return func(c *client) {
		c.metrics = m
	}
}

func newClient(opts ...ClientOption) (*client, error) {
	c := &client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
		delimiter:  ',',
		quote:      '"',
		userAgent:  version.UserAgent(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if c.httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if c.now == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if c.delimiter == c.quote {
		return nil, fmt.Errorf("csv delimiter and quote character must differ")
	}

	return c, nil
}

// Attachment is a file part of a multipart upload.
type Attachment struct {
	FieldName   string
	FileName    string
	ContentType string
	Header      map[string]string
	Content     io.Reader
}

// postForm sends values as application/x-www-form-urlencoded and returns
// the response body as text.
func (c *client) postForm(ctx context.Context, path string, values url.Values) (string, error) {
	body := strings.NewReader(values.Encode())
	return c.do(ctx, path, body, "application/x-www-form-urlencoded")
}

// postMultipart sends values and a single attachment as multipart/form-data.
func (c *client) postMultipart(ctx context.Context, path string, values url.Values, att Attachment) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, vals := range values {
		for _, v := range vals {
			if err := mw.WriteField(key, v); err != nil {
				return "", fmt.Errorf("failed to write form field %q: %w", key, err)
			}
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(att.FieldName), escapeQuotes(att.FileName)))
	h.Set("Content-Type", att.ContentType)
	for k, v := range att.Header {
		h.Set(k, v)
	}

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, att.Content); err != nil {
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return c.do(ctx, path, &buf, mw.FormDataContentType())
}

func (c *client) do(ctx context.Context, path string, body io.Reader, contentType string) (resp string, err error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("endpoint", path)

	start := time.Now()
	defer func() {
		if c.metrics == nil {
			return
		}
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.ObserveRequest(path, outcome, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	log.V(1).Info("Sending request")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode >= 400 {
		return "", &Error{
			StatusCode: res.StatusCode,
			Body:       string(data),
		}
	}

	log.V(1).Info("Received response", "status", res.StatusCode, "bytes", len(data))
	return string(data), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
