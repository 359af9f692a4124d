package devcenter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasttemplate"
)

// Endpoint templates. The {url} tag is replaced by the
// configured base URL.
const (
	AuthEndpoint   = "{url}/api/authentication/api/json"
	BranchEndpoint = "{url}/api/branch"
	CommitEndpoint = "{url}/api/commit"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "devcenter-register"
)

// Config holds the settings of a Dev Center client.
type Config struct {
	// BaseURL is the Dev Center root (e.g.
	// "https://dev-center.example.com"). An empty
	// value is accepted and yields malformed request
	// URLs that fail at call time.
	BaseURL string
	// Timeout bounds each HTTP call. Zero means the
	// 30s default.
	Timeout time.Duration
	// UserAgent is sent on every request.
	UserAgent string
	// HTTPClient overrides the underlying client.
	// Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client issues JSON requests to the Dev Center. It
// holds no credential: authenticated calls receive
// one explicitly.
type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
}

// NewClient returns a Client for cfg.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}

		hc = &http.Client{Timeout: timeout}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	headers := make(http.Header)
	headers.Set("User-Agent", ua)
	headers.Set("Accept", "application/json")

	return &Client{
		baseURL: cfg.BaseURL,
		http:    hc,
		headers: headers,
	}
}

// BaseURL returns the configured Dev Center root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL renders an endpoint template against the base
// URL.
func (c *Client) URL(endpoint string) string {
	return fasttemplate.ExecuteStringStd(
		endpoint, "{", "}",
		map[string]any{"url": c.baseURL},
	)
}

// RegisterBranch registers b and returns the branch
// stored by the Dev Center.
func (c *Client) RegisterBranch(
	ctx context.Context,
	cred Credential,
	b BranchCreate,
) (Branch, error) {
	res, err := PostJSON[Branch](
		ctx, c, BranchEndpoint, cred.Header(nil), b,
	)
	if err != nil {
		return Branch{}, err
	}

	return ParseResult("register branch", res)
}

// RegisterCommit registers cm. The returned commit
// body must be present but is otherwise discarded.
func (c *Client) RegisterCommit(
	ctx context.Context,
	cred Credential,
	cm CommitCreate,
) error {
	res, err := PostJSON[Commit](
		ctx, c, CommitEndpoint, cred.Header(nil), cm,
	)
	if err != nil {
		return err
	}

	_, err = ParseResult("register commit", res)

	return err
}

// PostJSON marshals body, POSTs it to the rendered
// endpoint and decodes the response into a Result.
// Client default headers are sent first; headers
// override them key by key.
//
// A response with no body, a JSON null body, or a body
// that does not decode into T yields a nil Result.Body;
// the decode error is only logged. Transport and
// encoding failures are returned as errors.
func PostJSON[T any](
	ctx context.Context,
	c *Client,
	endpoint string,
	headers http.Header,
	body any,
) (Result[T], error) {
	const errCtx = "posting to dev center"

	target := c.URL(endpoint)

	payload, err := json.Marshal(body)
	if err != nil {
		return Result[T]{}, fmt.Errorf(
			"%s: marshal request: %w", errCtx, err,
		)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		target,
		bytes.NewReader(payload),
	)
	if err != nil {
		return Result[T]{}, fmt.Errorf(
			"%s: build request: %w", errCtx, err,
		)
	}

	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}

	for k, vs := range headers {
		req.Header[k] = append([]string(nil), vs...)
	}

	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("dev center request", "url", target)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result[T]{}, fmt.Errorf(
			"%s: send request: %w", errCtx, err,
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result[T]{}, fmt.Errorf(
			"%s: read response: %w", errCtx, err,
		)
	}

	res := Result[T]{StatusCode: resp.StatusCode}
	failed := resp.StatusCode < http.StatusOK ||
		resp.StatusCode >= http.StatusBadRequest

	if failed {
		slog.Warn(
			"dev center response",
			"url", target,
			"status", resp.Status,
			"body", string(rb),
		)
	}

	if len(bytes.TrimSpace(rb)) == 0 {
		return res, nil
	}

	var out *T
	if err := json.Unmarshal(rb, &out); err != nil {
		// An unreadable body counts as no body.
		slog.Warn(
			"cannot decode dev center response",
			"url", target,
			"status", resp.Status,
			"error", err,
			"body", string(rb),
		)

		return res, nil
	}

	res.Body = out

	return res, nil
}
