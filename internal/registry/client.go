// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// DefaultBaseURL is the public npm registry.
	DefaultBaseURL = "https://registry.npmjs.org"

	// abbreviatedPackument is the media type of the install-time metadata
	// document, which omits readmes and per-version manifests.
	abbreviatedPackument = "application/vnd.npm.install-v1+json"

	// maxPackumentBytes bounds the size of a decoded packument (32 MB).
	// Popular packages publish thousands of versions.
	maxPackumentBytes = 32 << 20
)

// ErrEmptyName is returned when Exists is called without a package name.
var ErrEmptyName = errors.New("package name must not be empty")

type (
	// Client queries a registry for package existence.
	Client struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	// RequestError is returned when the registry could not be reached or
	// returned a document that could not be decoded.
	RequestError struct {
		Package string
		URL     string
		Err     error
	}

	// packument is the subset of the abbreviated metadata document used for
	// range and dist-tag matching.
	packument struct {
		DistTags map[string]string          `json:"dist-tags"`
		Versions map[string]json.RawMessage `json:"versions"`
	}
)

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("registry lookup for %s (%s): %v", e.Package, e.URL, e.Err)
}

// Unwrap returns the underlying transport or decode error.
func (e *RequestError) Unwrap() error { return e.Err }

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the registry base URL. An empty value keeps the default.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		if base != "" {
			cl.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client.
// Defaults: baseURL=DefaultBaseURL, userAgent="withtypes/dev",
// httpClient=http.DefaultClient (no timeout).
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		userAgent:  "withtypes/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exists reports whether name is published at version.
//
// An empty version asks whether the package exists at all. A full semantic
// version is checked directly. Anything else is resolved against the
// packument: semver ranges against the published versions, other strings
// against the dist-tags. Every non-200 answer means absent; only transport
// and decoding failures are errors.
func (c *Client) Exists(ctx context.Context, name, version string) (bool, error) {
	if name == "" {
		return false, ErrEmptyName
	}

	pkgURL := c.baseURL + "/" + url.PathEscape(name)

	if version == "" {
		return c.head(ctx, name, pkgURL)
	}
	if _, err := semver.StrictNewVersion(version); err == nil {
		return c.head(ctx, name, pkgURL+"/"+url.PathEscape(version))
	}

	doc, found, err := c.fetchPackument(ctx, name, pkgURL)
	if err != nil || !found {
		return false, err
	}

	constraint, err := semver.NewConstraint(version)
	if err != nil {
		_, ok := doc.DistTags[version]
		return ok, nil
	}
	return doc.satisfies(constraint), nil
}

func (c *Client) head(ctx context.Context, name, reqURL string) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodHead, reqURL, "")
	if err != nil {
		return false, &RequestError{Package: name, URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // HEAD has no body to read

	slog.Debug("registry probe", "package", name, "url", reqURL, "status", resp.StatusCode)
	return resp.StatusCode == http.StatusOK, nil
}

func (c *Client) fetchPackument(ctx context.Context, name, reqURL string) (*packument, bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, reqURL, abbreviatedPackument)
	if err != nil {
		return nil, false, &RequestError{Package: name, URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	slog.Debug("registry packument", "package", name, "url", reqURL, "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return nil, false, nil
	}

	var doc packument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPackumentBytes)).Decode(&doc); err != nil {
		return nil, false, &RequestError{Package: name, URL: reqURL, Err: fmt.Errorf("decoding packument: %w", err)}
	}
	return &doc, true, nil
}

// doRequest creates and executes an HTTP request with the common headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

// satisfies reports whether any published version matches constraint.
// Unparseable version keys are skipped.
func (p *packument) satisfies(constraint *semver.Constraints) bool {
	for raw := range p.Versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if constraint.Check(v) {
			return true
		}
	}
	return false
}
