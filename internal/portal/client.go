package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/kyosol/kyosol/internal/config"
	"github.com/kyosol/kyosol/internal/logging"
)

const (
	defaultUserAgent = "kyosol/0.1"
	requestTimeout   = 30 * time.Second
	maxAttempts      = 3
)

// Snapshotter is the portal surface the poll controller depends on.
// *Client implements it; tests substitute a fake.
type Snapshotter interface {
	HasSession() bool
	Login(ctx context.Context) error
	InvalidateSession()
	FetchRealtime(ctx context.Context) (RawSnapshot, []byte, error)
}

var _ Snapshotter = (*Client)(nil)

// Client mirrors the browser flow for the Kyocera Solar portal: cookie-based
// session, CSRF token scraped from HTML, JSON realtime endpoint. It owns the
// session exclusively; nothing else ever sees the cookies or token.
type Client struct {
	http    *http.Client
	jar     http.CookieJar
	baseURL *url.URL

	auth config.Auth
	site config.Site

	cachePath    string
	disableCache bool

	csrfToken    string
	signageReady bool
	hasSession   bool
}

// Options tweak session cache behaviour.
type Options struct {
	CachePath    string // empty uses DefaultCachePath
	DisableCache bool   // set by -force-login
}

type userAgentTransport struct {
	transport http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.transport.RoundTrip(req)
}

// New builds a Client for the configured portal site.
func New(auth config.Auth, site config.Site, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(site.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", site.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base_url %q must include scheme and host", site.BaseURL)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}

	cachePath := opts.CachePath
	if cachePath == "" {
		cachePath = DefaultCachePath()
	}

	c := &Client{
		jar:     jar,
		baseURL: base,
		auth:    auth,
		site:    site,
		http: &http.Client{
			Transport: &userAgentTransport{
				transport: http.DefaultTransport,
				userAgent: defaultUserAgent,
			},
			Jar:     jar,
			Timeout: requestTimeout,
		},
		cachePath:    cachePath,
		disableCache: opts.DisableCache,
	}
	if !opts.DisableCache {
		c.hasSession = c.loadSession()
	}
	return c, nil
}

// HasSession reports whether a previously stored session is loaded. This is a
// pass-through cache check, not a validity probe against the server.
func (c *Client) HasSession() bool { return c.hasSession }

// InvalidateSession discards the cached session entirely: cookies, CSRF token
// and the on-disk cache file.
func (c *Client) InvalidateSession() {
	jar, err := cookiejar.New(nil)
	if err == nil {
		c.jar = jar
		c.http.Jar = jar
	}
	c.csrfToken = ""
	c.signageReady = false
	c.hasSession = false
	c.removeSessionFile()
}

// Login performs the portal's authentication handshake: download the login
// page, lift the CSRF token and the sign-in form's hidden fields, then POST
// the credentials. Safe to call repeatedly.
func (c *Client) Login(ctx context.Context) error {
	logging.Ctx(ctx).InfoContext(ctx, "logging into portal", slog.String("email", c.auth.Email))

	page, err := c.do(ctx, http.MethodGet, "/login", nil, nil, map[string]string{"Accept": "text/html"})
	if err != nil {
		return c.classify(err, "login page unavailable")
	}
	if token := extractCSRFToken(page); token != "" {
		c.csrfToken = token
	}

	form, err := parseLoginForm(page)
	if err != nil {
		return &AuthError{Reason: "could not locate login form", Err: err}
	}

	payload := buildLoginPayload(form.fields, c.auth.Email, c.auth.Password)
	headers := map[string]string{
		"Referer": c.baseURL.ResolveReference(&url.URL{Path: "/login"}).String(),
	}
	if c.csrfToken != "" {
		headers["X-CSRF-Token"] = c.csrfToken
	}

	body, err := c.do(ctx, http.MethodPost, form.action, nil, payload, headers)
	if err != nil {
		return c.classify(err, "login rejected")
	}
	if strings.Contains(body, "Invalid") || strings.Contains(body, "error_explanation") {
		return &AuthError{Reason: "portal reported invalid credentials"}
	}

	if token := extractCSRFToken(body); token != "" {
		c.csrfToken = token
	}
	c.signageReady = false
	c.hasSession = true
	if err := c.persistSession(); err != nil {
		logging.Ctx(ctx).WarnContext(ctx, "failed to persist session cache", slog.Any("error", err))
	}
	logging.Ctx(ctx).DebugContext(ctx, "login succeeded")
	return nil
}

// FetchRealtime issues the realtime data request for the configured site. It
// returns the parsed snapshot along with the raw JSON payload for -json
// output. Session expiry surfaces as AuthError so the caller can decide
// whether to re-login.
func (c *Client) FetchRealtime(ctx context.Context) (RawSnapshot, []byte, error) {
	if err := c.ensureSignageReady(ctx); err != nil {
		return RawSnapshot{}, nil, err
	}

	params := url.Values{}
	params.Set("realtime", "true")
	params.Set("signage", "true")
	headers := map[string]string{
		"Referer":          c.signageURL().String(),
		"X-Requested-With": "XMLHttpRequest",
	}
	if c.csrfToken != "" {
		headers["X-CSRF-Token"] = c.csrfToken
	}

	body, err := c.do(ctx, http.MethodGet, c.sitePath("realtime"), params, nil, headers)
	if err != nil {
		return RawSnapshot{}, nil, c.classify(err, "session expired or unauthorized")
	}

	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "<") {
		return RawSnapshot{}, nil, &AuthError{Reason: "received HTML instead of JSON; probably logged out"}
	}

	var envelope struct {
		Result string          `json:"result"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return RawSnapshot{}, nil, &DataError{Err: fmt.Errorf("parse realtime payload: %w", err)}
	}
	if envelope.Result != "ok" {
		return RawSnapshot{}, nil, &DataError{Err: fmt.Errorf("unexpected API result %q", envelope.Result)}
	}

	var raw RawSnapshot
	if err := json.Unmarshal(envelope.Data, &raw); err != nil {
		return RawSnapshot{}, nil, &DataError{Err: fmt.Errorf("decode realtime data: %w", err)}
	}
	return raw, envelope.Data, nil
}

// ensureSignageReady loads the signage page once per session to pick up the
// JS-driven cookies and a fresh CSRF token.
func (c *Client) ensureSignageReady(ctx context.Context) error {
	if c.signageReady {
		return nil
	}
	logging.Ctx(ctx).DebugContext(ctx, "priming session via signage page")
	page, err := c.do(ctx, http.MethodGet, c.sitePath("signage"), nil, nil, map[string]string{"Accept": "text/html"})
	if err != nil {
		return c.classify(err, "session expired or unauthorized")
	}
	if token := extractCSRFToken(page); token != "" {
		c.csrfToken = token
	}
	c.signageReady = true
	return nil
}

func (c *Client) sitePath(leaf string) string {
	return fmt.Sprintf("/organizations/%s/sites/%s/%s", c.site.OrganizationID, c.site.SiteID, leaf)
}

func (c *Client) signageURL() *url.URL {
	return c.baseURL.ResolveReference(&url.URL{Path: c.sitePath("signage")})
}

// classify folds HTTP 401/403 into AuthError and leaves everything else as-is.
func (c *Client) classify(err error, authReason string) error {
	var he *HTTPError
	if errors.As(err, &he) && (he.Status == http.StatusUnauthorized || he.Status == http.StatusForbidden) {
		return &AuthError{Reason: authReason, Err: he}
	}
	return err
}

// do performs one portal request. Transport failures retry up to maxAttempts
// with 1s/2s/4s backoff; HTTP errors and context cancellation do not retry.
func (c *Client) do(ctx context.Context, method, path string, params, form url.Values, headers map[string]string) (string, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	if params != nil {
		reqURL.RawQuery = params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", &NetworkError{Err: ctx.Err()}
			}
			lastErr = err
			if attempt < maxAttempts-1 {
				wait := time.Second << attempt
				logging.Ctx(ctx).DebugContext(ctx, "request failed, retrying",
					slog.Int("attempt", attempt+1),
					slog.Duration("wait", wait),
					slog.Any("error", err),
				)
				if serr := sleepCtx(ctx, wait); serr != nil {
					return "", &NetworkError{Err: serr}
				}
				continue
			}
			return "", &NetworkError{Err: fmt.Errorf("after %d attempts: %w", maxAttempts, err)}
		}

		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return "", &NetworkError{Err: fmt.Errorf("read response: %w", readErr)}
		}
		if resp.StatusCode >= 400 {
			return "", &HTTPError{Status: resp.StatusCode, Body: string(data)}
		}
		return string(data), nil
	}
	return "", &NetworkError{Err: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
