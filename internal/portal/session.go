package portal

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// sessionMaxAge bounds how long cached cookies are trusted before a fresh
// login is forced. The portal expires sessions server-side around this mark.
const sessionMaxAge = 30 * time.Minute

type sessionFile struct {
	Timestamp int64          `json:"timestamp"`
	CSRFToken string         `json:"csrf_token"`
	Cookies   []cachedCookie `json:"cookies"`
}

type cachedCookie struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Path    string `json:"path,omitempty"`
	Secure  bool   `json:"secure,omitempty"`
	Expires int64  `json:"expires,omitempty"`
}

// loadSession restores cached cookies into the jar if the cache file exists
// and is younger than sessionMaxAge. Returns true when a session was loaded.
func (c *Client) loadSession() bool {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return false
	}
	var payload sessionFile
	if err := json.Unmarshal(data, &payload); err != nil {
		// An unreadable cache is the same as no cache.
		return false
	}
	if time.Since(time.Unix(payload.Timestamp, 0)) > sessionMaxAge {
		return false
	}
	if len(payload.Cookies) == 0 {
		return false
	}

	cookies := make([]*http.Cookie, 0, len(payload.Cookies))
	for _, cc := range payload.Cookies {
		if cc.Name == "" {
			continue
		}
		cookie := &http.Cookie{
			Name:   cc.Name,
			Value:  cc.Value,
			Path:   cc.Path,
			Secure: cc.Secure,
		}
		if cc.Expires > 0 {
			cookie.Expires = time.Unix(cc.Expires, 0)
		}
		cookies = append(cookies, cookie)
	}
	c.jar.SetCookies(c.baseURL, cookies)
	c.csrfToken = payload.CSRFToken
	return true
}

// persistSession writes the jar's cookies for the portal origin to the cache
// file so the next invocation can skip the login handshake.
func (c *Client) persistSession() error {
	if c.disableCache {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o700); err != nil {
		return err
	}

	live := c.jar.Cookies(c.baseURL)
	cookies := make([]cachedCookie, 0, len(live))
	for _, cookie := range live {
		cc := cachedCookie{
			Name:   cookie.Name,
			Value:  cookie.Value,
			Path:   cookie.Path,
			Secure: cookie.Secure,
		}
		if !cookie.Expires.IsZero() {
			cc.Expires = cookie.Expires.Unix()
		}
		cookies = append(cookies, cc)
	}

	payload := sessionFile{
		Timestamp: time.Now().Unix(),
		CSRFToken: c.csrfToken,
		Cookies:   cookies,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(c.cachePath, data, 0o600)
}

// removeSessionFile deletes the cache file, ignoring a file that was never
// written.
func (c *Client) removeSessionFile() {
	_ = os.Remove(c.cachePath)
}

// DefaultCachePath returns the session cache location under the user cache
// dir, falling back to a temp path when no home is available.
func DefaultCachePath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "kyosol", "session.json")
}
