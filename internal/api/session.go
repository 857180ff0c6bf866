package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// The session cookie the server sets at login is persisted to disk so
// the CLI stays signed in between runs. Only name/value pairs are
// kept; the server decides whether a restored session is still valid.

type sessionCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func (c *Client) apiURL() *url.URL {
	u, _ := url.Parse(c.baseURL)
	return u
}

func (c *Client) restoreSession() {
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}
	var saved []sessionCookie
	if err := json.Unmarshal(data, &saved); err != nil {
		return
	}

	now := time.Now()
	var cookies []*http.Cookie
	for _, s := range saved {
		if !s.Expires.IsZero() && s.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Expires: s.Expires})
	}
	if len(cookies) > 0 {
		c.jar.SetCookies(c.apiURL(), cookies)
	}
}

func (c *Client) saveSession() error {
	cookies := c.jar.Cookies(c.apiURL())
	saved := make([]sessionCookie, 0, len(cookies))
	for _, ck := range cookies {
		saved = append(saved, sessionCookie{Name: ck.Name, Value: ck.Value, Expires: ck.Expires})
	}

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0o600)
}

func (c *Client) clearSession() {
	os.Remove(c.sessionPath)
}
