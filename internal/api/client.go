// Package api is the HTTP client for the InsightHub platform: the
// listing, post, auth, and asset-resolution endpoints, with a
// cookie-based session persisted between runs.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/insighthub/cli/internal/feed"
)

type Client struct {
	baseURL     string
	httpc       *http.Client
	jar         *cookiejar.Jar
	sessionPath string
}

// NewClient builds a client for the given API base URL. When
// sessionPath is non-empty, saved session cookies are restored from it.
func NewClient(baseURL, sessionPath string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpc:       &http.Client{Jar: jar},
		jar:         jar,
		sessionPath: sessionPath,
	}
	if sessionPath != "" {
		// A missing or stale session file just means not logged in.
		c.restoreSession()
	}
	return c, nil
}

// ListParams addresses one page of the listing endpoint.
type ListParams struct {
	Category string
	Search   string
	Author   string
	Page     int
	Limit    int
}

// ListPosts fetches one page of the feed. An empty result slice means
// the query is exhausted. No retries happen here.
func (c *Client) ListPosts(ctx context.Context, p ListParams) ([]feed.Post, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Author != "" {
		q.Set("author", p.Author)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	var env struct {
		Data []wirePost `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/blog/get", q, nil, &env); err != nil {
		return nil, err
	}

	posts := make([]feed.Post, 0, len(env.Data))
	for _, w := range env.Data {
		posts = append(posts, w.toPost())
	}
	return posts, nil
}

// FetchPage adapts ListPosts to the feed engine's Fetcher contract.
func (c *Client) FetchPage(ctx context.Context, q feed.Query) ([]feed.Post, error) {
	return c.ListPosts(ctx, ListParams{
		Category: q.Category,
		Search:   q.Search,
		Author:   q.Author,
		Page:     q.Page,
		Limit:    q.PageSize,
	})
}

func (c *Client) GetPost(ctx context.Context, id string) (feed.Post, error) {
	var env struct {
		Data wirePost `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/blog/get/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return feed.Post{}, err
	}
	return env.Data.toPost(), nil
}

func (c *Client) CreatePost(ctx context.Context, draft PostDraft) (feed.Post, error) {
	var env struct {
		Data wirePost `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/blog/create", nil, draft, &env); err != nil {
		return feed.Post{}, err
	}
	return env.Data.toPost(), nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, draft PostDraft) error {
	return c.do(ctx, http.MethodPut, "/api/blog/update/"+url.PathEscape(id), nil, draft, nil)
}

// DeletePost removes a post. On success the caller is responsible for
// striking the post from any live feed via Controller.NotifyDeleted.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/blog/delete/"+url.PathEscape(id), nil, nil, nil)
}

// SignAssetURL resolves an opaque storage key to a time-limited URL.
// Implements assets.Signer.
func (c *Client) SignAssetURL(ctx context.Context, key string) (string, error) {
	q := url.Values{}
	q.Set("key", key)
	var env struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/asset/url", q, nil, &env); err != nil {
		return "", err
	}
	return env.Data.URL, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}
	var env struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &env); err != nil {
		return User{}, err
	}
	if c.sessionPath != "" {
		if err := c.saveSession(); err != nil {
			return env.User, fmt.Errorf("saving session: %w", err)
		}
	}
	return env.User, nil
}

func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/signup", nil, body, nil)
}

// Me returns the current viewer. A 401 means no valid session.
func (c *Client) Me(ctx context.Context) (User, error) {
	var env struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &env); err != nil {
		return User{}, err
	}
	return env.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	if c.sessionPath != "" {
		c.clearSession()
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
