package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/insighthub/cli/internal/feed"
)

// User is the signed-in account, as returned by the auth endpoints.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostDraft is the author-editable part of a post.
type PostDraft struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
	Image    string `json:"image,omitempty"`
}

// APIError is a non-2xx response from the platform.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the platform.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == 401
}

// Wire shapes. The backend wraps payloads in envelopes: posts under
// "data", accounts under "user", errors under "message".

type wireAuthor struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

type wirePost struct {
	ID        string     `json:"_id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Content   string     `json:"content"`
	Image     string     `json:"image"`
	UserID    string     `json:"userId"`
	Author    wireAuthor `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (w wirePost) toPost() feed.Post {
	authorID := w.Author.ID
	if authorID == "" {
		authorID = w.UserID
	}
	return feed.Post{
		ID:        w.ID,
		Title:     w.Title,
		Category:  w.Category,
		Content:   w.Content,
		AssetRef:  w.Image,
		CreatedAt: w.CreatedAt,
		Author: feed.Author{
			ID:     authorID,
			Name:   w.Author.Name,
			Avatar: w.Author.Avatar,
			Role:   w.Author.Role,
		},
	}
}
