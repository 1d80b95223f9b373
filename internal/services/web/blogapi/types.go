package blogapi

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// User is an account as returned by the blog API.
type User struct {
	ID       string
	Username string
	Name     string
}

type userWire struct {
	ID       string `json:"id"`
	MongoID  string `json:"_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// UnmarshalJSON accepts either "_id" or "id" as the user identifier.
func (u *User) UnmarshalJSON(data []byte) error {
	var wire userWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	u.ID = firstNonEmpty(wire.MongoID, wire.ID)
	u.Username = wire.Username
	u.Name = wire.Name
	return nil
}

// Author references the owner of a post. The API sends either a populated
// user object or a bare user id.
type Author struct {
	ID   string
	User *User
}

// DisplayName returns the author's display name, if the API populated it.
func (a Author) DisplayName() string {
	if a.User == nil {
		return ""
	}
	return strings.TrimSpace(a.User.Name)
}

// UnmarshalJSON decodes an author object or id string.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = Author{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*a = Author{ID: id}
		return nil
	default:
		var user User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}
		*a = Author{ID: user.ID, User: &user}
		return nil
	}
}

// Post is a blog entry as returned by the blog API.
type Post struct {
	ID        string
	Title     string
	Body      string
	ImageURL  string
	Author    Author
	CreatedAt time.Time
}

type postWire struct {
	ID        string    `json:"id"`
	MongoID   string    `json:"_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"imageUrl"`
	User      Author    `json:"user"`
	CreatedAt timestamp `json:"createdAt"`
}

// timestamp decodes an RFC 3339 string. Missing, null or malformed values
// decode to the zero time instead of failing the whole response.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	*t = timestamp{}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	*t = timestamp(parsed)
	return nil
}

// UnmarshalJSON accepts either "_id" or "id" as the post identifier.
func (p *Post) UnmarshalJSON(data []byte) error {
	var wire postWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = Post{
		ID:        firstNonEmpty(wire.MongoID, wire.ID),
		Title:     wire.Title,
		Body:      wire.Body,
		ImageURL:  wire.ImageURL,
		Author:    wire.User,
		CreatedAt: time.Time(wire.CreatedAt),
	}
	return nil
}

// RegisterInput creates a new account.
type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginInput exchanges credentials for a bearer token.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PostInput is the writable part of a post. An empty ImageURL clears the image.
type PostInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl"`
}

// Upload is one image file sent to the upload endpoint.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type tokenResponse struct {
	Token string `json:"token"`
}

type uploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
