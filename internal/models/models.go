package models

import (
	"encoding/json"
	"time"
)

// Author is the public projection of the logged-in user stored on posts.
type Author struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Post struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary,omitempty"`
	Image       string    `json:"image,omitempty"`
	Published   bool      `json:"published"`
	Tags        []string  `json:"tags,omitempty"`
	User        *Author   `json:"user,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
	ContentHTML string    `json:"contentHtml,omitempty"`
}

// PostPatch carries the fields a caller changes. Nil fields are left
// untouched.
type PostPatch struct {
	Title     *string
	Content   *string
	Summary   *string
	Image     *string
	Published *bool
	Tags      []string
}

// Apply copies the provided fields onto post.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Summary != nil {
		post.Summary = *p.Summary
	}
	if p.Image != nil {
		post.Image = *p.Image
	}
	if p.Published != nil {
		post.Published = *p.Published
	}
	if p.Tags != nil {
		post.Tags = p.Tags
	}
}

// Fields returns only the provided fields keyed by their JSON names.
func (p PostPatch) Fields() map[string]any {
	fields := map[string]any{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if p.Summary != nil {
		fields["summary"] = *p.Summary
	}
	if p.Image != nil {
		fields["image"] = *p.Image
	}
	if p.Published != nil {
		fields["published"] = *p.Published
	}
	if p.Tags != nil {
		fields["tags"] = p.Tags
	}
	return fields
}

// UnmarshalJSON also accepts the older "imageUrl" field.
func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	aux := struct {
		*alias
		ImageURL string `json:"imageUrl"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if p.Image == "" {
		p.Image = aux.ImageURL
	}

	return nil
}

type Subscriber struct {
	ID        ID        `json:"id"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

type SiteContact struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the single record that decides whether the admin is logged in.
type Session struct {
	User      Author    `json:"user"`
	Token     string    `json:"token"`
	IssuedAt  Timestamp `json:"issued_at"`
	ExpiresAt Timestamp `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt.Time)
}

type PageView struct {
	ID         ID        `json:"id"`
	PathName   string    `json:"pathName"`
	TimeStamp  Timestamp `json:"timeStamp"`
	User       *string   `json:"user"`
	Referrer   string    `json:"referrer,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	Browser    string    `json:"browser,omitempty"`
	OS         string    `json:"os,omitempty"`
	DeviceType string    `json:"deviceType,omitempty"`
}

type Activity struct {
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	At          Timestamp `json:"at"`
	Ago         string    `json:"ago"`
}

type Dashboard struct {
	TotalPosts        int        `json:"totalPosts"`
	PublishedPosts    int        `json:"publishedPosts"`
	DraftPosts        int        `json:"draftPosts"`
	Subscribers       int        `json:"subscribers"`
	SiteContacts      int        `json:"siteContacts"`
	ContactsThisMonth int        `json:"contactsThisMonth"`
	PageViews30d      int        `json:"pageViews30d"`
	RecentActivity    []Activity `json:"recentActivity"`
}

type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
	ImageURL    string `json:"imageUrl"`
}
