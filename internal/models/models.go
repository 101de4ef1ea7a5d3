// package models defines the data model for the sangeet music client
package models

import (
	"errors"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	Key() string     // Key returns the unique identifier for this model
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

var (
	_ Model = (*Track)(nil)
	_ Model = (*User)(nil)
	_ Model = (*Favorite)(nil)
	_ Model = (*Playlist)(nil)
)

// Track is a single uploaded music item.
//
// Created once when an upload completes and immutable afterwards.
type Track struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration"` // Duration in seconds
	AudioURL    string    `json:"audio_url"`
	ImageURL    string    `json:"image_url,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (t *Track) Key() string { return t.ID }

// Validate requires an identifier, title, artist, uploader and a non-empty audio URL.
func (t *Track) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("track id is required"))
	}
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, errors.New("track title is required"))
	}
	if strings.TrimSpace(t.Artist) == "" {
		errs = append(errs, errors.New("track artist is required"))
	}
	if t.AudioURL == "" {
		errs = append(errs, errors.New("track audio url is required"))
	}
	if t.UploadedBy == "" {
		errs = append(errs, errors.New("track uploader is required"))
	}
	if t.Duration < 0 {
		errs = append(errs, errors.New("track duration cannot be negative"))
	}
	return errors.Join(errs...)
}

// HasCover reports whether the track carries a cover image.
func (t *Track) HasCover() bool { return t.ImageURL != "" }

// User is a user profile. The identifier is issued by the identity provider.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Key() string { return u.ID }

func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("user name is required")
	}
	return nil
}

// Favorite relates a user to a track. Its existence means "favorited".
type Favorite struct {
	UserID    string    `json:"user_id"`
	TrackID   string    `json:"track_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) Key() string { return f.UserID + ":" + f.TrackID }

func (f *Favorite) Validate() error {
	if f.UserID == "" || f.TrackID == "" {
		return errors.New("favorite requires both user id and track id")
	}
	return nil
}

// Playlist is a user-owned, ordered list of track identifiers.
type Playlist struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TrackIDs    []string  `json:"track_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Playlist) Key() string { return p.ID }

func (p *Playlist) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("playlist id is required"))
	}
	if p.Owner == "" {
		errs = append(errs, errors.New("playlist owner is required"))
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("playlist name is required"))
	}
	return errors.Join(errs...)
}

// TrackCount returns the number of entries in the playlist.
func (p *Playlist) TrackCount() int { return len(p.TrackIDs) }

// Contains reports whether trackID appears in the playlist at least once.
func (p *Playlist) Contains(trackID string) bool {
	for _, id := range p.TrackIDs {
		if id == trackID {
			return true
		}
	}
	return false
}
