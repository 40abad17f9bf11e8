// Package session keeps server-side login sessions for the web UI and the
// cookie flavour of the JSON API.
package session

import (
	"context"
	"errors"
	"time"
)

const CookieName = "viastore_session"

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
}

type Store interface {
	Create(ctx context.Context, userID uint) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
