package service

import (
	"context"
	"errors"

	"engsite/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorageDisabled    = errors.New("image storage is not configured")
	ErrUnsupportedImage   = errors.New("unsupported image type")
)

type sessionKey struct{}

// WithSession stores the authorized session for downstream services.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*models.Session)
	return session, ok && session != nil
}
