package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"engsite/internal/apiclient"
	"engsite/internal/config"
	"engsite/internal/models"
	"engsite/internal/repository"
	"engsite/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (models.Result[*models.Session], error)
	Logout(ctx context.Context) (models.Result[any], error)
	Session(ctx context.Context) (models.Result[*models.Session], error)
	// Authorize is the only check the admin guard performs.
	Authorize(ctx context.Context, token string) (*models.Session, error)
}

// Authenticator checks credentials against the demo user or the upstream API.
type Authenticator interface {
	Authenticate(ctx context.Context, creds models.Credentials) (models.Author, string, error)
	Revoke(ctx context.Context, token string) error
	Verify(token string) error
}

type authService struct {
	authenticator Authenticator
	kv            storage.KeyValue
	ttl           time.Duration
	log           logrus.FieldLogger
	now           func() time.Time
}

func NewAuthService(authenticator Authenticator, kv storage.KeyValue, cfg *config.Config, log logrus.FieldLogger) AuthService {
	return &authService{
		authenticator: authenticator,
		kv:            kv,
		ttl:           cfg.SessionDuration,
		log:           log,
		now:           time.Now,
	}
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (models.Result[*models.Session], error) {
	creds.Email = strings.TrimSpace(creds.Email)

	user, token, err := s.authenticator.Authenticate(ctx, creds)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return models.Fail[*models.Session]("Invalid email or password."), err
		}
		return models.Fail[*models.Session]("Could not sign in"), fmt.Errorf("error authenticating: %w", err)
	}

	now := s.now()
	session := &models.Session{
		User:      user,
		Token:     token,
		IssuedAt:  models.NewTimestamp(now),
		ExpiresAt: models.NewTimestamp(now.Add(s.ttl)),
	}

	if err := s.kv.Save(ctx, storage.KeySession, session); err != nil {
		return models.Fail[*models.Session]("Could not sign in"), fmt.Errorf("error saving session: %w", err)
	}

	return models.OK("Login successful", session), nil
}

// Logout clears the local session even when the upstream rejects the call.
func (s *authService) Logout(ctx context.Context) (models.Result[any], error) {
	var session models.Session
	found, err := s.kv.Get(ctx, storage.KeySession, &session)
	if err != nil {
		return models.Fail[any]("Could not sign out"), fmt.Errorf("error reading session: %w", err)
	}

	if found && session.Token != "" {
		if err := s.authenticator.Revoke(ctx, session.Token); err != nil {
			s.log.WithError(err).Warn("upstream logout failed")
		}
	}

	if err := s.kv.Remove(ctx, storage.KeySession); err != nil {
		return models.Fail[any]("Could not sign out"), fmt.Errorf("error removing session: %w", err)
	}

	return models.OK[any]("Logout successful", nil), nil
}

func (s *authService) Session(ctx context.Context) (models.Result[*models.Session], error) {
	session, err := s.current(ctx)
	if err != nil {
		return models.Fail[*models.Session]("Not authenticated"), err
	}
	return models.OK("Session active", session), nil
}

func (s *authService) Authorize(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(session.Token)) != 1 {
		return nil, ErrUnauthorized
	}

	if err := s.authenticator.Verify(token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	return session, nil
}

func (s *authService) current(ctx context.Context) (*models.Session, error) {
	var session models.Session
	found, err := s.kv.Get(ctx, storage.KeySession, &session)
	if err != nil {
		return nil, fmt.Errorf("error reading session: %w", err)
	}
	if !found || session.Token == "" || session.Expired(s.now()) {
		return nil, ErrUnauthorized
	}
	return &session, nil
}

type localAuthenticator struct {
	email        string
	name         string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

// NewLocalAuthenticator signs HS256 tokens for the configured demo user.
func NewLocalAuthenticator(cfg *config.Config) (Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DemoUser.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing demo password: %w", err)
	}

	return &localAuthenticator{
		email:        cfg.DemoUser.Email,
		name:         cfg.DemoUser.Name,
		passwordHash: hash,
		secret:       []byte(cfg.JWTSecretKey),
		ttl:          cfg.SessionDuration,
	}, nil
}

func (a *localAuthenticator) Authenticate(_ context.Context, creds models.Credentials) (models.Author, string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(creds.Email), []byte(a.email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(creds.Password))
	if !emailOK || passwordErr != nil {
		return models.Author{}, "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  a.email,
		"name": a.name,
		"iat":  now.Unix(),
		"exp":  now.Add(a.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return models.Author{}, "", fmt.Errorf("error signing token: %w", err)
	}

	return models.Author{Email: a.email, Name: a.name}, token, nil
}

func (a *localAuthenticator) Revoke(context.Context, string) error {
	return nil
}

func (a *localAuthenticator) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return fmt.Errorf("error parsing token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

type remoteAuthenticator struct {
	api repository.API
}

// NewRemoteAuthenticator delegates credential checks to POST /auth/login.
func NewRemoteAuthenticator(api repository.API) Authenticator {
	return &remoteAuthenticator{api: api}
}

func (a *remoteAuthenticator) Authenticate(ctx context.Context, creds models.Credentials) (models.Author, string, error) {
	env, err := a.api.Post(ctx, "/auth/login", creds)
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			return models.Author{}, "", ErrInvalidCredentials
		}
		return models.Author{}, "", err
	}

	token := env.String(
		"access_token", "accessToken", "token",
		"data.access_token", "data.accessToken", "data.token",
	)
	if !env.Success() || token == "" {
		return models.Author{}, "", ErrInvalidCredentials
	}

	user := models.Author{
		Email: env.String("user.email", "data.user.email"),
		Name:  env.String("user.name", "data.user.name"),
	}
	if user.Email == "" {
		user.Email = creds.Email
	}

	return user, token, nil
}

func (a *remoteAuthenticator) Revoke(ctx context.Context, token string) error {
	_, err := a.api.Post(apiclient.WithToken(ctx, token), "/auth/logout", nil)
	return err
}

// Verify is a no-op: the upstream validates its own tokens on every call.
func (a *remoteAuthenticator) Verify(string) error {
	return nil
}
