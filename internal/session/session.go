// Package session tracks who is signed in.
//
// The rest backend authenticates with an access token issued by the hosted
// identity service. "navigator login" stores that token in the OS keyring and
// the user id is read from the token's sub claim. Local backends have no
// identity service and use a fixed user.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "navigator"
	keyringUser    = "access_token"
)

// ErrInvalidToken is returned when a token cannot be parsed or has no subject.
var ErrInvalidToken = errors.New("invalid access token")

// Session is the current identity. The zero value is signed out.
type Session struct {
	UserID      string
	AccessToken string
	Email       string
	ExpiresAt   time.Time
}

// SignedIn reports whether the session carries a user.
func (s Session) SignedIn() bool { return s.UserID != "" }

// Provider reports the current session.
type Provider interface {
	Current(ctx context.Context) (Session, error)
}

// Static always reports the same user. Used by the local backends.
type Static struct {
	UserID string
}

// Current implements Provider.
func (s Static) Current(context.Context) (Session, error) {
	return Session{UserID: s.UserID}, nil
}

// Keyring stores the access token in the OS keyring.
type Keyring struct {
	Service string // empty uses "navigator"
	now     func() time.Time
}

// NewKeyring returns a keyring-backed provider.
func NewKeyring() *Keyring {
	return &Keyring{Service: keyringService, now: time.Now}
}

func (k *Keyring) service() string {
	if k.Service == "" {
		return keyringService
	}
	return k.Service
}

// Current reads the stored token. A missing or expired token is a signed-out
// session, not an error.
func (k *Keyring) Current(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	token, err := keyring.Get(k.service(), keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("read keyring: %w", err)
	}

	sess, err := FromToken(token)
	if err != nil {
		return Session{}, err
	}
	now := time.Now
	if k.now != nil {
		now = k.now
	}
	if !sess.ExpiresAt.IsZero() && !now().Before(sess.ExpiresAt) {
		return Session{}, nil
	}
	return sess, nil
}

// Save validates token and stores it.
func (k *Keyring) Save(token string) (Session, error) {
	sess, err := FromToken(token)
	if err != nil {
		return Session{}, err
	}
	if err := keyring.Set(k.service(), keyringUser, sess.AccessToken); err != nil {
		return Session{}, fmt.Errorf("write keyring: %w", err)
	}
	return sess, nil
}

// Clear removes the stored token. Clearing an empty keyring is not an error.
func (k *Keyring) Clear() error {
	err := keyring.Delete(k.service(), keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clear keyring: %w", err)
	}
	return nil
}

// Token returns the stored access token, or "" when signed out. It matches
// rest.TokenFunc.
func (k *Keyring) Token(ctx context.Context) (string, error) {
	sess, err := k.Current(ctx)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// FromToken builds a session from an access token. The signature is not
// checked here; the API verifies it on every request.
func FromToken(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Session{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	sess := Session{UserID: sub, AccessToken: token}
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
	return sess, nil
}
