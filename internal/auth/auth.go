package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Additional-Code/rentcamp/internal/config"
)

// ErrInvalidToken is returned when a bearer token is missing or not recognised.
var ErrInvalidToken = errors.New("invalid bearer token")

// Principal describes the verified bearer.
type Principal struct {
	Subject string
	Admin   bool
}

// Verifier checks bearer credentials and reports the bearer's role.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// Module provides the verifier and the admin middleware to Fx.
var Module = fx.Provide(
	fx.Annotate(NewStaticVerifier, fx.As(new(Verifier))),
	NewAdminMiddleware,
)

// StaticVerifier accepts admin tokens whose bcrypt hash is configured.
type StaticVerifier struct {
	hashes [][]byte
}

// NewStaticVerifier builds a verifier from AUTH_ADMIN_TOKEN_HASHES.
func NewStaticVerifier(cfg config.Config, logger *zap.Logger) *StaticVerifier {
	v := &StaticVerifier{}
	for _, h := range cfg.Auth.AdminTokenHashes {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			if logger != nil {
				logger.Warn("ignoring malformed admin token hash", zap.Error(err))
			}
			continue
		}
		v.hashes = append(v.hashes, []byte(h))
	}
	if len(v.hashes) == 0 && logger != nil {
		logger.Warn("no admin token hashes configured; admin routes will reject every request")
	}
	return v
}

// Verify compares token against every configured hash.
func (v *StaticVerifier) Verify(_ context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrInvalidToken
	}
	for _, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(token)) == nil {
			return Principal{Subject: "admin", Admin: true}, nil
		}
	}
	return Principal{}, ErrInvalidToken
}

// HashToken returns the bcrypt hash to configure for a new admin token.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
