package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/RianNegreiros/ai-powered-task-app/internal/observability"
	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// ServiceConfig carries the token parameters injected at construction time.
type ServiceConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Service orchestrates registration, login, refresh and identity resolution.
type Service struct {
	repo    Repository
	hasher  PasswordHasher
	codec   *Codec
	cfg     ServiceConfig
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService constructs a new Service. logger and metrics may be nil.
func NewService(repo Repository, hasher PasswordHasher, codec *Codec, cfg ServiceConfig, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, hasher: hasher, codec: codec, cfg: cfg, logger: logger, metrics: metrics}
}

// Register hashes the password and persists a new user. The email may be
// echoed back in the conflict error since the caller supplied it; internal
// ids never are.
func (s *Service) Register(ctx context.Context, name, email, password string) (Profile, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return Profile{}, fmt.Errorf("%w: user with email %s already exists", shared.ErrUserExists, email)
	case !errors.Is(err, shared.ErrNotFound):
		return Profile{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Profile{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, name, email, hash)
	if err != nil {
		return Profile{}, err
	}
	return Profile{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// Login verifies credentials and issues a fresh token pair. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, err
		}
		s.metrics.ObserveLogin(observability.ReasonUnknownEmail)
		return TokenPair{}, shared.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.ObserveLogin(observability.ReasonBadPassword)
		return TokenPair{}, shared.ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	s.metrics.ObserveLogin("ok")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. Every
// rejection reason collapses to the same opaque error so callers only learn
// that re-authentication is required; the concrete reason is logged and
// counted. The old refresh token stays valid until its expiry: there is no
// revocation list, a known and deliberate limitation.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		reason := tokenFailureReason(err)
		s.logger.Warn("refresh token rejected", slog.String("reason", reason))
		s.metrics.ObserveTokenFailure(reason)
		s.metrics.ObserveRefresh(reason)
		return TokenPair{}, shared.ErrInvalidCredentials
	}
	if claims.Kind != TokenKindRefresh {
		// An access token must never mint a fresh long-lived refresh token.
		s.logger.Warn("refresh token rejected", slog.String("reason", observability.ReasonWrongType))
		s.metrics.ObserveTokenFailure(observability.ReasonWrongType)
		s.metrics.ObserveRefresh(observability.ReasonWrongType)
		return TokenPair{}, shared.ErrInvalidCredentials
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		s.metrics.ObserveRefresh(observability.ReasonMalformed)
		return TokenPair{}, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, err
		}
		s.metrics.ObserveRefresh(observability.ReasonUnknownSubject)
		return TokenPair{}, shared.ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	s.metrics.ObserveRefresh("ok")
	return pair, nil
}

// ResolveIdentity looks up the profile for an already-verified subject id.
// By this point the caller has proven possession of a valid signed token,
// so the not-found error is allowed to be specific.
func (s *Service) ResolveIdentity(ctx context.Context, userID int64) (Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Profile{}, fmt.Errorf("%w: user not found with id %d", shared.ErrUserNotFound, userID)
		}
		return Profile{}, err
	}
	return Profile{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (s *Service) issuePair(userID int64) (TokenPair, error) {
	subject := strconv.FormatInt(userID, 10)
	access, err := s.codec.Issue(subject, TokenKindAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.codec.Issue(subject, TokenKindRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresIn:  int64(s.cfg.AccessTokenTTL.Seconds()),
		RefreshToken:     refresh,
		RefreshExpiresIn: int64(s.cfg.RefreshTokenTTL.Seconds()),
	}, nil
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return observability.ReasonExpired
	case errors.Is(err, ErrTokenSignature):
		return observability.ReasonSignature
	case errors.Is(err, ErrTokenMalformed):
		return observability.ReasonMalformed
	default:
		return "invalid"
	}
}
