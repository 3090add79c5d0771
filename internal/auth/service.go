package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/frahmantamala/ecommerce-backend/internal"
)

// Service is the main auth service with dependencies
type Service struct {
	repo   RepositoryAPI
	tokens TokenGeneratorAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// NewJWTTokenGenerator signs both token types with one HS256 secret; the
// token_type claim keeps a refresh token from being used as an access token.
func NewJWTTokenGenerator(secret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 60 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:          []byte(secret),
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
		now:             time.Now,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	creds, err := s.repo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to load credentials", "email", email, "error", err)
		return AuthTokens{}, apperrors.NewInternalError("failed to authenticate", err)
	}
	if creds == nil {
		s.logger.Warn("login rejected: unknown email", "email", email)
		return AuthTokens{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected: password mismatch", "user_id", creds.UserID)
		return AuthTokens{}, apperrors.ErrInvalidCredentials
	}

	if !creds.IsActive {
		s.logger.Warn("login rejected: inactive user", "user_id", creds.UserID)
		return AuthTokens{}, apperrors.ErrUserInactive
	}

	tokens, err := s.issue(creds.UserID, creds.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	s.logger.Info("user authenticated", "user_id", creds.UserID)
	return tokens, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	claims, err := s.tokens.Validate(dto.Refresh, TokenTypeRefresh)
	if err != nil {
		s.logger.Warn("refresh rejected", "error", err)
		return AuthTokens{}, err
	}

	user, err := s.GetActiveUser(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issue(user.ID, user.Email)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.Validate(tokenString, TokenTypeAccess)
}

// GetActiveUser loads the principal for a token subject.
func (s *Service) GetActiveUser(ctx context.Context, userID int64) (*User, error) {
	user, err := s.repo.GetActiveUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		s.logger.Warn("token subject not found or inactive", "user_id", userID)
		return nil, apperrors.ErrInvalidToken
	}
	return user, nil
}

func (s *Service) issue(userID int64, email string) (AuthTokens, error) {
	access, err := s.tokens.Generate(userID, email, TokenTypeAccess)
	if err != nil {
		s.logger.Error("failed to sign access token", "user_id", userID, "error", err)
		return AuthTokens{}, apperrors.NewInternalError("failed to issue token", err)
	}

	refresh, err := s.tokens.Generate(userID, email, TokenTypeRefresh)
	if err != nil {
		s.logger.Error("failed to sign refresh token", "user_id", userID, "error", err)
		return AuthTokens{}, apperrors.NewInternalError("failed to issue token", err)
	}

	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *JWTTokenGenerator) Generate(userID int64, email string, tokenType TokenType) (string, error) {
	ttl := j.AccessTokenTTL
	if tokenType == TokenTypeRefresh {
		ttl = j.RefreshTokenTTL
	}

	now := j.now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) Validate(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != expected {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
