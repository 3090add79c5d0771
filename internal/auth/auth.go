package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated principal carried in the request context.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsStaff bool   `json:"is_staff"`
}

// CanAccess reports whether the user may see a record owned by ownerID.
func (u *User) CanAccess(ownerID int64) bool {
	return u != nil && (u.IsStaff || u.ID == ownerID)
}

// Credentials is what the repository hands back for a login attempt.
type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	IsActive     bool
}

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

type AuthTokens struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type RepositoryAPI interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	GetActiveUserByID(ctx context.Context, userID int64) (*User, error)
}

type TokenGeneratorAPI interface {
	Generate(userID int64, email string, tokenType TokenType) (string, error)
	Validate(tokenString string, expected TokenType) (*Claims, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetActiveUser(ctx context.Context, userID int64) (*User, error)
}

type JWTTokenGenerator struct {
	Secret          []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	now             func() time.Time
}
