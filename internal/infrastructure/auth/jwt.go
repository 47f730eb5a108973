package auth

import (
	"errors"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Common errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMissingRoles       = errors.New("missing roles in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims represents custom JWT claims. School and group school IDs are
// empty for platform-wide accounts such as the proprietor.
type Claims struct {
	jwt.RegisteredClaims
	UserID        string    `json:"user_id"`
	Email         string    `json:"email,omitempty"`
	Roles         []string  `json:"roles"`
	SchoolID      string    `json:"school_id,omitempty"`
	GroupSchoolID string    `json:"group_school_id,omitempty"`
	TokenType     TokenType `json:"token_type"`
	RefreshCount  int       `json:"refresh_count,omitempty"`
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// JWTService handles JWT token operations
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	maxRefreshCount   int
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := []byte(cfg.RefreshSecret)
	if cfg.RefreshSecret == "" {
		refreshSecret = []byte(cfg.Secret)
	}

	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     refreshSecret,
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		maxRefreshCount:   cfg.MaxRefreshCount,
	}
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	UserID        uuid.UUID
	Email         string
	Roles         []identity.Role
	SchoolID      uuid.UUID
	GroupSchoolID uuid.UUID
}

// GenerateTokenPair generates both access and refresh tokens
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	now := time.Now()

	roles := make([]string, len(input.Roles))
	for i, r := range input.Roles {
		roles[i] = string(r)
	}

	accessClaims := &Claims{
		RegisteredClaims: s.registeredClaims(input.UserID, now, s.accessExpiration),
		UserID:           input.UserID.String(),
		Email:            input.Email,
		Roles:            roles,
		SchoolID:         uuidClaim(input.SchoolID),
		GroupSchoolID:    uuidClaim(input.GroupSchoolID),
		TokenType:        TokenTypeAccess,
	}

	accessToken, err := s.generateToken(accessClaims, s.accessSecret)
	if err != nil {
		return nil, err
	}

	// Refresh token carries minimal claims; roles are re-read from the
	// user record on refresh so revocations take effect.
	refreshClaims := &Claims{
		RegisteredClaims: s.registeredClaims(input.UserID, now, s.refreshExpiration),
		UserID:           input.UserID.String(),
		Roles:            roles,
		SchoolID:         uuidClaim(input.SchoolID),
		GroupSchoolID:    uuidClaim(input.GroupSchoolID),
		TokenType:        TokenTypeRefresh,
		RefreshCount:     0,
	}

	refreshToken, err := s.generateToken(refreshClaims, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) registeredClaims(userID uuid.UUID, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func uuidClaim(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// generateToken creates a signed JWT token
func (s *JWTService) generateToken(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, s.refreshSecret, TokenTypeRefresh)
}

// validateToken validates a JWT token
func (s *JWTService) validateToken(tokenString string, secret []byte, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}

	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if len(claims.Roles) == 0 {
		return nil, ErrMissingRoles
	}

	return claims, nil
}

// RefreshTokenPair refreshes tokens using a valid refresh token. The caller
// passes the user's current roles and school assignment so that changes made
// since the token was issued are reflected in the new pair.
func (s *JWTService) RefreshTokenPair(refreshToken string, input GenerateTokenInput) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrMaxRefreshExceeded
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidClaims
	}
	if input.UserID != uuid.Nil && input.UserID != userID {
		return nil, ErrInvalidClaims
	}

	now := time.Now()

	roles := make([]string, len(input.Roles))
	for i, r := range input.Roles {
		roles[i] = string(r)
	}

	accessClaims := &Claims{
		RegisteredClaims: s.registeredClaims(userID, now, s.accessExpiration),
		UserID:           userID.String(),
		Email:            input.Email,
		Roles:            roles,
		SchoolID:         uuidClaim(input.SchoolID),
		GroupSchoolID:    uuidClaim(input.GroupSchoolID),
		TokenType:        TokenTypeAccess,
	}

	accessToken, err := s.generateToken(accessClaims, s.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshClaims := &Claims{
		RegisteredClaims: s.registeredClaims(userID, now, s.refreshExpiration),
		UserID:           userID.String(),
		Roles:            roles,
		SchoolID:         uuidClaim(input.SchoolID),
		GroupSchoolID:    uuidClaim(input.GroupSchoolID),
		TokenType:        TokenTypeRefresh,
		RefreshCount:     claims.RefreshCount + 1,
	}

	newRefreshToken, err := s.generateToken(refreshClaims, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

// GetUserUUID extracts and parses the user ID from claims
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GetSchoolUUID extracts the school ID from claims. Returns uuid.Nil for
// accounts without a school assignment.
func (c *Claims) GetSchoolUUID() (uuid.UUID, error) {
	if c.SchoolID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(c.SchoolID)
}

// GetGroupSchoolUUID extracts the group school ID from claims. Returns
// uuid.Nil for accounts without one.
func (c *Claims) GetGroupSchoolUUID() (uuid.UUID, error) {
	if c.GroupSchoolID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(c.GroupSchoolID)
}

// GetRoleSet parses the role claims into a domain role set
func (c *Claims) GetRoleSet() (identity.RoleSet, error) {
	return identity.ParseRoleSet(c.Roles)
}

// Actor builds the domain actor represented by these claims
func (c *Claims) Actor() (identity.Actor, error) {
	userID, err := c.GetUserUUID()
	if err != nil {
		return identity.Actor{}, ErrInvalidClaims
	}
	schoolID, err := c.GetSchoolUUID()
	if err != nil {
		return identity.Actor{}, ErrInvalidClaims
	}
	groupID, err := c.GetGroupSchoolUUID()
	if err != nil {
		return identity.Actor{}, ErrInvalidClaims
	}
	roles, err := c.GetRoleSet()
	if err != nil {
		return identity.Actor{}, ErrInvalidClaims
	}
	return identity.NewActor(userID, roles, schoolID, groupID), nil
}
