package identity

import (
	"context"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles authentication operations: login, token refresh
// and logout
type AuthService struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// LoginInput contains login credentials
type LoginInput struct {
	Email    string
	Password string
}

// AuthUser is the authenticated user's profile in auth results
type AuthUser struct {
	ID            uuid.UUID `json:"id"`
	GroupSchoolID uuid.UUID `json:"group_school_id"`
	SchoolID      uuid.UUID `json:"school_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	RegNumber     string    `json:"reg_number,omitempty"`
	Roles         []string  `json:"roles"`
}

// LoginResult contains tokens and the authenticated user's profile
type LoginResult struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   AuthUser        `json:"user"`
}

// Login authenticates a user by email and password and returns a token
// pair. Credential failures and unknown emails produce the same error
// so the endpoint does not leak which emails exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("login attempt for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if user.Status != identity.UserStatusActive {
		s.logger.Warn("login attempt for inactive account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("login attempt with wrong password", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokens, err := s.jwtService.GenerateTokenPair(tokenInput(user))
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Unable to issue tokens")
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.Strings("roles", user.Roles.Strings()))

	return &LoginResult{Tokens: tokens, User: authUser(user)}, nil
}

// RefreshInput contains the refresh token
type RefreshInput struct {
	RefreshToken string
}

// Refresh exchanges a valid refresh token for a new token pair. Roles
// and school scope are re-read from the user record, so a role change
// takes effect on the next refresh rather than waiting for re-login.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	if s.blacklist != nil {
		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			s.logger.Warn("blacklist check failed during refresh", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}
	if user.Status != identity.UserStatusActive {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	tokens, err := s.jwtService.RefreshTokenPair(input.RefreshToken, tokenInput(user))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	return &LoginResult{Tokens: tokens, User: authUser(user)}, nil
}

// LogoutInput identifies the session to revoke
type LogoutInput struct {
	UserID    string
	TokenJTI  string
	ExpiresAt time.Time
}

// Logout revokes the current access token by blacklisting its JTI until
// the token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}

	ttl := time.Until(input.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("failed to blacklist token",
			zap.String("user_id", input.UserID),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Unable to revoke token")
	}

	s.logger.Info("user logged out", zap.String("user_id", input.UserID))
	return nil
}

// CurrentUser returns the profile of the authenticated user
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := authUser(user)
	return &u, nil
}

func tokenInput(user *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		UserID:        user.ID,
		Email:         user.Email,
		Roles:         user.Roles.Roles(),
		SchoolID:      user.SchoolID,
		GroupSchoolID: user.GroupSchoolID,
	}
}

func authUser(user *identity.User) AuthUser {
	return AuthUser{
		ID:            user.ID,
		GroupSchoolID: user.GroupSchoolID,
		SchoolID:      user.SchoolID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		RegNumber:     user.RegNumber,
		Roles:         user.Roles.Strings(),
	}
}
