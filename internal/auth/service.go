package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/logging"
	"github.com/sebuszqo/FinanceLedger/internal/user"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInactiveUser           = errors.New("user account is inactive")
	ErrUserNotFound           = errors.New("user not found")
	ErrInternalError          = errors.New("internal Server Error")
	ErrUser2FANotEnabled      = errors.New("two factor auth is not enabled")
	ErrUser2FAAlreadyEnabled  = errors.New("2fa auth already enabled")
	ErrTwoFactorNotRegistered = errors.New("two factor auth has not been registered")
	ErrInvalid2FACode         = errors.New("2fa code is invalid")
)

// UserLookup is the part of the user service authentication relies on.
type UserLookup interface {
	GetUserByID(ctx context.Context, userID string) (*user.User, error)
	GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*user.User, error)
}

// LoginResult carries either a token pair or, when the second factor is
// still pending, a session token.
type LoginResult struct {
	User              *user.User
	AccessToken       string
	RefreshToken      string
	SessionToken      string
	TwoFactorRequired bool
}

type Service interface {
	Login(ctx context.Context, emailOrLogin, password string) (*LoginResult, error)
	VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*LoginResult, error)
	RegisterTwoFactor(ctx context.Context, userID string) (otpURI, secret string, err error)
	VerifyTwoFactorRegistration(ctx context.Context, userID, code string) error
	DisableTwoFactor(ctx context.Context, userID, code string) error
	RefreshAccessToken(ctx context.Context, userID string) (string, string, error)
	IssueTokens(ctx context.Context, u *user.User) (string, string, error)
	RefreshTTL() int
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo           TwoFactorRepository
	users          UserLookup
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  TwoFactorAuthenticator
}

func NewAuthService(repo TwoFactorRepository, users UserLookup, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, authenticator TwoFactorAuthenticator) Service {
	if repo == nil || users == nil || sessionManager == nil || jwtManager == nil || authenticator == nil {
		panic("auth service dependencies must not be nil")
	}
	return &service{
		repo:           repo,
		users:          users,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
	}
}

func (s *service) lookupUser(ctx context.Context, userID string) (*user.User, error) {
	existingUser, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logging.FromContext(ctx).Error("error when getting user from database", "user_id", userID, "error", err)
		return nil, ErrInternalError
	}
	return existingUser, nil
}

func (s *service) IssueTokens(ctx context.Context, u *user.User) (string, string, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(u.ID)
	if err != nil {
		logging.FromContext(ctx).Error("error during JWT generation", "error", err)
		return "", "", ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(u.ID, u.HashToken)
	if err != nil {
		logging.FromContext(ctx).Error("error during refresh token generation", "error", err)
		return "", "", ErrInternalError
	}
	return accessToken, refreshToken, nil
}

// RefreshTTL is the refresh cookie lifetime in seconds.
func (s *service) RefreshTTL() int {
	return int(s.jwtManager.RefreshTTL().Seconds())
}

func (s *service) Login(ctx context.Context, emailOrLogin, password string) (*LoginResult, error) {
	existingUser, err := s.users.GetUserByLoginOrEmail(ctx, emailOrLogin)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		logging.FromContext(ctx).Error("error when getting user from database", "error", err)
		return nil, ErrInternalError
	}

	if !user.DoPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !existingUser.IsActive {
		return nil, ErrInactiveUser
	}

	if existingUser.TwoFactorEnabled {
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return nil, ErrInternalError
		}
		return &LoginResult{User: existingUser, SessionToken: sessionToken, TwoFactorRequired: true}, nil
	}

	accessToken, refreshToken, err := s.IssueTokens(ctx, existingUser)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: existingUser, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*LoginResult, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, err
	}

	existingUser, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !existingUser.IsActive {
		return nil, ErrInactiveUser
	}
	if !existingUser.TwoFactorEnabled {
		return nil, ErrUser2FANotEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrTwoFactorNotRegistered) {
			return nil, ErrUser2FANotEnabled
		}
		return nil, ErrInternalError
	}

	if !s.authenticator.VerifyCode(secret, code) {
		return nil, ErrInvalid2FACode
	}
	s.sessionManager.DeleteSessionToken(sessionToken)

	accessToken, refreshToken, err := s.IssueTokens(ctx, existingUser)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: existingUser, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) RegisterTwoFactor(ctx context.Context, userID string) (string, string, error) {
	existingUser, err := s.lookupUser(ctx, userID)
	if err != nil {
		return "", "", err
	}

	if existingUser.TwoFactorEnabled {
		return "", "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		return "", "", ErrInternalError
	}
	if err := s.repo.SaveTwoFactorSecret(ctx, userID, secret); err != nil {
		logging.FromContext(ctx).Error("could not save two-factor secret", "user_id", userID, "error", err)
		return "", "", ErrInternalError
	}

	return otpURI, secret, nil
}

func (s *service) VerifyTwoFactorRegistration(ctx context.Context, userID, code string) error {
	existingUser, err := s.lookupUser(ctx, userID)
	if err != nil {
		return err
	}

	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrTwoFactorNotRegistered) {
			return ErrTwoFactorNotRegistered
		}
		return ErrInternalError
	}

	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.repo.EnableTwoFactor(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("could not enable two-factor authentication", "user_id", userID, "error", err)
		return ErrInternalError
	}
	return nil
}

func (s *service) DisableTwoFactor(ctx context.Context, userID, code string) error {
	existingUser, err := s.lookupUser(ctx, userID)
	if err != nil {
		return err
	}

	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		return ErrInternalError
	}

	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.repo.DisableTwoFactor(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("could not disable two-factor authentication", "user_id", userID, "error", err)
		return ErrInternalError
	}

	return nil
}

// RefreshAccessToken requests are already checked in refresh token middleware
func (s *service) RefreshAccessToken(ctx context.Context, userID string) (string, string, error) {
	existingUser, err := s.lookupUser(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return s.IssueTokens(ctx, existingUser)
}
