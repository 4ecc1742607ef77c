package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidJWTToken        = errors.New("JWT token is invalid")
	ErrExpiredJWTToken        = errors.New("JWT token is expired")
	ErrInvalidJWTRefreshToken = errors.New("JWT Refresh token is invalid")
)

const (
	defaultJWTDuration        = 30 * time.Minute
	defaultJWTRefreshDuration = 720 * time.Hour

	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

type JWTManagerInterface interface {
	GenerateAccessJWT(userID string) (string, error)
	ValidateAccessToken(tokenString string) (string, error)
	GenerateRefreshJWT(userID, tokenHash string) (string, error)
	ValidateRefreshToken(tokenString, tokenHash string) error
	ExtractUserIDFromRefreshToken(tokenString string) (string, error)
	RefreshTTL() time.Duration
}

type AccessTokenCustomClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"typ"`
	jwt.StandardClaims
}

type RefreshTokenCustomClaims struct {
	UserID    string `json:"user_id"`
	CusKey    string `json:"cus_key"`
	TokenType string `json:"typ"`
	jwt.StandardClaims
}

type JWTManager struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTManager builds a manager signing with HS256. Zero TTLs fall back to
// 30 minutes for access tokens and 30 days for refresh tokens.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	if secret == "" {
		panic("JWT secret must not be empty")
	}
	if accessTTL <= 0 {
		accessTTL = defaultJWTDuration
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultJWTRefreshDuration
	}
	return &JWTManager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (j *JWTManager) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// generateCustomKey binds a refresh token to the user's current hash token.
func (j *JWTManager) generateCustomKey(userID string, tokenHash string) string {
	h := hmac.New(sha256.New, []byte(tokenHash))
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

func (j *JWTManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidJWTToken
	}
	return []byte(j.secret), nil
}

func (j *JWTManager) GenerateRefreshJWT(userID, tokenHash string) (string, error) {
	now := time.Now()
	claims := &RefreshTokenCustomClaims{
		UserID:    userID,
		CusKey:    j.generateCustomKey(userID, tokenHash),
		TokenType: refreshTokenType,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.refreshTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

func (j *JWTManager) GenerateAccessJWT(userID string) (string, error) {
	now := time.Now()
	claims := &AccessTokenCustomClaims{
		UserID:    userID,
		TokenType: accessTokenType,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.accessTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

func translateParseError(err error) error {
	var validationErr *jwt.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Errors&(jwt.ValidationErrorExpired) != 0 {
			return ErrExpiredJWTToken
		}
	}
	return ErrInvalidJWTToken
}

func (j *JWTManager) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenCustomClaims{}, j.keyFunc)
	if err != nil {
		return "", translateParseError(err)
	}

	claims, ok := token.Claims.(*AccessTokenCustomClaims)
	if !ok || !token.Valid || claims.TokenType != accessTokenType || claims.UserID == "" || claims.Subject != claims.UserID {
		return "", ErrInvalidJWTToken
	}

	return claims.UserID, nil
}

func (j *JWTManager) parseRefreshToken(tokenString string) (*RefreshTokenCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshTokenCustomClaims{}, j.keyFunc)
	if err != nil {
		return nil, translateParseError(err)
	}

	claims, ok := token.Claims.(*RefreshTokenCustomClaims)
	if !ok || !token.Valid || claims.TokenType != refreshTokenType || claims.UserID == "" || claims.CusKey == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

func (j *JWTManager) ExtractUserIDFromRefreshToken(tokenString string) (string, error) {
	claims, err := j.parseRefreshToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (j *JWTManager) ValidateRefreshToken(tokenString, tokenHash string) error {
	claims, err := j.parseRefreshToken(tokenString)
	if err != nil {
		return err
	}

	expectedCusKey := j.generateCustomKey(claims.UserID, tokenHash)
	if !hmac.Equal([]byte(claims.CusKey), []byte(expectedCusKey)) {
		return ErrInvalidJWTRefreshToken
	}

	return nil
}
