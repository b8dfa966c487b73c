package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry is the lifetime of an issued token.
const TokenExpiry = 7 * 24 * time.Hour

var (
	// ErrMalformed is returned when a token cannot be parsed or carries no user id.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature is returned when a token was not signed with our secret.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired is returned when a token is past its expiry.
	ErrExpired = errors.New("token expired")
)

// Claims represents JWT claims.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// It holds no state besides the signing secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue returns a token for userID that expires after TokenExpiry.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the user id it
// carries. Errors are ErrMalformed, ErrInvalidSignature or ErrExpired.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, classify(err)
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, ErrMalformed
	}
	return claims.UserID, nil
}

// classify maps a jwt parse error to one of the package errors. A bad
// signature outranks expiry so forged tokens are never reported as merely old.
func classify(err error) error {
	var vErr *jwt.ValidationError
	if !errors.As(err, &vErr) {
		return ErrMalformed
	}
	switch {
	case vErr.Errors&jwt.ValidationErrorMalformed != 0:
		return ErrMalformed
	case vErr.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
		return ErrInvalidSignature
	case vErr.Errors&jwt.ValidationErrorExpired != 0:
		return ErrExpired
	default:
		return ErrMalformed
	}
}
