package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "projecthub/internal/errors"
	"projecthub/internal/model"
)

const userContextKey = "user"

// TokenVerifier verifies a bearer token and returns the user id it carries.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// UserResolver loads the user a verified token refers to.
type UserResolver interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// Gate admits requests that carry a valid bearer token for an existing user.
type Gate struct {
	tokens TokenVerifier
	users  UserResolver
	log    *zap.Logger
}

// NewGate creates an access gate.
func NewGate(tokens TokenVerifier, users UserResolver, log *zap.Logger) *Gate {
	return &Gate{tokens: tokens, users: users, log: log.Named("gate")}
}

// Middleware returns the echo middleware enforcing authentication. Every
// rejection is a 401 with the same body.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized()
			}

			userID, err := g.tokens.Verify(token)
			if err != nil {
				g.log.Debug("token rejected", zap.Error(err))
				return unauthorized()
			}

			user, err := g.users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if !errors.Is(err, apperrors.ErrUserNotFound) {
					g.log.Error("resolve token user", zap.Int64("user_id", userID), zap.Error(err))
				}
				return unauthorized()
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Anything but exactly two space-separated parts starting with
// "Bearer" is rejected.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrUnauthorized.Error(),
	})
}

// UserFromContext returns the user attached by the gate.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok && user != nil
}
