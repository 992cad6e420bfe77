package http

import (
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	actorContextKey = "actor"
	// accessTokenParam carries the token of websocket upgrades, which browsers
	// cannot send with an Authorization header.
	accessTokenParam = "access_token"
)

// ActorClaims are the claims the identity service puts in access tokens: the
// subject is the user id and role is "client" or "courier".
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ActorMiddleware verifies the HS256 bearer token and stores the caller as a
// kernel.Actor on the echo context.
func (s *Server) ActorMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return s.fail(c, errUnauthorized)
			}

			actor, err := parseActor(token, secret)
			if err != nil {
				return s.fail(c, fmt.Errorf("%w: %w", errUnauthorized, err))
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return c.QueryParam(accessTokenParam)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func parseActor(tokenStr string, secret []byte) (kernel.Actor, error) {
	if len(secret) == 0 {
		return kernel.Actor{}, errs.NewValueIsRequiredError("jwt secret")
	}

	claims := &ActorClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return kernel.Actor{}, err
	}
	if !tok.Valid {
		return kernel.Actor{}, jwt.ErrTokenInvalidClaims
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.Actor{}, err
	}
	role, err := kernel.ParseRole(claims.Role)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.Actor{ID: id, Role: role}, nil
}

// actorOf returns the caller stored by ActorMiddleware.
func actorOf(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorContextKey).(kernel.Actor)
	return actor
}

func requireRole(actor kernel.Actor, role kernel.Role, action string) error {
	if actor.Role != role {
		return errs.NewActionIsForbiddenError(actor, action)
	}
	return nil
}
