package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	tokenContextKey = "user"
	actorContextKey = "actor"
)

// Claims is the token payload issued by the identity service. The subject
// is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func jwtMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Name,
		ContextKey:    tokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(Claims)
		},
	})
}

// actorMiddleware turns verified claims into a kernel.Actor. Unknown roles
// and the internal system role are refused.
func actorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "unexpected claims")
		}

		role, err := kernel.ParseRole(claims.Role)
		if err != nil || role == kernel.RoleSystem {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown role").SetInternal(err)
		}
		actor, err := kernel.NewActor(claims.Subject, role)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject").SetInternal(err)
		}

		c.Set(actorContextKey, actor)
		return next(c)
	}
}

var errNoActor = errors.New("no authenticated actor on request")

func actorOf(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized).SetInternal(errNoActor)
	}
	return actor, nil
}

// SignToken issues an HS256 token for the actor. The service only verifies
// tokens; this is used by tooling and tests.
func SignToken(secret string, actor kernel.Actor, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = actor.ID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: actor.Role.String(), RegisteredClaims: claims})
	return token.SignedString([]byte(secret))
}
