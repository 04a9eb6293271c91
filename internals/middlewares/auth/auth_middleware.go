// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"sprout_backend/internals/apperrors"
	helper "sprout_backend/internals/helpers"
)

const expirySkew = 30 * time.Second

// AuthJWT verifies the HS256 access token issued by the auth provider and
// stores its subject as user_id. Sign-in itself happens at the provider.
func AuthJWT(secret string, log *slog.Logger) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithoutClaimsValidation(),
	)

	return func(c *fiber.Ctx) error {
		if len(key) == 0 {
			log.Error("JWT secret is not configured")
			return helper.JsonAppError(c, apperrors.Configuration("missing jwt secret"))
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonAppError(c, apperrors.Unauthorized("Unauthorized"))
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		}); err != nil {
			log.Debug("token rejected", "err", err, "path", c.Path())
			return helper.JsonAppError(c, apperrors.Unauthorized("Unauthorized - invalid token"))
		}

		if err := validateTokenExpiry(claims, expirySkew, time.Now()); err != nil {
			return helper.JsonAppError(c, apperrors.Unauthorized("Unauthorized - token expired"))
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return helper.JsonAppError(c, apperrors.Unauthorized("Unauthorized - invalid subject"))
		}
		c.Locals("user_id", userID.String())
		storeBasicClaimsToLocals(c, claims)

		return c.Next()
	}
}
