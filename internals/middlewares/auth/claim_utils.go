// internals/middlewares/auth/claim_utils.go
package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

/* ======== Extractors ======== */

// Cookies the auth provider's browser client may set.
var tokenCookies = []string{"sb-access-token", "access_token"}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		for _, name := range tokenCookies {
			if tok := c.Cookies(name); tok != "" {
				auth = "Bearer " + tok
				break
			}
		}
	}
	if auth == "" {
		return "", fmt.Errorf("no token provided")
	}

	// tolerate repeated spaces and any casing of the scheme
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration, now time.Time) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if now.UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

// extractUserID reads the subject, which the auth provider sets to the user id.
func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("no subject")
	}
	id, err := uuid.Parse(strings.TrimSpace(sub))
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("nil subject")
	}
	return id, nil
}

/* ======== Store claims to Locals ======== */

func storeBasicClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if email, ok := claims["email"].(string); ok {
		c.Locals("user_email", email)
	}
	if role, ok := claims["role"].(string); ok {
		c.Locals("user_role", role)
	}
	meta, _ := claims["user_metadata"].(map[string]interface{})
	if name := firstString(meta, "full_name", "name", "user_name"); name != "" {
		c.Locals("user_name", name)
	}
	if avatar := firstString(meta, "avatar_url", "picture"); avatar != "" {
		c.Locals("user_avatar_url", avatar)
	}
}

/* ======== Helpers ======== */

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
