package auth

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/matryer/is"
)

const secret = "test-jwt-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func app() *fiber.App {
	a := fiber.New()
	a.Use(AuthJWT(secret, slog.New(slog.NewTextHandler(io.Discard, nil))))
	a.Get("/me", func(c *fiber.Ctx) error {
		name, _ := c.Locals("user_name").(string)
		email, _ := c.Locals("user_email").(string)
		return c.SendString(c.Locals("user_id").(string) + "|" + email + "|" + name)
	})
	return a
}

func call(t *testing.T, a *fiber.App, setup func(r *fiberRequest)) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	setup(&fiberRequest{req.Header.Set, func(name, value string) {
		req.Header.Add("Cookie", name+"="+value)
	}})
	resp, err := a.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

type fiberRequest struct {
	header func(k, v string)
	cookie func(k, v string)
}

func TestAuthJWTAcceptsValidToken(t *testing.T) {
	is := is.New(t)
	id := uuid.New()
	tok := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub":           id.String(),
		"email":         "a@example.com",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{"full_name": "Alice"},
	})

	code, body := call(t, app(), func(r *fiberRequest) { r.header("Authorization", "Bearer "+tok) })
	is.Equal(code, fiber.StatusOK)
	is.Equal(body, id.String()+"|a@example.com|Alice")

	code, _ = call(t, app(), func(r *fiberRequest) { r.cookie("sb-access-token", tok) })
	is.Equal(code, fiber.StatusOK)
}

func TestAuthJWTRejects(t *testing.T) {
	id := uuid.New().String()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		setup func(r *fiberRequest)
	}{
		{"no token", func(r *fiberRequest) {}},
		{"wrong scheme", func(r *fiberRequest) {
			r.header("Authorization", "Basic "+sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": id, "exp": future}))
		}},
		{"wrong secret", func(r *fiberRequest) {
			r.header("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": id, "exp": future}))
		}},
		{"other hmac size", func(r *fiberRequest) {
			r.header("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": id, "exp": future}))
		}},
		{"expired", func(r *fiberRequest) {
			r.header("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": id, "exp": time.Now().Add(-time.Hour).Unix()}))
		}},
		{"no exp", func(r *fiberRequest) {
			r.header("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": id}))
		}},
		{"subject not a uuid", func(r *fiberRequest) {
			r.header("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "alice", "exp": future}))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			code, _ := call(t, app(), tt.setup)
			is.Equal(code, fiber.StatusUnauthorized)
		})
	}
}

func TestValidateTokenExpirySkew(t *testing.T) {
	is := is.New(t)
	now := time.Unix(1_700_000_000, 0)
	is.NoErr(validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 10)}, 30*time.Second, now))
	is.True(validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 31)}, 30*time.Second, now) != nil)
	is.NoErr(validateTokenExpiry(jwt.MapClaims{"exp": "1700000100"}, 0, now))
	is.True(validateTokenExpiry(jwt.MapClaims{"exp": true}, 0, now) != nil)
}
