package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "savora/internal/errors"
	"savora/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokenService struct {
	resolveFn func(key string) (*models.User, error)
}

func (s *stubTokenService) Issue(_, _ string) (string, error) { return "", nil }

func (s *stubTokenService) Resolve(key string) (*models.User, error) {
	return s.resolveFn(key)
}

func setupAuthRouter(tokens *stubTokenService) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid_token", func(t *testing.T) {
		var resolvedKey string
		tokens := &stubTokenService{
			resolveFn: func(key string) (*models.User, error) {
				resolvedKey = key
				return &models.User{Base: models.Base{ID: 42}, Email: "auth@example.com"}, nil
			},
		}
		r := setupAuthRouter(tokens)

		rec := doAuthRequest(r, "Bearer goodkey")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if resolvedKey != "goodkey" {
			t.Errorf("expected key goodkey resolved, got %q", resolvedKey)
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		tokens := &stubTokenService{
			resolveFn: func(_ string) (*models.User, error) {
				t.Fatal("Resolve should not be called without a header")
				return nil, nil
			},
		}
		r := setupAuthRouter(tokens)

		rec := doAuthRequest(r, "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		tokens := &stubTokenService{
			resolveFn: func(_ string) (*models.User, error) {
				t.Fatal("Resolve should not be called for a malformed header")
				return nil, nil
			},
		}
		r := setupAuthRouter(tokens)

		for _, header := range []string{"goodkey", "Token goodkey", "Bearer"} {
			rec := doAuthRequest(r, header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("header %q: expected 401, got %d", header, rec.Code)
			}
		}
	})

	t.Run("unresolvable_token", func(t *testing.T) {
		tokens := &stubTokenService{
			resolveFn: func(_ string) (*models.User, error) {
				return nil, apperrors.ErrUnauthorized
			},
		}
		r := setupAuthRouter(tokens)

		rec := doAuthRequest(r, "Bearer badkey")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("sets_user_on_context", func(t *testing.T) {
		tokens := &stubTokenService{
			resolveFn: func(_ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: 42}, Email: "auth@example.com"}, nil
			},
		}
		r := gin.New()
		r.Use(AuthMiddleware(tokens))
		var gotID interface{}
		var gotEmail interface{}
		r.GET("/test", func(c *gin.Context) {
			gotID, _ = c.Get("userID")
			gotEmail, _ = c.Get("email")
			c.Status(http.StatusOK)
		})

		rec := doAuthRequest(r, "Bearer goodkey")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != uint(42) {
			t.Errorf("expected userID 42 on context, got %v", gotID)
		}
		if gotEmail != "auth@example.com" {
			t.Errorf("expected email on context, got %v", gotEmail)
		}
	})
}
