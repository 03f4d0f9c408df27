package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthenticationRequired(t *testing.T) {
	app := setupApp(t)

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/users/me"},
		{"PATCH", "/users/me"},
		{"GET", "/recipe/tags"},
		{"POST", "/recipe/tags"},
		{"GET", "/recipe/ingredients"},
		{"POST", "/recipe/ingredients"},
		{"GET", "/recipe/recipes"},
		{"POST", "/recipe/recipes"},
		{"GET", "/recipe/recipes/1"},
		{"PATCH", "/recipe/recipes/1"},
		{"PUT", "/recipe/recipes/1"},
		{"DELETE", "/recipe/recipes/1"},
		{"POST", "/recipe/recipes/1/upload-image"},
	}

	for _, route := range protected {
		t.Run(route.method+"_"+route.path, func(t *testing.T) {
			rec := app.request(route.method, route.path, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 without token, got %d", rec.Code)
			}
		})
	}
}

func TestInvalidTokens(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "victim@example.com", "password123")

	t.Run("garbage_token", func(t *testing.T) {
		rec := app.request("GET", "/users/me", "", "notarealtoken")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong_scheme", func(t *testing.T) {
		token := app.tokenFor(t, "victim@example.com", "password123")

		rec := app.request("GET", "/users/me", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("sanity check failed: %d", rec.Code)
		}

		// Same token behind a non-Bearer scheme is rejected
		req := httptest.NewRequest("GET", "/users/me", nil)
		req.Header.Set("Authorization", "Token "+token)
		rec = httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for non-Bearer scheme, got %d", rec.Code)
		}
	})

	t.Run("deactivated_user_token_rejected", func(t *testing.T) {
		token := app.tokenFor(t, "victim@example.com", "password123")
		app.DB.Exec("UPDATE users SET is_active = ? WHERE email = ?", false, "victim@example.com")

		rec := app.request("GET", "/users/me", "", token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for deactivated user, got %d", rec.Code)
		}
	})
}
