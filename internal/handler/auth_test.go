package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/muhammadafham46/Business-Nexus/internal/handler/dto"
)

func TestAuth_RegisterSetsSessionCookie(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email":           "  Founder@Example.com ",
		"password":        "password123",
		"confirmPassword": "password123",
		"firstName":       "Alex",
		"lastName":        "Chen",
		"role":            "entrepreneur",
		"company":         "TechFlow AI",
		"industries":      []string{"AI", "SaaS"},
		"fundingNeed":     "$2M",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if strings.Contains(strings.ToLower(body), "password") {
		t.Errorf("response leaks password material: %s", body)
	}

	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly session cookie")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", cookie.SameSite)
	}
	if !strings.HasPrefix(cookie.Value, "nx_") {
		t.Errorf("unexpected token format %q", cookie.Value)
	}
	if cookie.MaxAge <= 0 {
		t.Errorf("expected positive MaxAge, got %d", cookie.MaxAge)
	}

	var env dto.UserEnvelope
	decode(t, rec, &env)
	if env.User.Email != "founder@example.com" {
		t.Errorf("expected normalized email, got %q", env.User.Email)
	}
	if env.User.Company == nil || *env.User.Company != "TechFlow AI" {
		t.Errorf("expected company to be stored, got %v", env.User.Company)
	}
	if len(env.User.Industries) != 2 {
		t.Errorf("expected 2 industries, got %v", env.User.Industries)
	}
}

func TestAuth_RegisterErrors(t *testing.T) {
	api := newTestAPI(t)
	api.register("taken@example.com", "investor")

	valid := func(mut func(m map[string]any)) map[string]any {
		m := map[string]any{
			"email":           "new@example.com",
			"password":        "password123",
			"confirmPassword": "password123",
			"firstName":       "New",
			"lastName":        "User",
			"role":            "investor",
		}
		mut(m)
		return m
	}

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"email":`, http.StatusBadRequest, "INVALID_JSON"},
		{"duplicate email", valid(func(m map[string]any) { m["email"] = "TAKEN@example.com" }), http.StatusConflict, "EMAIL_EXISTS"},
		{"bad email", valid(func(m map[string]any) { m["email"] = "not-an-email" }), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"short password", valid(func(m map[string]any) { m["password"], m["confirmPassword"] = "abc", "abc" }), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"password mismatch", valid(func(m map[string]any) { m["confirmPassword"] = "different" }), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown role", valid(func(m map[string]any) { m["role"] = "admin" }), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing first name", valid(func(m map[string]any) { m["firstName"] = " " }), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad website", valid(func(m map[string]any) { m["website"] = "ftp://example.com" }), http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/auth/register", tt.body, "")
			assertError(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	api := newTestAPI(t)
	api.register("investor@example.com", "investor")

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{"valid", "investor@example.com", "password123", http.StatusOK},
		{"case-insensitive email", "Investor@Example.COM", "password123", http.StatusOK},
		{"wrong password", "investor@example.com", "password124", http.StatusUnauthorized},
		{"unknown email", "ghost@example.com", "password123", http.StatusUnauthorized},
		{"empty password", "investor@example.com", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/auth/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			}, "")

			if tt.wantStatus != http.StatusOK {
				assertError(t, rec, tt.wantStatus, "INVALID_CREDENTIALS")
				if len(rec.Result().Cookies()) != 0 {
					t.Error("failed login must not set a cookie")
				}
				return
			}

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var env dto.UserEnvelope
			decode(t, rec, &env)
			if env.User.Email != "investor@example.com" {
				t.Errorf("unexpected user %q", env.User.Email)
			}
			sessionCookie(t, rec)
		})
	}

	snap := api.recorder.Snapshot()
	if snap.LoginsSucceeded != 2 || snap.LoginsFailed != 3 {
		t.Errorf("expected 2 successful and 3 failed logins, got %d/%d", snap.LoginsSucceeded, snap.LoginsFailed)
	}
}

func TestAuth_MeAndLogout(t *testing.T) {
	api := newTestAPI(t)
	m := api.register("me@example.com", "entrepreneur")

	rec := api.do(http.MethodGet, "/api/auth/me", nil, m.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env dto.UserEnvelope
	decode(t, rec, &env)
	if env.User.ID != m.ID {
		t.Errorf("expected user %d, got %d", m.ID, env.User.ID)
	}

	// Bearer tokens work for API clients
	anon := api.do(http.MethodGet, "/api/auth/me", nil, "")
	if anon.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", anon.Code)
	}
	bearer := newBearerRequest(http.MethodGet, "/api/auth/me", m.Token)
	rec = serve(api, bearer)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with bearer token, got %d", rec.Code)
	}

	rec = api.do(http.MethodPost, "/api/auth/logout", nil, m.Token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	cleared := sessionCookie(t, rec)
	if cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Errorf("expected cookie to be cleared, got %+v", cleared)
	}

	rec = api.do(http.MethodGet, "/api/auth/me", nil, m.Token)
	assertError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}
