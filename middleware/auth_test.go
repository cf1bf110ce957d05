package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"steamCompareAPI/internal/session"
	"steamCompareAPI/internal/types/profile"
)

func init() {
	// The gate increments the redirect counter; metrics must exist.
	InitPrometheus()
}

func TestSessionAuthRedirectsAnonymous(t *testing.T) {
	sm := session.NewManager("test-secret")

	called := false
	gate := SessionAuth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))

	if called {
		t.Fatal("handler ran for an unauthenticated request")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "application/json" {
		t.Error("redirect must not carry a JSON body")
	}
}

func TestSessionAuthPassesProfileThrough(t *testing.T) {
	sm := session.NewManager("test-secret")

	login := httptest.NewRecorder()
	err := sm.Create(login, httptest.NewRequest(http.MethodGet, "/", nil), &profile.Profile{
		SteamID:     "76561197960435530",
		DisplayName: "gaben",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}

	gate := SessionAuth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		steamID, ok := GetSteamID(r.Context())
		if !ok || steamID != "76561197960435530" {
			t.Errorf("GetSteamID = %q, %v", steamID, ok)
		}
		p, ok := GetProfile(r.Context())
		if !ok || p.DisplayName != "gaben" {
			t.Errorf("GetProfile = %+v, %v", p, ok)
		}
	}))

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
