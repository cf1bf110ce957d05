package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"steamCompareAPI/internal/types/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		SteamID:     "76561197960435530",
		DisplayName: "gaben",
		Avatars: []string{
			"https://avatars.example/small.jpg",
			"https://avatars.example/medium.jpg",
			"https://avatars.example/full.jpg",
		},
	}
}

func TestProfileCodecRoundTrip(t *testing.T) {
	record, err := EncodeProfile(testProfile())
	if err != nil {
		t.Fatalf("EncodeProfile: %v", err)
	}

	got, err := DecodeProfile(record)
	if err != nil {
		t.Fatalf("DecodeProfile: %v", err)
	}
	if got.SteamID != "76561197960435530" || got.DisplayName != "gaben" {
		t.Errorf("round trip mangled profile: %+v", got)
	}
	if got.Avatar() != "https://avatars.example/full.jpg" {
		t.Errorf("Avatar() = %q, want the last variant", got.Avatar())
	}
}

func TestEncodeProfileRejectsEmptySteamID(t *testing.T) {
	if _, err := EncodeProfile(&profile.Profile{DisplayName: "nobody"}); err == nil {
		t.Fatal("expected an error for a profile without a steam id")
	}
}

func TestDecodeProfileRejectsGarbage(t *testing.T) {
	if _, err := DecodeProfile("{not json"); err == nil {
		t.Fatal("expected an error for a malformed record")
	}
}

func TestCreateThenGet(t *testing.T) {
	m := NewManager("test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/login/return", nil)
	if err := m.Create(rec, req, testProfile()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Create set no cookie")
	}

	next := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	p, ok := m.Get(next)
	if !ok {
		t.Fatal("Get found no session on the follow-up request")
	}
	if p.SteamID != "76561197960435530" {
		t.Errorf("got steam id %q", p.SteamID)
	}
}

func TestGetWithoutCookie(t *testing.T) {
	m := NewManager("test-secret")
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)

	if _, ok := m.Get(req); ok {
		t.Fatal("Get reported a session for a cookieless request")
	}
}

func TestDestroyExpiresCookie(t *testing.T) {
	m := NewManager("test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	if err := m.Destroy(rec, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Destroy set no cookie")
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1", cookies[0].MaxAge)
	}
}
