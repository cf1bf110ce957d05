package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"steamCompareAPI/internal/types/profile"
)

const (
	cookieName = "steam_compare_session"

	idKey      = "sid"
	profileKey = "profile"
)

// Manager wraps the cookie store and owns the profile <-> session record
// encoding. Sessions live only in the signed browser cookie; nothing is
// persisted server-side.
type Manager struct {
	store *sessions.CookieStore
}

func NewManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// Create attaches a fresh session for the given profile to the response.
func (m *Manager) Create(w http.ResponseWriter, r *http.Request, p *profile.Profile) error {
	record, err := EncodeProfile(p)
	if err != nil {
		return err
	}

	sess, _ := m.store.Get(r, cookieName)
	sess.Values[idKey] = uuid.NewString()
	sess.Values[profileKey] = record
	return sess.Save(r, w)
}

// Get returns the profile stored in the request's session, if any.
func (m *Manager) Get(r *http.Request) (*profile.Profile, bool) {
	sess, err := m.store.Get(r, cookieName)
	if err != nil {
		return nil, false
	}

	record, ok := sess.Values[profileKey].(string)
	if !ok {
		return nil, false
	}
	p, err := DecodeProfile(record)
	if err != nil {
		return nil, false
	}
	return p, true
}

// Destroy expires the session cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, cookieName)
	sess.Options.MaxAge = -1
	sess.Values = make(map[interface{}]interface{})
	return sess.Save(r, w)
}

// EncodeProfile serializes a profile into the string stored in the cookie.
func EncodeProfile(p *profile.Profile) (string, error) {
	if p == nil || p.SteamID == "" {
		return "", fmt.Errorf("session: profile must carry a steam id")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("session: encode profile: %w", err)
	}
	return string(raw), nil
}

// DecodeProfile is the inverse of EncodeProfile.
func DecodeProfile(record string) (*profile.Profile, error) {
	var p profile.Profile
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return nil, fmt.Errorf("session: decode profile: %w", err)
	}
	if p.SteamID == "" {
		return nil, fmt.Errorf("session: record has no steam id")
	}
	return &p, nil
}
