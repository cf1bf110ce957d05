package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"steamCompareAPI/internal/openid"
	"steamCompareAPI/internal/session"
	"steamCompareAPI/services"
)

type AuthHandler struct {
	openID   *openid.Client
	sessions *session.Manager
	steam    *services.SteamService
}

func NewAuthHandler(openID *openid.Client, sessions *session.Manager, steam *services.SteamService) *AuthHandler {
	return &AuthHandler{
		openID:   openID,
		sessions: sessions,
		steam:    steam,
	}
}

// Login sends the browser to the Steam OpenID endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.openID.AuthURL(), http.StatusSeeOther)
}

// LoginReturn handles the provider callback. This is a browser flow, so every
// failure degrades to "not logged in" — redirect home, never an error page.
func (h *AuthHandler) LoginReturn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	steamID, err := h.openID.Verify(ctx, r.URL.Query())
	if err != nil {
		log.Printf("LoginReturn: openid verification failed: %v", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	profile, err := h.steam.GetPlayerSummary(ctx, steamID)
	if err != nil {
		log.Printf("LoginReturn: could not fetch profile for %s: %v", steamID, err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.sessions.Create(w, r, profile); err != nil {
		log.Printf("LoginReturn: could not create session: %v", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout clears the session and sends the browser home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		log.Printf("Logout: could not destroy session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
