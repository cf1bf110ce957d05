package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"steamCompareAPI/middleware"
	"steamCompareAPI/services"
)

type SteamHandler struct {
	steam   *services.SteamService
	compare *services.CompareService
}

func NewSteamHandler(steam *services.SteamService, compare *services.CompareService) *SteamHandler {
	return &SteamHandler{
		steam:   steam,
		compare: compare,
	}
}

func (h *SteamHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.GetProfile(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"username": profile.DisplayName,
		"steamid":  profile.SteamID,
		"avatar":   profile.Avatar(),
	})
}

func (h *SteamHandler) Friends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	steamID, ok := middleware.GetSteamID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	friends, err := h.steam.GetFriends(ctx, steamID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get friends")
		return
	}

	respondWithJSON(w, http.StatusOK, friends)
}

func (h *SteamHandler) Games(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	steamID, ok := middleware.GetSteamID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	games, err := h.steam.GetOwnedGames(ctx, steamID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get games")
		return
	}

	respondWithJSON(w, http.StatusOK, games)
}

func (h *SteamHandler) CommonGames(w http.ResponseWriter, r *http.Request) {
	// Discovery probes one schema per common game, so it gets a wider bound
	// than the single-call routes.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	steamID, ok := middleware.GetSteamID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	friendID := r.URL.Query().Get("friendId")
	if friendID == "" {
		respondWithError(w, http.StatusBadRequest, "Friend ID required")
		return
	}

	games, err := h.compare.FindCommonAchievableGames(ctx, steamID, friendID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get common games")
		return
	}

	respondWithJSON(w, http.StatusOK, games)
}

func (h *SteamHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	steamID, ok := middleware.GetSteamID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	friendID := r.URL.Query().Get("friendId")
	appIDParam := r.URL.Query().Get("appId")
	if friendID == "" || appIDParam == "" {
		respondWithError(w, http.StatusBadRequest, "Friend ID and App ID required")
		return
	}
	appID, err := strconv.Atoi(appIDParam)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "App ID must be numeric")
		return
	}

	comparison, err := h.compare.CompareAchievements(ctx, steamID, friendID, appID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAchievementsUnavailable):
			respondWithError(w, http.StatusBadRequest, "Could not fetch your achievements. Your game details may be private or you don't own this game")
		case errors.Is(err, services.ErrFriendAchievementsUnavailable):
			respondWithError(w, http.StatusBadRequest, "Could not fetch friend's achievements. Their game details may be private or your friend does not own this game.")
		case errors.Is(err, services.ErrNoAchievements):
			respondWithError(w, http.StatusBadRequest, "This game has no achievements.")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to get achievements")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, comparison)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
