package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"steamCompareAPI/internal/types/game"
)

// fakeSteam is an in-memory stand-in for the Steam Web API, serving the same
// JSON shapes the real endpoints produce.
type fakeSteam struct {
	players map[string]fakePlayer
	friends map[string][]string // steamID -> friend steamIDs

	ownedGames map[string][]game.Game

	schemas      map[int][]string // appID -> achievement names
	schemaErrors map[int]bool     // appID -> respond 500

	// "steamID/appID" -> achieved flags; absent key -> 403 (private/unowned)
	achievements map[string][]int
}

type fakePlayer struct {
	name    string
	avatars [3]string
}

func progressKey(steamID string, appID int) string {
	return steamID + "/" + strconv.Itoa(appID)
}

func (f *fakeSteam) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") == "" {
			t.Errorf("request to %s carried no api key", r.URL.Path)
		}

		switch r.URL.Path {
		case "/ISteamUser/GetPlayerSummaries/v0002/":
			players := []map[string]string{}
			for _, id := range strings.Split(q.Get("steamids"), ",") {
				p, ok := f.players[id]
				if !ok {
					continue
				}
				players = append(players, map[string]string{
					"steamid":      id,
					"personaname":  p.name,
					"avatar":       p.avatars[0],
					"avatarmedium": p.avatars[1],
					"avatarfull":   p.avatars[2],
				})
			}
			writeJSON(w, map[string]interface{}{"response": map[string]interface{}{"players": players}})

		case "/ISteamUser/GetFriendList/v0001/":
			entries := []map[string]string{}
			for _, id := range f.friends[q.Get("steamid")] {
				entries = append(entries, map[string]string{"steamid": id, "relationship": "friend"})
			}
			writeJSON(w, map[string]interface{}{"friendslist": map[string]interface{}{"friends": entries}})

		case "/IPlayerService/GetOwnedGames/v0001/":
			games, ok := f.ownedGames[q.Get("steamid")]
			if !ok {
				// Private library: Steam answers with an empty response object.
				writeJSON(w, map[string]interface{}{"response": map[string]interface{}{}})
				return
			}
			writeJSON(w, map[string]interface{}{"response": map[string]interface{}{
				"game_count": len(games),
				"games":      games,
			}})

		case "/ISteamUserStats/GetSchemaForGame/v2/":
			appID, _ := strconv.Atoi(q.Get("appid"))
			if f.schemaErrors[appID] {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			defs := []map[string]string{}
			for _, name := range f.schemas[appID] {
				defs = append(defs, map[string]string{"name": name})
			}
			writeJSON(w, map[string]interface{}{"game": map[string]interface{}{
				"availableGameStats": map[string]interface{}{"achievements": defs},
			}})

		case "/ISteamUserStats/GetPlayerAchievements/v1/":
			appID, _ := strconv.Atoi(q.Get("appid"))
			flags, ok := f.achievements[progressKey(q.Get("steamid"), appID)]
			if !ok {
				w.WriteHeader(http.StatusForbidden)
				writeJSON(w, map[string]interface{}{"playerstats": map[string]interface{}{
					"success": false,
					"error":   "Profile is not public",
				}})
				return
			}
			entries := make([]map[string]interface{}, 0, len(flags))
			for i, achieved := range flags {
				entries = append(entries, map[string]interface{}{
					"apiname":  fmt.Sprintf("ACH_%d", i),
					"achieved": achieved,
				})
			}
			writeJSON(w, map[string]interface{}{"playerstats": map[string]interface{}{
				"success":      true,
				"achievements": entries,
			}})

		default:
			t.Errorf("unexpected steam api path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// newTestServices starts the fake provider and returns services wired to it.
func newTestServices(t *testing.T, fake *fakeSteam) (*SteamService, *CompareService) {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	steam := NewSteamService("test-key")
	steam.baseURL = srv.URL
	return steam, NewCompareService(steam)
}

// unlockedFlags builds an achieved-flag list with the first n entries set.
func unlockedFlags(total, unlocked int) []int {
	flags := make([]int, total)
	for i := 0; i < unlocked; i++ {
		flags[i] = 1
	}
	return flags
}
