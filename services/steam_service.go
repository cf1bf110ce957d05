package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"steamCompareAPI/internal/types/achievement"
	"steamCompareAPI/internal/types/game"
	"steamCompareAPI/internal/types/profile"
)

const defaultSteamBaseURL = "http://api.steampowered.com"

// ErrNoAchievementData means the provider returned no usable achievement list
// for a (user, game) pair: private game details, unowned title, or a schema-less
// response. Callers decide whether that aborts the request.
var ErrNoAchievementData = errors.New("no achievement data available")

// ErrProfileNotFound means the player summaries call matched no account.
var ErrProfileNotFound = errors.New("steam profile not found")

// SteamService is the outbound client for the Steam Web API. All reads are
// per-request; nothing is cached.
type SteamService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewSteamService(apiKey string) *SteamService {
	return &SteamService{
		apiKey:  apiKey,
		baseURL: defaultSteamBaseURL,
		// Steam has no SLA; without a bound a dead upstream pins the request
		// forever.
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type playerSummariesResponse struct {
	Response struct {
		Players []struct {
			SteamID      string `json:"steamid"`
			PersonaName  string `json:"personaname"`
			Avatar       string `json:"avatar"`
			AvatarMedium string `json:"avatarmedium"`
			AvatarFull   string `json:"avatarfull"`
		} `json:"players"`
	} `json:"response"`
}

// GetPlayerSummary fetches one user's display profile. Avatar variants come
// back ordered by ascending resolution.
func (s *SteamService) GetPlayerSummary(ctx context.Context, steamID string) (*profile.Profile, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("steamids", steamID)

	var payload playerSummariesResponse
	if err := s.getJSON(ctx, "/ISteamUser/GetPlayerSummaries/v0002/", q, &payload); err != nil {
		return nil, err
	}
	if len(payload.Response.Players) == 0 {
		return nil, ErrProfileNotFound
	}

	p := payload.Response.Players[0]
	return &profile.Profile{
		SteamID:     p.SteamID,
		DisplayName: p.PersonaName,
		Avatars:     avatarVariants(p.Avatar, p.AvatarMedium, p.AvatarFull),
	}, nil
}

type friendListResponse struct {
	FriendsList struct {
		Friends []struct {
			SteamID string `json:"steamid"`
		} `json:"friends"`
	} `json:"friendslist"`
}

// GetFriends returns the user's friend list enriched with persona names and
// avatars. Two upstream calls: GetFriendList for the IDs, then a batched
// GetPlayerSummaries for display data. Order follows the summaries response.
func (s *SteamService) GetFriends(ctx context.Context, steamID string) ([]profile.Friend, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("steamid", steamID)
	q.Set("relationship", "friend")

	var list friendListResponse
	if err := s.getJSON(ctx, "/ISteamUser/GetFriendList/v0001/", q, &list); err != nil {
		return nil, err
	}
	if len(list.FriendsList.Friends) == 0 {
		return []profile.Friend{}, nil
	}

	ids := make([]string, 0, len(list.FriendsList.Friends))
	for _, f := range list.FriendsList.Friends {
		ids = append(ids, f.SteamID)
	}

	sq := url.Values{}
	sq.Set("key", s.apiKey)
	sq.Set("steamids", strings.Join(ids, ","))

	var summaries playerSummariesResponse
	if err := s.getJSON(ctx, "/ISteamUser/GetPlayerSummaries/v0002/", sq, &summaries); err != nil {
		return nil, err
	}

	friends := make([]profile.Friend, 0, len(summaries.Response.Players))
	for _, p := range summaries.Response.Players {
		variants := avatarVariants(p.Avatar, p.AvatarMedium, p.AvatarFull)
		avatar := ""
		if len(variants) > 0 {
			avatar = variants[len(variants)-1]
		}
		friends = append(friends, profile.Friend{
			SteamID:  p.SteamID,
			Username: p.PersonaName,
			Avatar:   avatar,
		})
	}
	return friends, nil
}

type ownedGamesResponse struct {
	Response struct {
		Games []struct {
			AppID int    `json:"appid"`
			Name  string `json:"name"`
		} `json:"games"`
	} `json:"response"`
}

// GetOwnedGames returns the user's library in Steam's order. A private library
// comes back as an empty response object, which normalizes to an empty slice.
func (s *SteamService) GetOwnedGames(ctx context.Context, steamID string) ([]game.Game, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("steamid", steamID)
	q.Set("include_appinfo", "1")
	q.Set("include_played_free_games", "1")

	var payload ownedGamesResponse
	if err := s.getJSON(ctx, "/IPlayerService/GetOwnedGames/v0001/", q, &payload); err != nil {
		return nil, err
	}

	games := make([]game.Game, 0, len(payload.Response.Games))
	for _, g := range payload.Response.Games {
		games = append(games, game.Game{AppID: g.AppID, Name: g.Name})
	}
	return games, nil
}

type gameSchemaResponse struct {
	Game struct {
		AvailableGameStats struct {
			Achievements []struct {
				Name string `json:"name"`
			} `json:"achievements"`
		} `json:"availableGameStats"`
	} `json:"game"`
}

// GetSchemaForGame returns the game-global achievement definitions. Titles
// without stats yield an empty schema, not an error.
func (s *SteamService) GetSchemaForGame(ctx context.Context, appID int) (*achievement.Schema, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("appid", strconv.Itoa(appID))

	var payload gameSchemaResponse
	if err := s.getJSON(ctx, "/ISteamUserStats/GetSchemaForGame/v2/", q, &payload); err != nil {
		return nil, err
	}

	schema := &achievement.Schema{AppID: appID}
	for _, a := range payload.Game.AvailableGameStats.Achievements {
		schema.Achievements = append(schema.Achievements, a.Name)
	}
	return schema, nil
}

type playerAchievementsResponse struct {
	PlayerStats struct {
		Success      bool `json:"success"`
		Achievements []struct {
			APIName  string `json:"apiname"`
			Achieved int    `json:"achieved"`
		} `json:"achievements"`
	} `json:"playerstats"`
}

// GetPlayerAchievements returns one user's raw per-achievement progress for a
// game. Missing data (private profile, unowned game) maps to
// ErrNoAchievementData.
func (s *SteamService) GetPlayerAchievements(ctx context.Context, steamID string, appID int) ([]achievement.PlayerAchievement, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("steamid", steamID)
	q.Set("appid", strconv.Itoa(appID))

	var payload playerAchievementsResponse
	err := s.getJSON(ctx, "/ISteamUserStats/GetPlayerAchievements/v1/", q, &payload)
	if err != nil {
		// Steam answers 400/403 here for private or unowned games.
		var se *steamError
		if errors.As(err, &se) && (se.status == http.StatusBadRequest || se.status == http.StatusForbidden) {
			return nil, ErrNoAchievementData
		}
		return nil, err
	}
	if payload.PlayerStats.Achievements == nil {
		return nil, ErrNoAchievementData
	}

	progress := make([]achievement.PlayerAchievement, 0, len(payload.PlayerStats.Achievements))
	for _, a := range payload.PlayerStats.Achievements {
		progress = append(progress, achievement.PlayerAchievement{
			APIName:  a.APIName,
			Achieved: a.Achieved == 1,
		})
	}
	return progress, nil
}

type steamError struct {
	path   string
	status int
}

func (e *steamError) Error() string {
	return fmt.Sprintf("steam api %s returned status %d", e.path, e.status)
}

func (s *SteamService) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("steam api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &steamError{path: path, status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("steam api %s: decode response: %w", path, err)
	}
	return nil
}

func avatarVariants(small, medium, full string) []string {
	variants := make([]string, 0, 3)
	for _, v := range []string{small, medium, full} {
		if v != "" {
			variants = append(variants, v)
		}
	}
	return variants
}
