package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"steamCompareAPI/internal/types/achievement"
	"steamCompareAPI/internal/types/game"
)

var (
	// ErrUserAchievementsUnavailable: the authenticated user's progress for the
	// game could not be fetched (private details or unowned title).
	ErrUserAchievementsUnavailable = errors.New("could not fetch your achievements")

	// ErrFriendAchievementsUnavailable: same condition on the friend's side.
	ErrFriendAchievementsUnavailable = errors.New("could not fetch your friend's achievements")

	// ErrNoAchievements: the game defines zero achievements, so percentages
	// are undefined.
	ErrNoAchievements = errors.New("this game has no achievements")
)

// CompareService computes library intersections and two-sided achievement
// comparisons on top of the Steam client.
type CompareService struct {
	steam *SteamService
}

func NewCompareService(steam *SteamService) *CompareService {
	return &CompareService{steam: steam}
}

// schemaProbe is the explicit outcome of one per-game schema lookup during
// common-games discovery. Failed probes are kept, inspected, and then dropped
// in one visible place instead of vanishing inside the loop.
type schemaProbe struct {
	game            game.Game
	hasAchievements bool
	err             error
}

// FindCommonAchievableGames intersects both users' libraries and keeps the
// titles that define at least one achievement. Result order follows the
// authenticated user's library order.
//
// A schema lookup failing for one title excludes that title only; the call as
// a whole still succeeds. An owned-games fetch failing aborts everything —
// without both libraries there is no intersection to speak of.
func (s *CompareService) FindCommonAchievableGames(ctx context.Context, steamID, friendID string) ([]game.Game, error) {
	userGames, err := s.steam.GetOwnedGames(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("fetch own library: %w", err)
	}
	friendGames, err := s.steam.GetOwnedGames(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("fetch friend library: %w", err)
	}

	friendOwned := game.IDSet(friendGames)
	common := make([]game.Game, 0)
	for _, g := range userGames {
		if _, ok := friendOwned[g.AppID]; ok {
			common = append(common, g)
		}
	}

	probes := make([]schemaProbe, 0, len(common))
	for _, g := range common {
		schema, err := s.steam.GetSchemaForGame(ctx, g.AppID)
		if err != nil {
			probes = append(probes, schemaProbe{game: g, err: err})
			continue
		}
		probes = append(probes, schemaProbe{game: g, hasAchievements: schema.HasAchievements()})
	}

	achievable := make([]game.Game, 0, len(probes))
	for _, p := range probes {
		if p.err != nil {
			log.Printf("CompareService: skipping %s (%d): %v", p.game.Name, p.game.AppID, p.err)
			continue
		}
		if p.hasAchievements {
			achievable = append(achievable, p.game)
		}
	}
	return achievable, nil
}

// CompareAchievements fetches both users' progress for one game and reduces it
// to unlocked counts and rounded percentages. Unlike common-games discovery,
// a missing side here fails the whole call: a one-sided comparison is
// meaningless, and the error says whose data was missing.
//
// Total is the authenticated user's achievement count. The schema is
// game-global, so both lists should be the same length; no cross-check is
// done when they are not.
func (s *CompareService) CompareAchievements(ctx context.Context, steamID, friendID string, appID int) (*achievement.Comparison, error) {
	userProgress, err := s.steam.GetPlayerAchievements(ctx, steamID, appID)
	if err != nil {
		if errors.Is(err, ErrNoAchievementData) {
			return nil, ErrUserAchievementsUnavailable
		}
		return nil, fmt.Errorf("fetch own achievements: %w", err)
	}

	friendProgress, err := s.steam.GetPlayerAchievements(ctx, friendID, appID)
	if err != nil {
		if errors.Is(err, ErrNoAchievementData) {
			return nil, ErrFriendAchievementsUnavailable
		}
		return nil, fmt.Errorf("fetch friend achievements: %w", err)
	}

	total := len(userProgress)
	if total == 0 {
		return nil, ErrNoAchievements
	}

	return &achievement.Comparison{
		Total:  total,
		User:   progressFor(userProgress, total),
		Friend: progressFor(friendProgress, total),
	}, nil
}

func progressFor(list []achievement.PlayerAchievement, total int) achievement.Progress {
	unlocked := 0
	for _, a := range list {
		if a.Achieved {
			unlocked++
		}
	}
	return achievement.Progress{
		Unlocked:   unlocked,
		Percentage: int(math.Round(float64(unlocked) / float64(total) * 100)),
	}
}
