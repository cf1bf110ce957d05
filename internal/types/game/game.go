package game

// Game is a single title in a user's Steam library.
type Game struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// IDSet indexes a list of games by app ID for membership tests.
func IDSet(games []Game) map[int]struct{} {
	set := make(map[int]struct{}, len(games))
	for _, g := range games {
		set[g.AppID] = struct{}{}
	}
	return set
}
