package achievement

// Schema is the game-global achievement definition list for one title.
// It is per-game, never per-user.
type Schema struct {
	AppID        int      `json:"appid"`
	Achievements []string `json:"achievements"`
}

// HasAchievements reports whether the title defines at least one achievement.
func (s *Schema) HasAchievements() bool {
	return len(s.Achievements) > 0
}

// PlayerAchievement is one raw progress entry for a (user, game) pair.
type PlayerAchievement struct {
	APIName  string `json:"apiname"`
	Achieved bool   `json:"achieved"`
}

// Progress is one side of a comparison: how many achievements a user has
// unlocked and what share of the total that is.
type Progress struct {
	Unlocked   int `json:"unlocked"`
	Percentage int `json:"percentage"`
}

// Comparison is the two-sided result for a single game. Total is taken from
// the authenticated user's achievement list.
type Comparison struct {
	Total  int      `json:"total"`
	User   Progress `json:"user"`
	Friend Progress `json:"friend"`
}
