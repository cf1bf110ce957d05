package profile

// Profile is the identity the Steam OpenID handshake hands back: the stable
// 64-bit Steam ID plus display data. Avatars are ordered by ascending
// resolution, so the last entry is the largest one Steam offers.
type Profile struct {
	SteamID     string   `json:"steamid"`
	DisplayName string   `json:"username"`
	Avatars     []string `json:"avatars"`
}

// Avatar returns the highest-resolution avatar URL, or "" when Steam sent none.
func (p *Profile) Avatar() string {
	if len(p.Avatars) == 0 {
		return ""
	}
	return p.Avatars[len(p.Avatars)-1]
}

// Friend is one entry of a user's friend list, already enriched with the
// friend's persona name and avatar.
type Friend struct {
	SteamID  string `json:"steamid"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
