package dto

// WhatsNewResponse is the catch-up summary for a user returning to a game.
type WhatsNewResponse struct {
	Summary    string `json:"summary"`
	PatchCount int    `json:"patch_count"`
	NewsCount  int    `json:"news_count"`
	FromCache  bool   `json:"from_cache"`
	Degraded   bool   `json:"degraded"`
}

// DigestResponse is a user's daily or weekly digest.
type DigestResponse struct {
	Content     string `json:"content"`
	SourceCount int    `json:"source_count"`
	FromCache   bool   `json:"from_cache"`
	Degraded    bool   `json:"degraded"`
}
