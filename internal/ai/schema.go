package ai

// Structured output schemas for every enrichment task. Each type mirrors the
// JSON schema pinned in the corresponding prompt; Sanitize must be called on
// every instance before persistence, since the model output is untrusted.

// PatchSummarySchema is the expected JSON structure for a patch summary.
type PatchSummarySchema struct {
	Summary     string   `json:"summary"`
	TLDR        string   `json:"tldr"`
	ChangeTags  []string `json:"change_tags"`
	ImpactScore float64  `json:"impact_score"`
	Priority    int      `json:"priority"`
	Buffs       int      `json:"buffs"`
	Nerfs       int      `json:"nerfs"`
	NewSystems  int      `json:"new_systems"`
}

// NewsSummarySchema is the expected JSON structure for a news summary.
// A missing is_rumor field defaults to false.
type NewsSummarySchema struct {
	Summary     string   `json:"summary"`
	Topics      []string `json:"topics"`
	ImpactScore float64  `json:"impact_score"`
	Priority    int      `json:"priority"`
	IsRumor     bool     `json:"is_rumor"`
}

// SentimentSchema is the expected JSON structure for sentiment analysis.
type SentimentSchema struct {
	Level           string   `json:"level"`
	Score           float64  `json:"score"`
	Trend           string   `json:"trend"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

// WhatsNewSchema is the expected JSON structure for a what's-new summary.
type WhatsNewSchema struct {
	Summary string `json:"summary"`
}

// DigestSchema is the expected JSON structure for a daily/weekly digest.
type DigestSchema struct {
	Content string `json:"content"`
}

// ReturnMatchSchema is the expected JSON structure for a return-to-game match.
type ReturnMatchSchema struct {
	MatchReason string  `json:"match_reason"`
	Confidence  float64 `json:"confidence"`
}

// SimilaritySchema is the expected JSON structure for a game-similarity judgement.
type SimilaritySchema struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// NotificationSchema is the expected JSON structure for notification copy.
type NotificationSchema struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
