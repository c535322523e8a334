package ai

import "strings"

// Documented output bounds. Everything the model returns is forced into these
// before it touches the database.
const (
	MaxSummaryLen     = 500
	MaxTLDRLen        = 280
	MaxTagLen         = 40
	MaxTags           = 5
	MaxFactors        = 5
	MaxReasonLen      = 300
	MaxNotifTitleLen  = 80
	MaxNotifBodyLen   = 200
	MinImpactScore    = 0.0
	MaxImpactScore    = 10.0
	MinPriority       = 1
	MaxPriority       = 5
	MinSentimentScore = -1.0
	MaxSentimentScore = 1.0
)

// AllowedChangeTags is the fixed tag vocabulary for patch summaries.
var AllowedChangeTags = []string{"balance", "bugfix", "new_content", "performance", "ui", "system", "event"}

// AllowedTopics is the fixed topic vocabulary for news summaries.
var AllowedTopics = []string{"release", "update", "dlc", "esports", "industry", "community", "rumor", "hardware"}

var allowedSentimentLevels = []string{"very_negative", "negative", "neutral", "positive", "very_positive"}
var allowedTrends = []string{"improving", "stable", "declining"}

// ClampFloat forces v into [min, max]. Idempotent.
func ClampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampInt forces v into [min, max]. Idempotent.
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max])
}

// restrictList keeps at most maxItems entries, each trimmed, truncated to
// maxItemLen and, when allowed is non-empty, restricted to that vocabulary.
func restrictList(items []string, maxItems, maxItemLen int, allowed []string) []string {
	out := make([]string, 0, maxItems)
	for _, item := range items {
		item = Truncate(item, maxItemLen)
		if item == "" {
			continue
		}
		if len(allowed) > 0 && !containsFold(allowed, item) {
			continue
		}
		out = append(out, strings.ToLower(item))
		if len(out) == maxItems {
			break
		}
	}
	return out
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func restrictEnum(v string, allowed []string, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if containsFold(allowed, v) {
		return v
	}
	return def
}

// Sanitize clamps every field of a patch summary into its documented bounds.
func (s *PatchSummarySchema) Sanitize() {
	s.Summary = Truncate(s.Summary, MaxSummaryLen)
	s.TLDR = Truncate(s.TLDR, MaxTLDRLen)
	s.ChangeTags = restrictList(s.ChangeTags, MaxTags, MaxTagLen, AllowedChangeTags)
	s.ImpactScore = ClampFloat(s.ImpactScore, MinImpactScore, MaxImpactScore)
	s.Priority = ClampInt(s.Priority, MinPriority, MaxPriority)
	s.Buffs = ClampInt(s.Buffs, 0, 1000)
	s.Nerfs = ClampInt(s.Nerfs, 0, 1000)
	s.NewSystems = ClampInt(s.NewSystems, 0, 100)
}

// Sanitize clamps every field of a news summary into its documented bounds.
func (s *NewsSummarySchema) Sanitize() {
	s.Summary = Truncate(s.Summary, MaxSummaryLen)
	s.Topics = restrictList(s.Topics, MaxTags, MaxTagLen, AllowedTopics)
	s.ImpactScore = ClampFloat(s.ImpactScore, MinImpactScore, MaxImpactScore)
	s.Priority = ClampInt(s.Priority, MinPriority, MaxPriority)
}

// Sanitize clamps every field of a sentiment result into its documented bounds.
func (s *SentimentSchema) Sanitize() {
	s.Level = restrictEnum(s.Level, allowedSentimentLevels, "neutral")
	s.Score = ClampFloat(s.Score, MinSentimentScore, MaxSentimentScore)
	s.Trend = restrictEnum(s.Trend, allowedTrends, "stable")
	s.PositiveFactors = restrictList(s.PositiveFactors, MaxFactors, MaxTagLen, nil)
	s.NegativeFactors = restrictList(s.NegativeFactors, MaxFactors, MaxTagLen, nil)
}

// Sanitize clamps a what's-new summary to its documented length.
func (s *WhatsNewSchema) Sanitize() {
	s.Summary = Truncate(s.Summary, MaxSummaryLen)
}

// Sanitize clamps a digest to its documented length.
func (s *DigestSchema) Sanitize() {
	s.Content = Truncate(s.Content, MaxSummaryLen)
}

// Sanitize clamps a return-match judgement into its documented bounds.
func (s *ReturnMatchSchema) Sanitize() {
	s.MatchReason = Truncate(s.MatchReason, MaxReasonLen)
	s.Confidence = ClampFloat(s.Confidence, 0, 1)
}

// Sanitize clamps a similarity judgement into its documented bounds.
func (s *SimilaritySchema) Sanitize() {
	s.Score = ClampFloat(s.Score, 0, 1)
	s.Reason = Truncate(s.Reason, MaxReasonLen)
}

// Sanitize clamps notification copy into its documented bounds.
func (s *NotificationSchema) Sanitize() {
	s.Title = Truncate(s.Title, MaxNotifTitleLen)
	s.Body = Truncate(s.Body, MaxNotifBodyLen)
}
