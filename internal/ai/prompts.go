package ai

import (
	"fmt"
	"strings"
	"time"

	"patchpulse/internal/entity"
)

// Prompt builders are pure functions: same inputs, same (system, user) pair.
// Every template pins the JSON schema the caller unmarshals into and forbids
// inventing information not present in the source text.

const noFabricationRule = "Base everything strictly on the provided text. Do not invent changes, dates, numbers, or names that are not present in the source."

// BuildPatchSummaryPrompt builds the prompt for summarizing a patch note.
func BuildPatchSummaryPrompt(gameName, title, rawText string) (string, string) {
	system := "You are a gaming patch-note analyst. You turn raw patch notes into short, accurate summaries for players deciding whether an update matters to them. " + noFabricationRule

	user := fmt.Sprintf(`Game: %s
Patch title: %s

Patch notes:
%s

Summarize this patch. Output JSON with this exact structure:
{
  "summary": "<max %d characters, plain language>",
  "tldr": "<one sentence, max %d characters>",
  "change_tags": ["<up to %d of: %s>"],
  "impact_score": <float %.0f-%.0f, how much this changes the game>,
  "priority": <int %d-%d, how urgently players should read this>,
  "buffs": <int, count of distinct buffs in the notes>,
  "nerfs": <int, count of distinct nerfs in the notes>,
  "new_systems": <int, count of genuinely new systems or modes>
}`,
		gameName, title, rawText,
		MaxSummaryLen, MaxTLDRLen, MaxTags, strings.Join(AllowedChangeTags, " | "),
		MinImpactScore, MaxImpactScore, MinPriority, MaxPriority)

	return system, user
}

// BuildNewsSummaryPrompt builds the prompt for summarizing a news item.
func BuildNewsSummaryPrompt(gameName, title, rawText string) (string, string) {
	system := "You are a gaming news editor. You compress articles into short factual summaries and you are careful to label unconfirmed reports as rumors. " + noFabricationRule

	scope := "general gaming news"
	if gameName != "" {
		scope = fmt.Sprintf("news about %s", gameName)
	}

	user := fmt.Sprintf(`This is %s.
Headline: %s

Article:
%s

Summarize it. Output JSON with this exact structure:
{
  "summary": "<max %d characters>",
  "topics": ["<up to %d of: %s>"],
  "impact_score": <float %.0f-%.0f>,
  "priority": <int %d-%d>,
  "is_rumor": <true only if the article itself presents this as unconfirmed>
}`,
		scope, title, rawText,
		MaxSummaryLen, MaxTags, strings.Join(AllowedTopics, " | "),
		MinImpactScore, MaxImpactScore, MinPriority, MaxPriority)

	return system, user
}

// BuildWhatsNewPrompt builds the prompt for the "what's new since you last
// played" summary from already-enriched patch and news summaries.
func BuildWhatsNewPrompt(gameName string, since time.Time, patchSummaries, newsSummaries []string) (string, string) {
	system := "You write short welcome-back briefings for players returning to a game after a break. Be enthusiastic but factual. " + noFabricationRule

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Game: %s\nPlayer last played: %s\n\n", gameName, since.Format("2006-01-02")))
	if len(patchSummaries) > 0 {
		sb.WriteString("Patches since then:\n")
		for i, s := range patchSummaries {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		sb.WriteString("\n")
	}
	if len(newsSummaries) > 0 {
		sb.WriteString("News since then:\n")
		for i, s := range newsSummaries {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf(`Write a single briefing of what changed while they were away. Output JSON:
{
  "summary": "<max %d characters, second person, e.g. 'Since you last played...'>"
}`, MaxSummaryLen))

	return system, sb.String()
}

// BuildDigestPrompt builds the prompt for a user's daily or weekly digest
// across their followed games.
func BuildDigestPrompt(digestType string, items []string) (string, string) {
	system := "You compile concise gaming digests. Group related items, lead with the most impactful, and keep it scannable. " + noFabricationRule

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compile a %s digest from these items:\n\n", digestType))
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
	sb.WriteString(fmt.Sprintf(`
Output JSON:
{
  "content": "<max %d characters>"
}`, MaxSummaryLen))

	return system, sb.String()
}

// BuildSentimentPrompt builds the prompt for analyzing community sentiment of
// a game from its recent enriched content.
func BuildSentimentPrompt(gameName string, recentItems []string) (string, string) {
	system := "You are a community-sentiment analyst for games. You judge how the player base is likely feeling based only on recent patches and coverage. " + noFabricationRule

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Game: %s\nRecent patches and news:\n\n", gameName))
	for i, item := range recentItems {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
	sb.WriteString(fmt.Sprintf(`
Assess current community sentiment. Output JSON:
{
  "level": "very_negative | negative | neutral | positive | very_positive",
  "score": <float %.0f to %.0f>,
  "trend": "improving | stable | declining",
  "positive_factors": ["<up to %d short phrases>"],
  "negative_factors": ["<up to %d short phrases>"]
}`, MinSentimentScore, MaxSentimentScore, MaxFactors, MaxFactors))

	return system, sb.String()
}

// BuildReturnMatchPrompt builds the prompt that judges whether a patch
// addresses the reason a player shelved a game.
func BuildReturnMatchPrompt(gameName, backlogStatus, backlogNotes, patchSummary string) (string, string) {
	system := "You decide whether a game update is a good reason for a specific player to return to a game they set aside. Be conservative: only high confidence when the patch clearly addresses why they stopped. " + noFabricationRule

	notes := backlogNotes
	if notes == "" {
		notes = "(no notes left)"
	}
	user := fmt.Sprintf(`Game: %s
Player's backlog status: %s
Player's notes on why they stopped: %s

Latest patch summary:
%s

Should this player come back for this patch? Output JSON:
{
  "match_reason": "<max %d characters, addressed to the player>",
  "confidence": <float 0.0-1.0>
}`, gameName, backlogStatus, notes, patchSummary, MaxReasonLen)

	return system, user
}

// BuildSimilarityPrompt builds the prompt that scores how similar two games
// are for recommendation purposes.
func BuildSimilarityPrompt(a, b *entity.Game) (string, string) {
	system := "You judge how similar two games are for the purpose of recommending one to followers of the other. " + noFabricationRule

	user := fmt.Sprintf(`Game A: %s (developer: %s, genres: %s)
Game B: %s (developer: %s, genres: %s)

How similar are they? Output JSON:
{
  "score": <float 0.0-1.0>,
  "reason": "<max %d characters>"
}`,
		a.Name, a.Developer, strings.Join(a.Genres, ", "),
		b.Name, b.Developer, strings.Join(b.Genres, ", "),
		MaxReasonLen)

	return system, user
}

// BuildNotificationPrompt builds the prompt for push-notification copy about
// a newly enriched piece of content.
func BuildNotificationPrompt(gameName, contentTitle, summary string) (string, string) {
	system := "You write push-notification copy for a gaming news app. Short, specific, no clickbait. " + noFabricationRule

	user := fmt.Sprintf(`Game: %s
Content title: %s
Summary: %s

Write the notification. Output JSON:
{
  "title": "<max %d characters>",
  "body": "<max %d characters>"
}`, gameName, contentTitle, summary, MaxNotifTitleLen, MaxNotifBodyLen)

	return system, user
}
