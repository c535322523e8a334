package ai

import (
	"testing"
	"time"

	"patchpulse/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildPatchSummaryPromptDeterministic(t *testing.T) {
	s1, u1 := BuildPatchSummaryPrompt("Deep Rock", "Patch 1.2", "Fixed driller")
	s2, u2 := BuildPatchSummaryPrompt("Deep Rock", "Patch 1.2", "Fixed driller")

	assert.Equal(t, s1, s2)
	assert.Equal(t, u1, u2)
}

func TestBuildPatchSummaryPromptContainsInputsAndSchema(t *testing.T) {
	system, user := BuildPatchSummaryPrompt("Hades II", "The Olympic Update", "Zeus buffed.")

	assert.Contains(t, system, "Base everything strictly on the provided text")
	assert.Contains(t, user, "Hades II")
	assert.Contains(t, user, "The Olympic Update")
	assert.Contains(t, user, "Zeus buffed.")
	assert.Contains(t, user, "impact_score")
	assert.Contains(t, user, "change_tags")
	assert.Contains(t, user, "tldr")
}

func TestBuildNewsSummaryPromptFlagsRumors(t *testing.T) {
	system, user := BuildNewsSummaryPrompt("Elden Ring", "DLC rumored", "Sources say...")

	assert.Contains(t, system, "rumor")
	assert.Contains(t, user, "is_rumor")
	assert.Contains(t, user, "topics")
}

func TestBuildWhatsNewPromptIncludesSources(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, user := BuildWhatsNewPrompt("Factorio", since,
		[]string{"Patch: new rail planner"},
		[]string{"News: expansion dated"},
	)

	assert.Contains(t, user, "Factorio")
	assert.Contains(t, user, "new rail planner")
	assert.Contains(t, user, "expansion dated")
}

func TestBuildDigestPromptListsItems(t *testing.T) {
	_, user := BuildDigestPrompt("weekly", []string{"item one", "item two"})

	assert.Contains(t, user, "weekly")
	assert.Contains(t, user, "item one")
	assert.Contains(t, user, "item two")
}

func TestBuildSentimentPromptSchema(t *testing.T) {
	_, user := BuildSentimentPrompt("Overwatch 2", []string{"Patch nerfed tanks"})

	assert.Contains(t, user, "Overwatch 2")
	assert.Contains(t, user, "level")
	assert.Contains(t, user, "trend")
}

func TestBuildReturnMatchPromptCarriesBacklogContext(t *testing.T) {
	_, user := BuildReturnMatchPrompt("Stellaris", "paused", "burned out on micromanagement", "Patch automates sectors")

	assert.Contains(t, user, "paused")
	assert.Contains(t, user, "burned out on micromanagement")
	assert.Contains(t, user, "Patch automates sectors")
	assert.Contains(t, user, "confidence")
}

func TestBuildSimilarityPromptNamesBothGames(t *testing.T) {
	a := &entity.Game{Name: "Slay the Spire", Genres: []string{"roguelike", "deckbuilder"}}
	b := &entity.Game{Name: "Monster Train", Genres: []string{"deckbuilder"}}

	_, user := BuildSimilarityPrompt(a, b)

	assert.Contains(t, user, "Slay the Spire")
	assert.Contains(t, user, "Monster Train")
	assert.Contains(t, user, "deckbuilder")
}

func TestBuildNotificationPromptBounds(t *testing.T) {
	_, user := BuildNotificationPrompt("Valheim", "Ashlands update", "New biome with siege weapons")

	assert.Contains(t, user, "Valheim")
	assert.Contains(t, user, "Ashlands update")
	assert.Contains(t, user, "title")
	assert.Contains(t, user, "body")
}
