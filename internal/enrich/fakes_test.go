package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"patchpulse/internal/ai"
	"patchpulse/internal/entity"
	"patchpulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

// fakeAIClient returns a canned JSON response, or fails every call when err
// is set. Calls counts GenerateJSON invocations.
type fakeAIClient struct {
	response string
	err      error
	calls    int
}

func (c *fakeAIClient) GenerateCompletion(_ context.Context, _, _ string, _ ai.Options) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *fakeAIClient) GenerateJSON(_ context.Context, _, _ string, _ ai.Options, out any) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	return json.Unmarshal([]byte(c.response), out)
}

func (c *fakeAIClient) Embed(_ string) []float32 { return nil }

type fakePatchRepo struct {
	patches   map[uint]*entity.PatchNote
	summaries map[uint]*entity.PatchSummary
	sinceRows []entity.PatchNote

	findErr    error
	summaryErr error
	upsertErr  error
}

func newFakePatchRepo() *fakePatchRepo {
	return &fakePatchRepo{
		patches:   map[uint]*entity.PatchNote{},
		summaries: map[uint]*entity.PatchSummary{},
	}
}

func (r *fakePatchRepo) Create(_ context.Context, patch *entity.PatchNote) error {
	r.patches[patch.ID] = patch
	return nil
}

func (r *fakePatchRepo) FindByID(_ context.Context, id uint) (*entity.PatchNote, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.patches[id], nil
}

func (r *fakePatchRepo) FindByGameSince(_ context.Context, _ uint, _ time.Time) ([]entity.PatchNote, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.sinceRows, nil
}

func (r *fakePatchRepo) FindLatestEnriched(_ context.Context, _ uint, _ int) ([]entity.PatchNote, error) {
	return r.sinceRows, nil
}

func (r *fakePatchRepo) FindSummary(_ context.Context, patchNoteID uint) (*entity.PatchSummary, error) {
	if r.summaryErr != nil {
		return nil, r.summaryErr
	}
	return r.summaries[patchNoteID], nil
}

func (r *fakePatchRepo) UpsertSummary(_ context.Context, summary *entity.PatchSummary) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.summaries[summary.PatchNoteID] = summary
	return nil
}

type fakeNewsRepo struct {
	items     map[uint]*entity.NewsItem
	summaries map[uint]*entity.NewsSummary
	sinceRows []entity.NewsItem
	hashes    map[string]bool

	findErr   error
	upsertErr error
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{
		items:     map[uint]*entity.NewsItem{},
		summaries: map[uint]*entity.NewsSummary{},
		hashes:    map[string]bool{},
	}
}

func (r *fakeNewsRepo) Create(_ context.Context, item *entity.NewsItem) error {
	r.items[item.ID] = item
	r.hashes[item.HashIdentifier] = true
	return nil
}

func (r *fakeNewsRepo) FindByID(_ context.Context, id uint) (*entity.NewsItem, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.items[id], nil
}

func (r *fakeNewsRepo) FindByGameSince(_ context.Context, _ uint, _ time.Time) ([]entity.NewsItem, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.sinceRows, nil
}

func (r *fakeNewsRepo) ExistsByHash(_ context.Context, hash string) (bool, error) {
	return r.hashes[hash], nil
}

func (r *fakeNewsRepo) FindSummary(_ context.Context, newsItemID uint) (*entity.NewsSummary, error) {
	return r.summaries[newsItemID], nil
}

func (r *fakeNewsRepo) UpsertSummary(_ context.Context, summary *entity.NewsSummary) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.summaries[summary.NewsItemID] = summary
	return nil
}

type fakeGameRepo struct {
	games       map[uint]*entity.Game
	lastPatchAt map[uint]time.Time
}

func newFakeGameRepo(games ...*entity.Game) *fakeGameRepo {
	r := &fakeGameRepo{games: map[uint]*entity.Game{}, lastPatchAt: map[uint]time.Time{}}
	for _, g := range games {
		r.games[g.ID] = g
	}
	return r
}

func (r *fakeGameRepo) Create(_ context.Context, game *entity.Game) error {
	r.games[game.ID] = game
	return nil
}

func (r *fakeGameRepo) FindByID(_ context.Context, id uint) (*entity.Game, error) {
	return r.games[id], nil
}

func (r *fakeGameRepo) FindAll(_ context.Context) ([]entity.Game, error) {
	var out []entity.Game
	for _, g := range r.games {
		out = append(out, *g)
	}
	return out, nil
}

func (r *fakeGameRepo) FindWithFeeds(_ context.Context) ([]entity.Game, error) {
	var out []entity.Game
	for _, g := range r.games {
		if g.FeedURL != "" {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGameRepo) UpdateLastPatchAt(_ context.Context, gameID uint, at time.Time) error {
	r.lastPatchAt[gameID] = at
	return nil
}

type fakeWhatsNewCacheRepo struct {
	row     *entity.WhatsNewCache
	upserts []entity.WhatsNewCache
	findErr error
}

func (r *fakeWhatsNewCacheRepo) Find(_ context.Context, _, _ uint) (*entity.WhatsNewCache, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.row, nil
}

func (r *fakeWhatsNewCacheRepo) Upsert(_ context.Context, row *entity.WhatsNewCache) error {
	r.upserts = append(r.upserts, *row)
	r.row = row
	return nil
}

type fakeDigestCacheRepo struct {
	row     *entity.DigestCache
	upserts []entity.DigestCache
}

func (r *fakeDigestCacheRepo) Find(_ context.Context, _ uint, _, _ string) (*entity.DigestCache, error) {
	return r.row, nil
}

func (r *fakeDigestCacheRepo) Upsert(_ context.Context, row *entity.DigestCache) error {
	r.upserts = append(r.upserts, *row)
	r.row = row
	return nil
}

type fakeUserGameRepo struct {
	followedIDs  []uint
	shelved      []entity.BacklogEntry
	backlogEntry *entity.BacklogEntry
}

func (r *fakeUserGameRepo) Follow(_ context.Context, _ *entity.UserGameFollow) error { return nil }
func (r *fakeUserGameRepo) Unfollow(_ context.Context, _, _ uint) error              { return nil }

func (r *fakeUserGameRepo) FindFollowedGameIDs(_ context.Context, _ uint) ([]uint, error) {
	return r.followedIDs, nil
}

func (r *fakeUserGameRepo) FindFollowerIDs(_ context.Context, _ uint) ([]uint, error) {
	return nil, nil
}

func (r *fakeUserGameRepo) UpsertBacklogEntry(_ context.Context, e *entity.BacklogEntry) error {
	r.backlogEntry = e
	return nil
}

func (r *fakeUserGameRepo) FindBacklogByUser(_ context.Context, _ uint) ([]entity.BacklogEntry, error) {
	return r.shelved, nil
}

func (r *fakeUserGameRepo) FindBacklogEntry(_ context.Context, _, _ uint) (*entity.BacklogEntry, error) {
	return r.backlogEntry, nil
}

func (r *fakeUserGameRepo) FindShelvedBacklogByGame(_ context.Context, _ uint) ([]entity.BacklogEntry, error) {
	return r.shelved, nil
}

type fakeSuggestionRepo struct {
	existing map[string]bool
	created  []entity.ReturnSuggestion
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{existing: map[string]bool{}}
}

func suggestionKey(userID, gameID, patchNoteID uint) string {
	return fmt.Sprintf("%d/%d/%d", userID, gameID, patchNoteID)
}

func (r *fakeSuggestionRepo) CreateIfAbsent(_ context.Context, s *entity.ReturnSuggestion) (bool, error) {
	key := suggestionKey(s.UserID, s.GameID, s.PatchNoteID)
	if r.existing[key] {
		return false, nil
	}
	r.existing[key] = true
	r.created = append(r.created, *s)
	return true, nil
}

func (r *fakeSuggestionRepo) FindByUser(_ context.Context, _ uint, _ bool) ([]entity.ReturnSuggestion, error) {
	return r.created, nil
}

func (r *fakeSuggestionRepo) Exists(_ context.Context, userID, gameID, patchNoteID uint) (bool, error) {
	return r.existing[suggestionKey(userID, gameID, patchNoteID)], nil
}

func (r *fakeSuggestionRepo) SetDismissed(_ context.Context, _, _ uint) error { return nil }
func (r *fakeSuggestionRepo) SetActedOn(_ context.Context, _, _ uint) error   { return nil }

type fakeSentimentRepo struct {
	row *entity.GameSentiment
}

func (r *fakeSentimentRepo) FindByGameID(_ context.Context, _ uint) (*entity.GameSentiment, error) {
	return r.row, nil
}

func (r *fakeSentimentRepo) Upsert(_ context.Context, sentiment *entity.GameSentiment) error {
	r.row = sentiment
	return nil
}
