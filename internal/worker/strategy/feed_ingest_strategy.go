package strategy

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"patchpulse/internal/entity"
	"patchpulse/internal/queue"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
	"patchpulse/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

type feedIngestResult struct {
	GameID      uint     `json:"game_id"`
	Ingested    int      `json:"ingested"`
	Skipped     int      `json:"skipped"`
	FailedLinks []string `json:"failed_links,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

type feedIngestStrategy struct {
	gameRepo     repository.GameRepository
	newsRepo     repository.NewsItemRepository
	publisher    *queue.Publisher
	logger       *logger.Logger
	client       *http.Client
	seenCache    *cache.Cache
	maxItems     int
	fetchDelayMs int
}

// NewFeedIngestStrategy creates the strategy that polls game feeds, stores
// fresh items and chains a summary job for each one.
func NewFeedIngestStrategy(
	gameRepo repository.GameRepository,
	newsRepo repository.NewsItemRepository,
	publisher *queue.Publisher,
	log *logger.Logger,
	maxItems int,
	fetchDelayMs int,
) JobExecutionStrategy {
	if maxItems <= 0 {
		maxItems = 20
	}
	return &feedIngestStrategy{
		gameRepo:     gameRepo,
		newsRepo:     newsRepo,
		publisher:    publisher,
		logger:       log,
		client:       &http.Client{Timeout: 30 * time.Second},
		seenCache:    cache.New(30*time.Minute, time.Hour),
		maxItems:     maxItems,
		fetchDelayMs: fetchDelayMs,
	}
}

func (s *feedIngestStrategy) GetType() entity.JobType {
	return entity.JobTypeFeedIngest
}

func (s *feedIngestStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload FeedIngestPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal job payload: %w", err)
	}

	games, err := s.targetGames(ctx, payload.GameID)
	if err != nil {
		return "", err
	}

	var results []feedIngestResult
	for _, game := range games {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		results = append(results, s.ingestGameFeed(ctx, game))
	}

	resultJSON, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return string(resultJSON), nil
}

// targetGames resolves the payload to a game list: a single game when an ID
// is given, otherwise every game with a feed configured.
func (s *feedIngestStrategy) targetGames(ctx context.Context, gameID uint) ([]entity.Game, error) {
	if gameID != 0 {
		game, err := s.gameRepo.FindByID(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("failed to find game: %w", err)
		}
		if game == nil || game.FeedURL == "" {
			return nil, nil
		}
		return []entity.Game{*game}, nil
	}
	games, err := s.gameRepo.FindWithFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games with feeds: %w", err)
	}
	return games, nil
}

func (s *feedIngestStrategy) ingestGameFeed(ctx context.Context, game entity.Game) feedIngestResult {
	result := feedIngestResult{GameID: game.ID}

	s.logger.Info("Processing feed", logger.StringField("url", game.FeedURL), logger.Field("game_id", game.ID))
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(game.FeedURL, ctx)
	if err != nil {
		s.logger.Error("Failed to parse feed", logger.ErrorField(err), logger.StringField("url", game.FeedURL))
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	sort.Slice(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	ingested := 0
	for _, item := range feed.Items {
		if !utils.ShouldContinue(ctx, s.logger) {
			return result
		}
		if ingested >= s.maxItems {
			break
		}

		status, err := s.ingestItem(ctx, game, item)
		if err != nil {
			result.FailedLinks = append(result.FailedLinks, item.Link)
			result.Errors = append(result.Errors, err.Error())
			s.logger.Error("Failed to ingest feed item", logger.ErrorField(err), logger.StringField("title", item.Title))
			continue
		}
		if status == statusSkipped {
			result.Skipped++
			continue
		}
		ingested++
		if s.fetchDelayMs > 0 {
			time.Sleep(time.Duration(s.fetchDelayMs) * time.Millisecond)
		}
	}

	result.Ingested = ingested
	return result
}

const (
	statusIngested = "ingested"
	statusSkipped  = "skipped"
)

func (s *feedIngestStrategy) ingestItem(ctx context.Context, game entity.Game, item *gofeed.Item) (string, error) {
	hashIdentifier := md5.Sum([]byte(item.Link + "|" + item.Published))
	hashString := hex.EncodeToString(hashIdentifier[:])

	if _, seen := s.seenCache.Get(hashString); seen {
		return statusSkipped, nil
	}
	exists, err := s.newsRepo.ExistsByHash(ctx, hashString)
	if err != nil {
		return "", fmt.Errorf("failed to check existing item: %w", err)
	}
	if exists {
		s.seenCache.Set(hashString, struct{}{}, cache.DefaultExpiration)
		return statusSkipped, nil
	}

	rawText, err := s.extractContent(ctx, item.Link)
	if err != nil {
		return "", err
	}

	parsedURL, err := url.Parse(item.Link)
	if err != nil {
		return "", fmt.Errorf("failed to parse item link: %w", err)
	}

	gameID := game.ID
	news := entity.NewsItem{
		GameID:         &gameID,
		Title:          utils.CleanToValidUTF8(item.Title),
		RawText:        rawText,
		Link:           item.Link,
		Source:         parsedURL.Hostname(),
		HashIdentifier: hashString,
		PublishedAt:    item.PublishedParsed,
	}
	if err := s.newsRepo.Create(ctx, &news); err != nil {
		return "", fmt.Errorf("failed to create news item: %w", err)
	}
	s.seenCache.Set(hashString, struct{}{}, cache.DefaultExpiration)

	if _, err := s.publisher.Enqueue(ctx, entity.JobTypeNewsSummary, NewsSummaryPayload{NewsItemID: news.ID}); err != nil {
		s.logger.Warn("Failed to enqueue news summary job", logger.ErrorField(err), logger.Field("news_item_id", news.ID))
	}

	return statusIngested, nil
}

// extractContent fetches the article and reduces it to readable plain text.
func (s *feedIngestStrategy) extractContent(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}
	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}

	content := strings.TrimSpace(docHTML.Text())
	return utils.SafeText(utils.CleanToValidUTF8(content)), nil
}
