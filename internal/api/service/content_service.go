package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"patchpulse/internal/api/dto"
	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
	"patchpulse/internal/queue"
	"patchpulse/internal/repository"
	"patchpulse/internal/worker/strategy"
	"patchpulse/pkg/logger"
)

// ContentService defines the interface for submitting raw content and
// triggering its enrichment.
type ContentService interface {
	CreatePatchNote(ctx context.Context, req *dto.CreatePatchNoteRequest) (*entity.PatchNote, error)
	GetPatchNote(ctx context.Context, id uint) (*entity.PatchNote, error)
	EnrichPatchNote(ctx context.Context, id uint, force bool) (*entity.PatchSummary, error)
	CreateNewsItem(ctx context.Context, req *dto.CreateNewsItemRequest) (*entity.NewsItem, error)
	GetNewsItem(ctx context.Context, id uint) (*entity.NewsItem, error)
	EnrichNewsItem(ctx context.Context, id uint, force bool) (*entity.NewsSummary, error)
}

// NewContentService creates a new content service.
func NewContentService(
	patchRepo repository.PatchNoteRepository,
	newsRepo repository.NewsItemRepository,
	gameRepo repository.GameRepository,
	patchEnricher *enrich.PatchEnricher,
	newsEnricher *enrich.NewsEnricher,
	publisher *queue.Publisher,
	log *logger.Logger,
) ContentService {
	return &contentService{
		patchRepo:     patchRepo,
		newsRepo:      newsRepo,
		gameRepo:      gameRepo,
		patchEnricher: patchEnricher,
		newsEnricher:  newsEnricher,
		publisher:     publisher,
		logger:        log,
	}
}

type contentService struct {
	patchRepo     repository.PatchNoteRepository
	newsRepo      repository.NewsItemRepository
	gameRepo      repository.GameRepository
	patchEnricher *enrich.PatchEnricher
	newsEnricher  *enrich.NewsEnricher
	publisher     *queue.Publisher
	logger        *logger.Logger
}

func (s *contentService) CreatePatchNote(ctx context.Context, req *dto.CreatePatchNoteRequest) (*entity.PatchNote, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.RawText) == "" {
		return nil, fmt.Errorf("%w: title and raw_text are required", enrich.ErrInvalidInput)
	}
	game, err := s.gameRepo.FindByID(ctx, req.GameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find game: %v", enrich.ErrPersistence, err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", enrich.ErrNotFound, req.GameID)
	}

	patch := &entity.PatchNote{
		GameID:      req.GameID,
		Title:       req.Title,
		RawText:     req.RawText,
		SourceURL:   req.SourceURL,
		PublishedAt: req.PublishedAt,
	}
	if err := s.patchRepo.Create(ctx, patch); err != nil {
		return nil, fmt.Errorf("%w: failed to create patch note: %v", enrich.ErrPersistence, err)
	}

	if req.Enrich {
		if _, err := s.publisher.Enqueue(ctx, entity.JobTypePatchSummary, strategy.PatchSummaryPayload{PatchNoteID: patch.ID}); err != nil {
			s.logger.Error("Failed to enqueue patch summary job", logger.ErrorField(err), logger.Field("patch_note_id", patch.ID))
		}
	}
	return patch, nil
}

func (s *contentService) GetPatchNote(ctx context.Context, id uint) (*entity.PatchNote, error) {
	patch, err := s.patchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find patch note: %v", enrich.ErrPersistence, err)
	}
	if patch == nil {
		return nil, fmt.Errorf("%w: patch note %d", enrich.ErrNotFound, id)
	}
	return patch, nil
}

func (s *contentService) EnrichPatchNote(ctx context.Context, id uint, force bool) (*entity.PatchSummary, error) {
	return s.patchEnricher.Enrich(ctx, id, force)
}

func (s *contentService) CreateNewsItem(ctx context.Context, req *dto.CreateNewsItemRequest) (*entity.NewsItem, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.RawText) == "" {
		return nil, fmt.Errorf("%w: title and raw_text are required", enrich.ErrInvalidInput)
	}
	if req.GameID != nil {
		game, err := s.gameRepo.FindByID(ctx, *req.GameID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to find game: %v", enrich.ErrPersistence, err)
		}
		if game == nil {
			return nil, fmt.Errorf("%w: game %d", enrich.ErrNotFound, *req.GameID)
		}
	}

	published := ""
	if req.PublishedAt != nil {
		published = req.PublishedAt.String()
	}
	hash := md5.Sum([]byte(req.Link + "|" + published))
	hashString := hex.EncodeToString(hash[:])

	exists, err := s.newsRepo.ExistsByHash(ctx, hashString)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check existing item: %v", enrich.ErrPersistence, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: news item already exists for this link", enrich.ErrInvalidInput)
	}

	item := &entity.NewsItem{
		GameID:         req.GameID,
		Title:          req.Title,
		RawText:        req.RawText,
		Link:           req.Link,
		Source:         req.Source,
		HashIdentifier: hashString,
		PublishedAt:    req.PublishedAt,
	}
	if err := s.newsRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: failed to create news item: %v", enrich.ErrPersistence, err)
	}

	if req.Enrich {
		if _, err := s.publisher.Enqueue(ctx, entity.JobTypeNewsSummary, strategy.NewsSummaryPayload{NewsItemID: item.ID}); err != nil {
			s.logger.Error("Failed to enqueue news summary job", logger.ErrorField(err), logger.Field("news_item_id", item.ID))
		}
	}
	return item, nil
}

func (s *contentService) GetNewsItem(ctx context.Context, id uint) (*entity.NewsItem, error) {
	item, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find news item: %v", enrich.ErrPersistence, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: news item %d", enrich.ErrNotFound, id)
	}
	return item, nil
}

func (s *contentService) EnrichNewsItem(ctx context.Context, id uint, force bool) (*entity.NewsSummary, error) {
	return s.newsEnricher.Enrich(ctx, id, force)
}
