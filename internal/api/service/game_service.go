package service

import (
	"context"
	"fmt"
	"strings"

	"patchpulse/internal/api/dto"
	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

// GameService defines the interface for managing the game catalog, follows
// and backlog entries.
type GameService interface {
	CreateGame(ctx context.Context, req *dto.CreateGameRequest) (*entity.Game, error)
	GetGameByID(ctx context.Context, id uint) (*entity.Game, error)
	GetAllGames(ctx context.Context) ([]entity.Game, error)
	GetSimilarGames(ctx context.Context, gameID uint, limit int) ([]entity.GameSimilarity, error)
	Follow(ctx context.Context, gameID uint, req *dto.FollowRequest) error
	Unfollow(ctx context.Context, userID, gameID uint) error
	UpsertBacklog(ctx context.Context, gameID uint, req *dto.BacklogRequest) (*entity.BacklogEntry, error)
	GetBacklog(ctx context.Context, userID uint) ([]entity.BacklogEntry, error)
}

// NewGameService creates a new game service.
func NewGameService(
	gameRepo repository.GameRepository,
	userGameRepo repository.UserGameRepository,
	similarityRepo repository.GameSimilarityRepository,
	log *logger.Logger,
) GameService {
	return &gameService{
		gameRepo:       gameRepo,
		userGameRepo:   userGameRepo,
		similarityRepo: similarityRepo,
		logger:         log,
	}
}

type gameService struct {
	gameRepo       repository.GameRepository
	userGameRepo   repository.UserGameRepository
	similarityRepo repository.GameSimilarityRepository
	logger         *logger.Logger
}

func (s *gameService) CreateGame(ctx context.Context, req *dto.CreateGameRequest) (*entity.Game, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
		return nil, fmt.Errorf("%w: name and slug are required", enrich.ErrInvalidInput)
	}

	game := &entity.Game{
		Name:      req.Name,
		Slug:      req.Slug,
		Developer: req.Developer,
		Genres:    req.Genres,
		FeedURL:   req.FeedURL,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("%w: failed to create game: %v", enrich.ErrPersistence, err)
	}
	return game, nil
}

func (s *gameService) GetGameByID(ctx context.Context, id uint) (*entity.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find game: %v", enrich.ErrPersistence, err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", enrich.ErrNotFound, id)
	}
	return game, nil
}

func (s *gameService) GetAllGames(ctx context.Context) ([]entity.Game, error) {
	return s.gameRepo.FindAll(ctx)
}

func (s *gameService) GetSimilarGames(ctx context.Context, gameID uint, limit int) ([]entity.GameSimilarity, error) {
	if _, err := s.GetGameByID(ctx, gameID); err != nil {
		return nil, err
	}
	return s.similarityRepo.FindByGame(ctx, gameID, limit)
}

func (s *gameService) Follow(ctx context.Context, gameID uint, req *dto.FollowRequest) error {
	if req.UserID == 0 {
		return fmt.Errorf("%w: user_id is required", enrich.ErrInvalidInput)
	}
	if _, err := s.GetGameByID(ctx, gameID); err != nil {
		return err
	}
	follow := &entity.UserGameFollow{
		UserID:        req.UserID,
		GameID:        gameID,
		NotifyEnabled: req.NotifyEnabled,
	}
	if err := s.userGameRepo.Follow(ctx, follow); err != nil {
		return fmt.Errorf("%w: failed to follow game: %v", enrich.ErrPersistence, err)
	}
	return nil
}

func (s *gameService) Unfollow(ctx context.Context, userID, gameID uint) error {
	if err := s.userGameRepo.Unfollow(ctx, userID, gameID); err != nil {
		return fmt.Errorf("%w: failed to unfollow game: %v", enrich.ErrPersistence, err)
	}
	return nil
}

func (s *gameService) UpsertBacklog(ctx context.Context, gameID uint, req *dto.BacklogRequest) (*entity.BacklogEntry, error) {
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", enrich.ErrInvalidInput)
	}
	if !validBacklogStatus(req.Status) {
		return nil, fmt.Errorf("%w: invalid backlog status %q", enrich.ErrInvalidInput, req.Status)
	}
	if _, err := s.GetGameByID(ctx, gameID); err != nil {
		return nil, err
	}

	entry := &entity.BacklogEntry{
		UserID:       req.UserID,
		GameID:       gameID,
		Status:       req.Status,
		HoursPlayed:  req.HoursPlayed,
		LastPlayedAt: req.LastPlayedAt,
		Notes:        req.Notes,
	}
	if err := s.userGameRepo.UpsertBacklogEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: failed to upsert backlog entry: %v", enrich.ErrPersistence, err)
	}
	return entry, nil
}

func (s *gameService) GetBacklog(ctx context.Context, userID uint) ([]entity.BacklogEntry, error) {
	return s.userGameRepo.FindBacklogByUser(ctx, userID)
}

func validBacklogStatus(status string) bool {
	switch status {
	case entity.BacklogStatusPlaying, entity.BacklogStatusPaused, entity.BacklogStatusBacklog,
		entity.BacklogStatusFinished, entity.BacklogStatusDropped:
		return true
	}
	return false
}
