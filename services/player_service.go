package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/repositories"
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, player *models.Player) error
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	ListPlayersBySquad(ctx context.Context, squadID int) ([]*models.Player, error)
}

type playerService struct {
	repo repositories.PlayerRepository
}

func NewPlayerService(repo repositories.PlayerRepository) PlayerService {
	return &playerService{repo: repo}
}

func (s *playerService) CreatePlayer(ctx context.Context, player *models.Player) error {
	if player.Name == "" {
		return ErrPlayerNameRequired
	}
	if err := s.repo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerSquadInvalid) {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) ListPlayersBySquad(ctx context.Context, squadID int) ([]*models.Player, error) {
	players, err := s.repo.ListBySquad(ctx, squadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for squad %d: %w", squadID, err)
	}
	return players, nil
}
