package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/repositories"
	"github.com/pitchside/crease/storage"
)

type SquadService interface {
	CreateSquad(ctx context.Context, squad *models.Squad) error
	GetSquadByID(ctx context.Context, id int) (*models.Squad, error)
	ListSquadsByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error)
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Squad, error)
}

type squadService struct {
	repo     repositories.SquadRepository
	uploader storage.FileUploader
}

func NewSquadService(repo repositories.SquadRepository, uploader storage.FileUploader) SquadService {
	return &squadService{repo: repo, uploader: uploader}
}

func (s *squadService) CreateSquad(ctx context.Context, squad *models.Squad) error {
	if squad.Name == "" {
		return ErrSquadNameRequired
	}
	if err := s.repo.Create(ctx, squad); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSquadTournamentInvalid),
			errors.Is(err, repositories.ErrSquadNameConflict):
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return fmt.Errorf("failed to create squad: %w", err)
	}
	return nil
}

func (s *squadService) GetSquadByID(ctx context.Context, id int) (*models.Squad, error) {
	squad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSquadNotFound) {
			return nil, ErrSquadNotFound
		}
		return nil, fmt.Errorf("failed to load squad %d: %w", id, err)
	}
	populateSquadLogoURL(squad, s.uploader)
	return squad, nil
}

func (s *squadService) ListSquadsByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error) {
	squads, err := s.repo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads for tournament %d: %w", tournamentID, err)
	}
	for _, squad := range squads {
		populateSquadLogoURL(squad, s.uploader)
	}
	return squads, nil
}

func (s *squadService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Squad, error) {
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}
	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	squad, err := s.GetSquadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("squads/%d/logo-%s%s", id, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload squad logo: %w", err)
	}

	oldKey := squad.LogoKey
	if err := s.repo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to persist squad logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	squad.LogoKey = &key
	squad.LogoURL = nil
	populateSquadLogoURL(squad, s.uploader)
	return squad, nil
}
