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

type TournamentService interface {
	CreateTournament(ctx context.Context, tournament *models.Tournament) error
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, limit, offset int) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	repo     repositories.TournamentRepository
	uploader storage.FileUploader
}

func NewTournamentService(repo repositories.TournamentRepository, uploader storage.FileUploader) TournamentService {
	return &tournamentService{repo: repo, uploader: uploader}
}

func (s *tournamentService) CreateTournament(ctx context.Context, t *models.Tournament) error {
	if t.Name == "" {
		return ErrTournamentNameRequired
	}
	if t.Status == "" {
		t.Status = models.TournamentUpcoming
	}
	for _, g := range t.Groups {
		if g.Key == "" || len(g.SquadIDs) == 0 {
			return fmt.Errorf("%w: group %q must have a key and squads", ErrValidationFailed, g.Name)
		}
		if g.QualifierSlots < 0 || g.QualifierSlots > len(g.SquadIDs) {
			return fmt.Errorf("%w: group %q qualifier slots out of range", ErrValidationFailed, g.Name)
		}
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}
	populateTournamentLogoURL(t, s.uploader)
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	tournaments, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, t := range tournaments {
		populateTournamentLogoURL(t, s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	switch status {
	case models.TournamentUpcoming, models.TournamentOngoing, models.TournamentCompleted:
	default:
		return fmt.Errorf("%w: %q", ErrValidationFailed, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to update status for tournament %d: %w", id, err)
	}
	return nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}
	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	t, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/logo-%s%s", id, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	oldKey := t.LogoKey
	if err := s.repo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to persist tournament logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		// Old object removal is advisory; the new key is already live.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	t.LogoKey = &key
	t.LogoURL = nil
	populateTournamentLogoURL(t, s.uploader)
	return t, nil
}
