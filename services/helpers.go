package services

import (
	"fmt"
	"strings"

	"github.com/pitchside/crease/models"
	"github.com/pitchside/crease/storage"
)

func populateTournamentLogoURL(t *models.Tournament, uploader storage.FileUploader) {
	if t == nil || t.LogoKey == nil || *t.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*t.LogoKey); url != "" {
		t.LogoURL = &url
	}
}

func populateSquadLogoURL(s *models.Squad, uploader storage.FileUploader) {
	if s == nil || s.LogoKey == nil || *s.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*s.LogoKey); url != "" {
		s.LogoURL = &url
	}
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		if rest, ok := strings.CutPrefix(contentType, "image/"); ok && rest != "" {
			return "." + strings.Split(rest, "+")[0], nil
		}
		return "", fmt.Errorf("unsupported image content type: %s", contentType)
	}
}
