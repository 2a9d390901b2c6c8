package services

import (
	"context"
	"errors"

	"slidedeck/internal/models"
)

// ErrNotFound is returned when a presentation does not exist.
var ErrNotFound = errors.New("presentation not found")

// PresentationRepository stores whole presentation documents.
type PresentationRepository interface {
	// Get returns the presentation with slides in page order.
	Get(ctx context.Context, id string) (models.Presentation, error)
	// Save replaces the stored document with p, creating it if needed.
	Save(ctx context.Context, p models.Presentation) error
	// Delete removes the presentation and everything in it.
	Delete(ctx context.Context, id string) error
	// ListByLesson returns presentations created from a lesson.
	ListByLesson(ctx context.Context, lessonID string) ([]models.Presentation, error)
}
