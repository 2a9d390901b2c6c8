package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"slidedeck/internal/models"
	"slidedeck/internal/validation"
)

// Publisher receives change events for connected viewers.
type Publisher interface {
	Publish(event Event)
}

// CreatePresentationRequest is the body of POST /api/presentation
type CreatePresentationRequest struct {
	LessonID string `json:"lessonId" validate:"required"`
	Title    string `json:"title" validate:"required,max=255"`
	UserID   string `json:"userId"`
}

// PresentationService implements the remote store operations on top of a
// repository and announces changes to viewers.
type PresentationService struct {
	repo      PresentationRepository
	publisher Publisher
	images    *SlideImageStore
	newID     func() string
}

// NewPresentationService wires a service. publisher and images may be nil.
func NewPresentationService(repo PresentationRepository, publisher Publisher, images *SlideImageStore) *PresentationService {
	return &PresentationService{
		repo:      repo,
		publisher: publisher,
		images:    images,
		newID:     uuid.NewString,
	}
}

// Get returns a presentation by id
func (s *PresentationService) Get(ctx context.Context, id string) (models.Presentation, error) {
	return s.repo.Get(ctx, id)
}

// ShowSlides returns a presentation for read-only playback: slides in page
// order and components in paint order.
func (s *PresentationService) ShowSlides(ctx context.Context, id string) (models.Presentation, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Presentation{}, err
	}
	p.SortSlides()
	for i := range p.Slides {
		sortByZIndex(p.Slides[i].Components)
	}
	return p, nil
}

// Create makes a new presentation holding one empty slide
func (s *PresentationService) Create(ctx context.Context, req CreatePresentationRequest) (models.Presentation, error) {
	if err := validation.Struct(req); err != nil {
		return models.Presentation{}, err
	}

	p := models.NewPresentation(s.newID(), s.newID(), req.LessonID, req.UserID, req.Title)
	if err := s.repo.Save(ctx, p); err != nil {
		return models.Presentation{}, fmt.Errorf("failed to create presentation: %w", err)
	}

	log.Printf("Presentation created: ID=%s, lesson=%s", p.ID, p.LessonID)
	return p, nil
}

// Update replaces the whole document. The path id wins over the body id,
// and back-references are rewritten so the stored document is consistent.
func (s *PresentationService) Update(ctx context.Context, id string, p models.Presentation) (models.Presentation, error) {
	p.ID = id
	normalize(&p)
	if err := validation.Struct(p); err != nil {
		return models.Presentation{}, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return models.Presentation{}, fmt.Errorf("failed to update presentation: %w", err)
	}

	s.publish(Event{Type: EventPresentationSaved, PresentationID: id, Data: p})
	return p, nil
}

// Delete removes a presentation and its rendered previews
func (s *PresentationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil {
		if err := s.images.RemovePresentation(id); err != nil {
			log.Printf("Failed to remove slide images of %s: %v", id, err)
		}
	}
	s.publish(Event{Type: EventPresentationDeleted, PresentationID: id})
	return nil
}

// ListByLesson returns the presentations of a lesson
func (s *PresentationService) ListByLesson(ctx context.Context, lessonID string) ([]models.Presentation, error) {
	list, err := s.repo.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Presentation{}
	}
	return list, nil
}

// SaveSlideImage stores a rendered preview if an image store is configured
func (s *PresentationService) SaveSlideImage(presentationID, slideID string, png []byte) (string, error) {
	if s.images == nil {
		return "", nil
	}
	return s.images.SaveSlideImage(presentationID, slideID, png)
}

func (s *PresentationService) publish(event Event) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

func normalize(p *models.Presentation) {
	if p.Slides == nil {
		p.Slides = []models.Slide{}
	}
	for i := range p.Slides {
		slide := &p.Slides[i]
		slide.PresentationID = p.ID
		if slide.Components == nil {
			slide.Components = []models.CanvasComponent{}
		}
		for j := range slide.Components {
			slide.Components[j].SlideID = slide.ID
		}
	}
}

func sortByZIndex(components []models.CanvasComponent) {
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].ZIndex < components[j].ZIndex
	})
}
