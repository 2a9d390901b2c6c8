package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"slidedeck/internal/models"
)

// presentationsFile is the root structure of presentations.json
type presentationsFile struct {
	Presentations map[string]*models.Presentation `json:"presentations"`
}

// PresentationStore keeps every presentation in a single JSON file
type PresentationStore struct {
	mu       sync.RWMutex
	filePath string
	data     *presentationsFile
}

// NewPresentationStore creates a new presentation store and loads data
func NewPresentationStore(dataPath string) (*PresentationStore, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &PresentationStore{
		filePath: filepath.Join(dataPath, "presentations.json"),
		data: &presentationsFile{
			Presentations: make(map[string]*models.Presentation),
		},
	}

	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load presentations: %w", err)
	}

	return store, nil
}

// Load reads presentations.json file or keeps the empty structure if file doesn't exist
func (s *PresentationStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		log.Printf("Presentations file not found, creating empty structure: %s", s.filePath)
		return nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read presentations file: %w", err)
	}

	var file presentationsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse presentations file: %w", err)
	}
	if file.Presentations == nil {
		file.Presentations = make(map[string]*models.Presentation)
	}

	s.data = &file
	log.Printf("Loaded %d presentations from %s", len(s.data.Presentations), s.filePath)
	return nil
}

// save atomically writes presentations.json file (temp file → rename)
// Must be called with lock held
func (s *PresentationStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal presentations: %w", err)
	}

	tempPath := s.filePath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Get returns a copy of the stored presentation
func (s *PresentationStore) Get(ctx context.Context, id string) (models.Presentation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.data.Presentations[id]
	if !exists {
		return models.Presentation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := record.Clone()
	p.SortSlides()
	return *p, nil
}

// Save replaces the stored presentation and writes the file
func (s *PresentationStore) Save(ctx context.Context, p models.Presentation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data.Presentations[p.ID]
	s.data.Presentations[p.ID] = p.Clone()

	if err := s.save(); err != nil {
		// keep memory and disk in step
		if existed {
			s.data.Presentations[p.ID] = previous
		} else {
			delete(s.data.Presentations, p.ID)
		}
		return fmt.Errorf("failed to save presentation: %w", err)
	}

	log.Printf("Presentation saved: ID=%s, slides=%d", p.ID, len(p.Slides))
	return nil
}

// Delete removes a presentation and writes the file
func (s *PresentationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.data.Presentations[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.data.Presentations, id)

	if err := s.save(); err != nil {
		s.data.Presentations[id] = previous
		return fmt.Errorf("failed to save after delete: %w", err)
	}

	log.Printf("Presentation deleted: %s", id)
	return nil
}

// ListByLesson returns presentations for a lesson ordered by id
func (s *PresentationStore) ListByLesson(ctx context.Context, lessonID string) ([]models.Presentation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Presentation
	for _, record := range s.data.Presentations {
		if record.LessonID == lessonID {
			p := record.Clone()
			p.SortSlides()
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
