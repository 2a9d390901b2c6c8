package services

import (
	"fmt"
	"os"
	"path/filepath"
)

// SlideImageStore writes rendered slide previews under a data directory.
type SlideImageStore struct {
	dataPath string
}

// NewSlideImageStore creates a store rooted at dataPath
func NewSlideImageStore(dataPath string) *SlideImageStore {
	return &SlideImageStore{dataPath: dataPath}
}

// SaveSlideImage saves PNG image to disk and returns relative path
func (s *SlideImageStore) SaveSlideImage(presentationID, slideID string, data []byte) (string, error) {
	if presentationID == "" || slideID == "" {
		return "", fmt.Errorf("presentationId and slideId are required")
	}
	if filepath.Base(presentationID) != presentationID || filepath.Base(slideID) != slideID {
		return "", fmt.Errorf("invalid id")
	}

	// Create directory structure: presentations/{presentationId}/slides/
	dirPath := filepath.Join(s.dataPath, "presentations", presentationID, "slides")
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dirPath, slideID+".png")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return filepath.Join("presentations", presentationID, "slides", slideID+".png"), nil
}

// RemovePresentation deletes every stored image of a presentation.
func (s *SlideImageStore) RemovePresentation(presentationID string) error {
	if presentationID == "" || filepath.Base(presentationID) != presentationID {
		return fmt.Errorf("invalid id")
	}
	if err := os.RemoveAll(filepath.Join(s.dataPath, "presentations", presentationID)); err != nil {
		return fmt.Errorf("failed to remove images: %w", err)
	}
	return nil
}
