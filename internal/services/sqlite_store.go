package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"slidedeck/internal/models"
)

// SQLiteStore keeps presentations in SQLite, one row per presentation,
// slide and component. Component properties are stored as JSON.
type SQLiteStore struct {
	database *sql.DB
}

// NewSQLiteStore creates a store over an opened database
func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		database: database,
	}
}

// Get returns a presentation with its slides and components
func (s *SQLiteStore) Get(ctx context.Context, id string) (models.Presentation, error) {
	query := `SELECT id, title, user_id, lesson_id FROM presentations WHERE id = ?`

	var p models.Presentation
	err := s.database.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.UserID, &p.LessonID)
	if err == sql.ErrNoRows {
		return models.Presentation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Presentation{}, fmt.Errorf("failed to query presentation: %w", err)
	}

	if err := s.loadSlides(ctx, &p); err != nil {
		return models.Presentation{}, err
	}
	return p, nil
}

func (s *SQLiteStore) loadSlides(ctx context.Context, p *models.Presentation) error {
	rows, err := s.database.QueryContext(ctx,
		`SELECT id, page_number FROM slides WHERE presentation_id = ? ORDER BY page_number`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query slides: %w", err)
	}
	defer rows.Close()

	p.Slides = []models.Slide{}
	index := make(map[string]int)
	for rows.Next() {
		slide := models.Slide{PresentationID: p.ID, Components: []models.CanvasComponent{}}
		if err := rows.Scan(&slide.ID, &slide.PageNumber); err != nil {
			return fmt.Errorf("failed to scan slide: %w", err)
		}
		index[slide.ID] = len(p.Slides)
		p.Slides = append(p.Slides, slide)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read slides: %w", err)
	}

	crows, err := s.database.QueryContext(ctx,
		`SELECT id, slide_id, component_type, z_index, properties
		FROM components WHERE presentation_id = ? ORDER BY z_index`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query components: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c models.CanvasComponent
		var props string
		if err := crows.Scan(&c.ID, &c.SlideID, &c.ComponentType, &c.ZIndex, &props); err != nil {
			return fmt.Errorf("failed to scan component: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &c.Properties); err != nil {
			return fmt.Errorf("failed to decode properties of component %s: %w", c.ID, err)
		}
		i, ok := index[c.SlideID]
		if !ok {
			continue
		}
		p.Slides[i].Components = append(p.Slides[i].Components, c)
	}
	return crows.Err()
}

// Save upserts the presentation and replaces all of its slides
func (s *SQLiteStore) Save(ctx context.Context, p models.Presentation) error {
	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx, `INSERT INTO presentations (id, title, user_id, lesson_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, user_id = excluded.user_id,
			lesson_id = excluded.lesson_id, updated_at = excluded.updated_at`,
		p.ID, p.Title, p.UserID, p.LessonID, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert presentation: %w", err)
	}

	// Components go with their slides through ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, `DELETE FROM slides WHERE presentation_id = ?`, p.ID); err != nil {
		return fmt.Errorf("failed to clear slides: %w", err)
	}

	for _, slide := range p.Slides {
		if _, err := tx.ExecContext(ctx, `INSERT INTO slides (id, presentation_id, page_number) VALUES (?, ?, ?)`,
			slide.ID, p.ID, slide.PageNumber); err != nil {
			return fmt.Errorf("failed to insert slide %s: %w", slide.ID, err)
		}
		for _, c := range slide.Components {
			props, err := json.Marshal(c.Properties)
			if err != nil {
				return fmt.Errorf("failed to encode properties of component %s: %w", c.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO components (presentation_id, slide_id, id, component_type, z_index, properties)
				VALUES (?, ?, ?, ?, ?, ?)`, p.ID, slide.ID, c.ID, string(c.ComponentType), c.ZIndex, string(props)); err != nil {
				return fmt.Errorf("failed to insert component %s: %w", c.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit presentation: %w", err)
	}

	log.Printf("Presentation saved: ID=%s, slides=%d", p.ID, len(p.Slides))
	return nil
}

// Delete removes a presentation
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.database.ExecContext(ctx, `DELETE FROM presentations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete presentation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	log.Printf("Presentation deleted: %s", id)
	return nil
}

// ListByLesson returns all presentations for a lesson, newest first
func (s *SQLiteStore) ListByLesson(ctx context.Context, lessonID string) ([]models.Presentation, error) {
	rows, err := s.database.QueryContext(ctx, `SELECT id, title, user_id, lesson_id
		FROM presentations WHERE lesson_id = ? ORDER BY created_at DESC, id`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query presentations: %w", err)
	}

	var out []models.Presentation
	for rows.Next() {
		var p models.Presentation
		if err := rows.Scan(&p.ID, &p.Title, &p.UserID, &p.LessonID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan presentation: %w", err)
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.loadSlides(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
