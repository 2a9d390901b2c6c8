package editor

import "slidedeck/internal/models"

// Named operations. Each one is recorded in history only when it finds its
// target; a missing presentation, active slide, slide or component makes it
// a silent no-op.

// UpdateTitle renames the presentation. Titles longer than
// models.MaxTitleLength are cut.
func (e *Editor) UpdateTitle(title string) {
	title = models.ClampTitle(title)
	e.apply(OpUpdateTitle, func(s *PresentState) bool {
		if s.Presentation == nil {
			return false
		}
		s.Presentation.Title = title
		return true
	})
}

// AddSlide appends an empty slide after the last page and focuses it.
func (e *Editor) AddSlide(id string) {
	e.apply(OpAddSlide, func(s *PresentState) bool {
		p := s.Presentation
		if p == nil {
			return false
		}
		p.Slides = append(p.Slides, models.CreateSlide(id, p.ID, p.MaxPageNumber()+1))
		s.ActiveSlideID = id
		return true
	})
}

// RemoveSlide deletes a slide and renumbers the rest. If it was focused,
// focus moves to the slide before it (or the new first slide).
func (e *Editor) RemoveSlide(id string) {
	e.apply(OpRemoveSlide, func(s *PresentState) bool {
		p := s.Presentation
		if p == nil {
			return false
		}
		idx := p.SlideIndex(id)
		if idx < 0 {
			return false
		}
		p.Slides = append(p.Slides[:idx], p.Slides[idx+1:]...)
		p.SortSlides()
		p.Renumber()

		if s.ActiveSlideID == id {
			s.ActiveSlideID = ""
			if n := max(0, idx-1); n < len(p.Slides) {
				s.ActiveSlideID = p.Slides[n].ID
			}
		}
		return true
	})
}

// ReorderSlides moves slide activeID to the position currently held by
// overID, shifting the slides in between by one.
func (e *Editor) ReorderSlides(activeID, overID string) {
	e.apply(OpReorderSlides, func(s *PresentState) bool {
		p := s.Presentation
		if p == nil {
			return false
		}
		from, to := p.SlideIndex(activeID), p.SlideIndex(overID)
		if from < 0 || to < 0 || from == to {
			return false
		}
		moved := p.Slides[from]
		p.Slides = append(p.Slides[:from], p.Slides[from+1:]...)
		p.Slides = append(p.Slides[:to], append([]models.Slide{moved}, p.Slides[to:]...)...)
		p.Renumber()
		return true
	})
}

// SetSlideComponents replaces a slide's component list wholesale.
func (e *Editor) SetSlideComponents(slideID string, components []models.CanvasComponent) {
	e.apply(OpSetSlideComponents, func(s *PresentState) bool {
		if s.Presentation == nil {
			return false
		}
		slide := s.Presentation.FindSlide(slideID)
		if slide == nil {
			return false
		}
		slide.Components = make([]models.CanvasComponent, len(components))
		copy(slide.Components, components)
		return true
	})
}

// AddComponent appends c to the active slide. The caller picks the zIndex.
func (e *Editor) AddComponent(c models.CanvasComponent) {
	e.apply(OpAddComponent, func(s *PresentState) bool {
		slide := s.ActiveSlide()
		if slide == nil {
			return false
		}
		c.SlideID = slide.ID
		slide.Components = append(slide.Components, c)
		return true
	})
}

// UpdateComponentProperties merges patch into a component on the active slide.
func (e *Editor) UpdateComponentProperties(componentID string, patch models.PropertiesPatch) {
	e.apply(OpUpdateComponentProperties, func(s *PresentState) bool {
		slide := s.ActiveSlide()
		if slide == nil {
			return false
		}
		c := slide.FindComponent(componentID)
		if c == nil {
			return false
		}
		c.Properties = patch.Apply(c.Properties)
		return true
	})
}

// RemoveComponent drops a component from the active slide.
func (e *Editor) RemoveComponent(componentID string) {
	e.apply(OpRemoveComponent, func(s *PresentState) bool {
		slide := s.ActiveSlide()
		if slide == nil {
			return false
		}
		idx := slide.ComponentIndex(componentID)
		if idx < 0 {
			return false
		}
		slide.Components = append(slide.Components[:idx], slide.Components[idx+1:]...)
		return true
	})
}
