package handlers

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"slidedeck/internal/models"
	"slidedeck/internal/render"
	"slidedeck/internal/services"
)

// maxThumbnailSide caps the size a caller may ask a preview to be rendered at.
const maxThumbnailSide = 1920

// PresentationHandler handles HTTP requests for presentations
type PresentationHandler struct {
	service *services.PresentationService
}

// NewPresentationHandler creates a new presentation handler
func NewPresentationHandler(service *services.PresentationService) *PresentationHandler {
	return &PresentationHandler{
		service: service,
	}
}

// GetPresentation returns a whole document
// GET /api/presentation/{id}
func (h *PresentationHandler) GetPresentation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", p)
}

// UpdatePresentation replaces a whole document
// PUT /api/presentation/{id}
func (h *PresentationHandler) UpdatePresentation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var p models.Presentation
	if !decodeJSON(w, r, &p) {
		return
	}

	saved, err := h.service.Update(r.Context(), id, p)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Presentation saved", saved)
}

// CreatePresentation makes a new document with one empty slide
// POST /api/presentation
func (h *PresentationHandler) CreatePresentation(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePresentationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Presentation created", p)
}

// DeletePresentation removes a document
// DELETE /api/presentation/{id}
func (h *PresentationHandler) DeletePresentation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "Presentation deleted", nil)
}

// ShowSlide returns a document ordered for playback
// GET /api/presentation/show-slide/{id}
func (h *PresentationHandler) ShowSlide(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.service.ShowSlides(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", p)
}

// ListPresentations returns the documents of a lesson
// GET /api/presentation?lessonId=...
func (h *PresentationHandler) ListPresentations(w http.ResponseWriter, r *http.Request) {
	lessonID := r.URL.Query().Get("lessonId")
	if lessonID == "" {
		respondFail(w, http.StatusBadRequest, "lessonId query parameter is required")
		return
	}

	list, err := h.service.ListByLesson(r.Context(), lessonID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, http.StatusOK, "", list)
}

// SlideThumbnail renders a slide preview as PNG. The default-size preview is
// also kept on disk next to the other slide images.
// GET /api/presentation/{id}/slides/{slideId}/thumbnail.png?width=&height=
func (h *PresentationHandler) SlideThumbnail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, slideID := vars["id"], vars["slideId"]

	width, ok := sizeParam(r, "width", render.ThumbnailWidth)
	if !ok {
		respondFail(w, http.StatusBadRequest, "width must be between 1 and 1920")
		return
	}
	height, ok := sizeParam(r, "height", render.ThumbnailHeight)
	if !ok {
		respondFail(w, http.StatusBadRequest, "height must be between 1 and 1920")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	slide := p.FindSlide(slideID)
	if slide == nil {
		respondFail(w, http.StatusNotFound, "Slide not found")
		return
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, *slide, width, height); err != nil {
		respondError(w, err)
		return
	}

	if width == render.ThumbnailWidth && height == render.ThumbnailHeight {
		if _, err := h.service.SaveSlideImage(id, slideID, buf.Bytes()); err != nil {
			log.Printf("Failed to store thumbnail of slide %s: %v", slideID, err)
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func sizeParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxThumbnailSide {
		return 0, false
	}
	return n, true
}
