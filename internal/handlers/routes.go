package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// SetupRoutes builds the API router
func SetupRoutes(presentationHandler *PresentationHandler, wsHandler *WebSocketHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondOK(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Presentation routes
	api.HandleFunc("/presentation", presentationHandler.CreatePresentation).Methods(http.MethodPost)
	api.HandleFunc("/presentation", presentationHandler.ListPresentations).Methods(http.MethodGet)
	api.HandleFunc("/presentation/show-slide/{id}", presentationHandler.ShowSlide).Methods(http.MethodGet)
	api.HandleFunc("/presentation/{id}", presentationHandler.GetPresentation).Methods(http.MethodGet)
	api.HandleFunc("/presentation/{id}", presentationHandler.UpdatePresentation).Methods(http.MethodPut)
	api.HandleFunc("/presentation/{id}", presentationHandler.DeletePresentation).Methods(http.MethodDelete)
	api.HandleFunc("/presentation/{id}/slides/{slideId}/thumbnail.png", presentationHandler.SlideThumbnail).Methods(http.MethodGet)

	// Viewer feed
	api.HandleFunc("/presentation/{id}/ws", wsHandler.HandleWebSocket)

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
