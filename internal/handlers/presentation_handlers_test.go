package handlers

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidedeck/internal/models"
	"slidedeck/internal/services"
)

type fixture struct {
	router  http.Handler
	hub     *services.WebSocketService
	dataDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := services.NewPresentationStore(dir)
	require.NoError(t, err)

	hub := services.NewWebSocketService()
	go hub.Run()
	t.Cleanup(hub.Stop)

	svc := services.NewPresentationService(store, hub, services.NewSlideImageStore(dir))
	router := SetupRoutes(NewPresentationHandler(svc), NewWebSocketHandler(hub, svc))
	return fixture{router: router, hub: hub, dataDir: dir}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   []string        `json:"error"`
}

func (f fixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if s, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(s))
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (f fixture) create(t *testing.T) models.Presentation {
	t.Helper()
	rec, env := f.do(t, http.MethodPost, "/api/presentation", map[string]string{"lessonId": "l1", "title": "Intro"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var p models.Presentation
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	p := f.create(t)
	require.Len(t, p.Slides, 1)

	rec, env := f.do(t, http.MethodGet, "/api/presentation/"+p.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var got models.Presentation
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, p, got)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	f := newFixture(t)
	rec, env := f.do(t, http.MethodPost, "/api/presentation", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestInvalidJSON(t *testing.T) {
	f := newFixture(t)
	rec, env := f.do(t, http.MethodPost, "/api/presentation", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", env.Message)
}

func TestGetMissingIs404(t *testing.T) {
	f := newFixture(t)
	rec, env := f.do(t, http.MethodGet, "/api/presentation/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestUpdateReplacesDocument(t *testing.T) {
	f := newFixture(t)
	p := f.create(t)
	p.Title = "Renamed"
	p.Slides = append(p.Slides, models.CreateSlide("s2", p.ID, 2))

	rec, _ := f.do(t, http.MethodPut, "/api/presentation/"+p.ID, p)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env := f.do(t, http.MethodGet, "/api/presentation/"+p.ID, "")
	var got models.Presentation
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Renamed", got.Title)
	assert.Len(t, got.Slides, 2)
}

func TestUpdateValidationError(t *testing.T) {
	f := newFixture(t)
	p := f.create(t)
	p.Slides[0].PageNumber = 3

	rec, env := f.do(t, http.MethodPut, "/api/presentation/"+p.ID, p)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, env.Error)
}

func TestDeleteAndList(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)
	f.create(t)

	_, env := f.do(t, http.MethodGet, "/api/presentation?lessonId=l1", "")
	var list []models.Presentation
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	rec, _ := f.do(t, http.MethodDelete, "/api/presentation/"+a.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodDelete, "/api/presentation/"+a.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/presentation", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowSlide(t *testing.T) {
	f := newFixture(t)
	p := f.create(t)
	rec, env := f.do(t, http.MethodGet, "/api/presentation/show-slide/"+p.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestSlideThumbnail(t *testing.T) {
	f := newFixture(t)
	p := f.create(t)
	slideID := p.Slides[0].ID

	rec, _ := f.do(t, http.MethodGet, "/api/presentation/"+p.ID+"/slides/"+slideID+"/thumbnail.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	cfg, err := png.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, 72, cfg.Height)

	_, err = os.Stat(filepath.Join(f.dataDir, "presentations", p.ID, "slides", slideID+".png"))
	assert.NoError(t, err)

	rec, _ = f.do(t, http.MethodGet, "/api/presentation/"+p.ID+"/slides/"+slideID+"/thumbnail.png?width=320&height=180", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cfg, err = png.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)

	rec, _ = f.do(t, http.MethodGet, "/api/presentation/"+p.ID+"/slides/missing/thumbnail.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/api/presentation/"+p.ID+"/slides/"+slideID+"/thumbnail.png?width=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebSocketReceivesSaves(t *testing.T) {
	f := newFixture(t)
	p := f.create(t)

	srv := httptest.NewServer(f.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/presentation/" + p.ID + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev services.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, services.EventConnected, ev.Type)

	p.Title = "Live"
	rec, _ := f.do(t, http.MethodPut, "/api/presentation/"+p.ID, p)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, services.EventPresentationSaved, ev.Type)
	assert.Equal(t, p.ID, ev.PresentationID)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/presentation/missing/ws", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
