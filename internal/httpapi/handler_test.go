package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
	"github.com/studystack/materials/internal/pipeline"
	"github.com/studystack/materials/internal/ratelimit"
	"github.com/studystack/materials/internal/service"
	"github.com/studystack/materials/internal/vectorindex"
)

// memStore is a minimal in-memory material.Store for handler tests.
type memStore struct {
	mu        sync.Mutex
	materials map[string]*material.Material
}

func newMemStore() *memStore {
	return &memStore{materials: make(map[string]*material.Material)}
}

func (s *memStore) GetMaterial(_ context.Context, id string) (*material.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return nil, material.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memStore) CreateMaterial(_ context.Context, m *material.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[m.ID]; ok {
		return material.ErrDuplicate
	}
	s.materials[m.ID] = m
	return nil
}

func (s *memStore) ClaimForProcessing(_ context.Context, id string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok || m.Status == material.StatusCompleted || m.Status == material.StatusProcessing {
		return false, nil
	}
	m.Status = material.StatusProcessing
	return true, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, status material.Status, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return material.ErrNotFound
	}
	m.Status = status
	if status == material.StatusFailed && errorMessage != "" {
		m.ErrorMessage = &errorMessage
	} else {
		m.ErrorMessage = nil
	}
	return nil
}

func (s *memStore) UpdateResult(_ context.Context, id string, text string, embedding []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return material.ErrNotFound
	}
	m.Status = material.StatusCompleted
	m.ExtractedText = &text
	m.Embedding = embedding
	return nil
}

func (s *memStore) DeleteMaterial(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[id]; !ok {
		return material.ErrNotFound
	}
	delete(s.materials, id)
	return nil
}

type stubInference struct{}

func (stubInference) ExtractText(context.Context, []byte, string) (string, error) {
	return "text", nil
}

func (stubInference) GenerateEmbedding(context.Context, string) ([]float64, error) {
	return []float64{0.1, 0.2}, nil
}

type stubBlob struct{}

func (stubBlob) Download(context.Context, string) ([]byte, error) {
	return []byte("%PDF"), nil
}

// blockingInference parks extraction until released, pinning a worker.
type blockingInference struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingInference) ExtractText(context.Context, []byte, string) (string, error) {
	b.started <- struct{}{}
	<-b.release
	return "text", nil
}

func (b *blockingInference) GenerateEmbedding(context.Context, string) ([]float64, error) {
	return []float64{0.1, 0.2}, nil
}

type testAPI struct {
	store  *memStore
	router http.Handler
}

func newTestAPI(t *testing.T, ceiling int) *testAPI {
	return newTestAPIWithPipeline(t, ceiling, 2, stubInference{})
}

func newTestAPIWithPipeline(t *testing.T, ceiling, workers int, inf pipeline.InferenceClient) *testAPI {
	t.Helper()

	log := logger.NewLoggerClient(logger.Config{Level: "error", ServiceName: "httpapi-test"})
	store := newMemStore()

	cfg := pipeline.Config{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		Multiplier:  2.0,
		StaleAfter:  15 * time.Minute,
		Workers:     workers,
		RunTimeout:  time.Minute,
	}
	processor, err := pipeline.NewProcessor(store, inf, stubBlob{}, cfg, log)
	require.NoError(t, err)
	dispatcher, err := pipeline.NewDispatcher(processor, cfg, log)
	require.NoError(t, err)
	t.Cleanup(dispatcher.Release)

	governor := ratelimit.NewGovernorWithStore(ratelimit.NewMemoryStore(), ceiling, 60*time.Second, log)

	svc := service.New(store, processor, dispatcher, governor, nil, log)
	require.NoError(t, svc.Initialize(context.Background()))

	index, err := vectorindex.NewIndex(vectorindex.Config{Enabled: false}, log)
	require.NoError(t, err)

	handler := NewHandler(svc, index, nil, nil, NewConfig(), log)
	return &testAPI{
		store:  store,
		router: NewRouter(handler, nil, log),
	}
}

func (a *testAPI) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "203.0.113.7:54321"
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateMaterial(t *testing.T) {
	api := newTestAPI(t, 100)

	t.Run("valid request creates pending material", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/materials", createMaterialRequest{
			OwnerID:        uuid.NewString(),
			StorageLocator: "materials/owner/notes.pdf",
			MimeType:       "application/pdf",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var m material.Material
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, material.StatusPending, m.Status)
	})

	t.Run("unsupported mime type is rejected", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/materials", createMaterialRequest{
			OwnerID:        uuid.NewString(),
			StorageLocator: "materials/owner/cat.gif",
			MimeType:       "image/gif",
		})
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		req := createMaterialRequest{
			ID:             uuid.NewString(),
			OwnerID:        uuid.NewString(),
			StorageLocator: "materials/owner/notes.pdf",
			MimeType:       "application/pdf",
		}
		require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/materials", req).Code)
		assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/materials", req).Code)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/materials", createMaterialRequest{MimeType: "application/pdf"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequestProcessing(t *testing.T) {
	api := newTestAPI(t, 100)

	t.Run("accepted for existing material", func(t *testing.T) {
		id := uuid.NewString()
		api.store.materials[id] = &material.Material{
			ID:             id,
			OwnerID:        uuid.NewString(),
			StorageLocator: "materials/owner/notes.pdf",
			MimeType:       "application/pdf",
			Status:         material.StatusPending,
		}

		rec := api.do(http.MethodPost, "/api/materials/"+id+"/process", nil)
		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "accepted", resp["status"])
		assert.Equal(t, id, resp["materialId"])

		// The background run against the stubs finishes quickly.
		assert.Eventually(t, func() bool {
			m, err := api.store.GetMaterial(context.Background(), id)
			return err == nil && m.Status == material.StatusCompleted
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("unknown material is 404", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/materials/"+uuid.NewString()+"/process", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRequestProcessingQueueFull(t *testing.T) {
	inf := &blockingInference{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	api := newTestAPIWithPipeline(t, 100, 1, inf)
	defer close(inf.release)

	seed := func() string {
		id := uuid.NewString()
		api.store.materials[id] = &material.Material{
			ID:             id,
			OwnerID:        uuid.NewString(),
			StorageLocator: "materials/owner/notes.pdf",
			MimeType:       "application/pdf",
			Status:         material.StatusPending,
		}
		return id
	}

	first, second := seed(), seed()

	require.Equal(t, http.StatusAccepted, api.do(http.MethodPost, "/api/materials/"+first+"/process", nil).Code)
	<-inf.started

	// The only worker is pinned; the next request is rejected, not queued.
	rec := api.do(http.MethodPost, "/api/materials/"+second+"/process", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "processing queue is full", resp["error"])
}

func TestDeleteMaterial(t *testing.T) {
	api := newTestAPI(t, 100)

	t.Run("existing material is removed", func(t *testing.T) {
		id := uuid.NewString()
		api.store.materials[id] = &material.Material{
			ID:             id,
			OwnerID:        uuid.NewString(),
			StorageLocator: "materials/owner/notes.pdf",
			MimeType:       "application/pdf",
			Status:         material.StatusCompleted,
		}

		rec := api.do(http.MethodDelete, "/api/materials/"+id, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(http.MethodGet, "/api/materials/"+id, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown material is 404", func(t *testing.T) {
		rec := api.do(http.MethodDelete, "/api/materials/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetMaterial(t *testing.T) {
	api := newTestAPI(t, 100)

	id := uuid.NewString()
	text := "lecture notes"
	api.store.materials[id] = &material.Material{
		ID:            id,
		OwnerID:       uuid.NewString(),
		MimeType:      "application/pdf",
		Status:        material.StatusCompleted,
		ExtractedText: &text,
		Embedding:     []float64{1, 2, 3},
	}

	rec := api.do(http.MethodGet, "/api/materials/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, text, body["extractedText"])
	// The raw embedding never leaves the service.
	assert.NotContains(t, body, "Embedding")
	assert.NotContains(t, body, "embedding")
}

func TestSearchDisabled(t *testing.T) {
	api := newTestAPI(t, 100)

	rec := api.do(http.MethodGet, "/api/materials/search?q=thermodynamics&ownerId=owner-1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, 100)

	rec := api.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
