package inference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string, dim int) *Client {
	t.Helper()

	client, err := NewClient(&Config{
		Endpoint:        endpoint,
		RequestTimeoutS: 5,
		EmbeddingDim:    dim,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{RequestTimeoutS: 5, EmbeddingDim: 384})
	require.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 384)
		assert.True(t, client.HealthCheck(context.Background()))
	})

	t.Run("non-success status is unhealthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 384)
		assert.False(t, client.HealthCheck(context.Background()))
	})

	t.Run("unreachable service is unhealthy, not an error", func(t *testing.T) {
		client := newTestClient(t, "http://127.0.0.1:1", 384)
		assert.False(t, client.HealthCheck(context.Background()))
	})
}

func TestExtractText(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/extract", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()

			assert.Equal(t, "lecture.pdf", header.Filename)
			w.Write([]byte(`{"text": "hello world"}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 384)
		text, err := client.ExtractText(context.Background(), []byte("%PDF-1.4"), "lecture.pdf")
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
	})

	t.Run("empty extracted text is a valid result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"text": ""}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 384)
		text, err := client.ExtractText(context.Background(), []byte("data"), "empty.pdf")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("error status maps to ErrExtraction", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 384)
		_, err := client.ExtractText(context.Background(), []byte("data"), "broken.pdf")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtraction)
		assert.NotErrorIs(t, err, ErrTimeout)
	})

	t.Run("malformed body maps to ErrExtraction", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 384)
		_, err := client.ExtractText(context.Background(), []byte("data"), "bad.pdf")
		assert.ErrorIs(t, err, ErrExtraction)
	})

	t.Run("elapsed deadline maps to ErrTimeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 384)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := client.ExtractText(ctx, []byte("data"), "slow.pdf")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtraction)
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestGenerateEmbedding(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/embed", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"embedding": [0.1, 0.2, 0.3]}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 3)
		vec, err := client.GenerateEmbedding(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	})

	t.Run("empty text fails without contacting the service", func(t *testing.T) {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 3)
		_, err := client.GenerateEmbedding(context.Background(), "   \n\t ")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmbedding)
		assert.ErrorIs(t, err, ErrEmptyText)
		assert.Zero(t, calls.Load())
	})

	t.Run("dimension mismatch is fatal, not a success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"embedding": [0.1, 0.2]}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 3)
		_, err := client.GenerateEmbedding(context.Background(), "hello")
		require.Error(t, err)
		assert.True(t, IsDimensionMismatch(err))

		var dm *DimensionMismatchError
		require.True(t, errors.As(err, &dm))
		assert.Equal(t, 3, dm.Want)
		assert.Equal(t, 2, dm.Got)
	})

	t.Run("service error maps to ErrEmbedding", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 3)
		_, err := client.GenerateEmbedding(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrEmbedding)
	})
}
