package prediction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"helix/api/models"
	"helix/api/models/constants/command"
	outputType "helix/api/models/constants/output-type"
	"helix/api/models/genomic"

	"github.com/stretchr/testify/assert"
)

func makeClient(serverUrl string) Client {
	cfg := &models.Config{}
	cfg.Prediction.Url = serverUrl
	return NewClient(cfg)
}

func makeRequest() genomic.PredictionRequest {
	return genomic.PredictionRequest{
		Action: command.ActionPredict,
		Input:  genomic.SequenceInput{Bases: "ATCGATCGAT"},
	}
}

func TestPredictOrScore(t *testing.T) {
	t.Run("decodes tracks and scores, skipping unknown output types", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/predict", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"requestId": "req-1",
				"outputs": {
					"RNA_SEQ": {"tracks": [{"name": "gene_expression", "values": [0.1, 0.9]}]},
					"SOMETHING_NEW": {"tracks": [{"name": "ignored", "values": [1]}]}
				},
				"scores": {"expression_lfc": 0.42}
			}`))
		}))
		defer server.Close()

		bundle, err := makeClient(server.URL).PredictOrScore(context.Background(), makeRequest(), "test-key")

		assert.NoError(t, err)
		assert.Equal(t, "req-1", bundle.RequestId)
		assert.Len(t, bundle.Outputs, 1)
		assert.Len(t, bundle.Outputs[outputType.RnaSeq].Tracks, 1)
		assert.Equal(t, 0.42, bundle.Scores["expression_lfc"])
		assert.False(t, bundle.IsEmpty())
	})

	t.Run("a trackless, scoreless bundle is empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"requestId": "req-2", "outputs": {}, "scores": {}}`))
		}))
		defer server.Close()

		bundle, err := makeClient(server.URL).PredictOrScore(context.Background(), makeRequest(), "test-key")

		assert.NoError(t, err)
		assert.True(t, bundle.IsEmpty())
	})

	t.Run("authentication failures point the user back at setup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := makeClient(server.URL).PredictOrScore(context.Background(), makeRequest(), "bad-key")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "setup")
	})

	t.Run("rate limiting is reported as a quota problem", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := makeClient(server.URL).PredictOrScore(context.Background(), makeRequest(), "test-key")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Quota exceeded")
	})

	t.Run("upstream detail is surfaced on bad requests", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message": "interval crosses a chromosome boundary"}`))
		}))
		defer server.Close()

		_, err := makeClient(server.URL).PredictOrScore(context.Background(), makeRequest(), "test-key")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "interval crosses a chromosome boundary")
	})
}

func TestOutputMetadata(t *testing.T) {
	t.Run("decodes the model metadata", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/metadata", r.URL.Path)
			w.Write([]byte(`{"modelVersion": "1.4.0", "outputTypes": ["RNA_SEQ", "ATAC"]}`))
		}))
		defer server.Close()

		metadata, err := makeClient(server.URL).OutputMetadata(context.Background(), "test-key")

		assert.NoError(t, err)
		assert.Equal(t, "1.4.0", metadata.ModelVersion)
		assert.Len(t, metadata.OutputTypes, 2)
	})

	t.Run("a rejected credential is not retried", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := makeClient(server.URL).OutputMetadata(context.Background(), "bad-key")

		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})
}
