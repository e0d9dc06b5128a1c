package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAnalyzer_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body httpAnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://cdn.example.com/flyer.jpg", body.Image)
		assert.Equal(t, "Summer Fest", body.Title)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"analysis":{"title":"Summer Fest","date":"2025-07-01"},"metadata":{"model":"x"}}`))
	}))
	defer server.Close()

	analyzer := NewHTTPAnalyzer(server.URL, time.Second)
	result, err := analyzer.Analyze(context.Background(), "https://cdn.example.com/flyer.jpg", "Summer Fest")

	require.NoError(t, err)
	assert.Equal(t, "Summer Fest", result.Analysis["title"])
	assert.Equal(t, "x", result.Metadata["model"])
}

func TestHTTPAnalyzer_MissingMetadataBecomesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"analysis":{"is_event":false}}`))
	}))
	defer server.Close()

	result, err := NewHTTPAnalyzer(server.URL, time.Second).Analyze(context.Background(), "img", "")

	require.NoError(t, err)
	assert.NotNil(t, result.Metadata)
	assert.Empty(t, result.Metadata)
}

func TestHTTPAnalyzer_Failures(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"upstream error with message", http.StatusBadGateway, `{"error":"model overloaded"}`, "model overloaded"},
		{"upstream error without body", http.StatusInternalServerError, ``, "status 500"},
		{"success false", http.StatusOK, `{"success":false,"message":"unreadable image"}`, "unreadable image"},
		{"no analysis", http.StatusOK, `{"metadata":{}}`, "no analysis"},
		{"not json", http.StatusOK, `<html>`, "invalid vision response"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			result, err := NewHTTPAnalyzer(server.URL, time.Second).Analyze(context.Background(), "img", "")

			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestHTTPAnalyzer_Unreachable(t *testing.T) {
	result, err := NewHTTPAnalyzer("http://127.0.0.1:1/analyze", time.Second).Analyze(context.Background(), "img", "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "unreachable")
}
