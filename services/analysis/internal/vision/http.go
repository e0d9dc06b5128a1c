package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"event-swipe/services/analysis/internal/entity"
)

const DefaultHTTPTimeout = 60 * time.Second

// HTTPAnalyzer talks to a standalone vision service that accepts
// {"image", "title"} and answers {"analysis", "metadata"}.
type HTTPAnalyzer struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPAnalyzer(endpoint string, timeout time.Duration) *HTTPAnalyzer {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPAnalyzer{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type httpAnalyzeRequest struct {
	Image string `json:"image"`
	Title string `json:"title,omitempty"`
}

type httpAnalyzeResponse struct {
	Success  *bool                  `json:"success"`
	Analysis map[string]interface{} `json:"analysis"`
	Metadata map[string]interface{} `json:"metadata"`
	Error    string                 `json:"error"`
	Message  string                 `json:"message"`
	Detail   string                 `json:"detail"`
}

func (r *httpAnalyzeResponse) reason() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.Error != "":
		return r.Error
	default:
		return r.Detail
	}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, imageRef, titleHint string) (*entity.AnalysisResult, error) {
	payload, err := json.Marshal(httpAnalyzeRequest{Image: imageRef, Title: titleHint})
	if err != nil {
		return nil, fmt.Errorf("failed to encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}

	var decoded httpAnalyzeResponse
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && decoded.reason() != "" {
			return nil, fmt.Errorf("vision service returned status %d: %s", resp.StatusCode, decoded.reason())
		}
		return nil, fmt.Errorf("vision service returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("invalid vision response: %w", decodeErr)
	}
	if decoded.Success != nil && !*decoded.Success {
		reason := decoded.reason()
		if reason == "" {
			reason = "unknown error"
		}
		return nil, fmt.Errorf("vision analysis failed: %s", reason)
	}
	if decoded.Analysis == nil {
		return nil, fmt.Errorf("vision service returned no analysis")
	}
	if decoded.Metadata == nil {
		decoded.Metadata = map[string]interface{}{}
	}

	return &entity.AnalysisResult{Analysis: decoded.Analysis, Metadata: decoded.Metadata}, nil
}
