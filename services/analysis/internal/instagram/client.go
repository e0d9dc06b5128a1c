package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"event-swipe/services/analysis/internal/entity"
)

// ExtractionTimeout exceeds the scraper's observed worst case of about 40s.
const ExtractionTimeout = 45 * time.Second

const maxResponseBytes = 5 << 20

type Extractor interface {
	Extract(ctx context.Context, postURL string) (*entity.ExtractedPost, error)
}

// Client resolves post URLs through the external extraction service.
// It makes exactly one attempt per call.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: ExtractionTimeout},
	}
}

// NewClientWithHTTP is used when the caller needs a different transport or timeout.
func NewClientWithHTTP(endpoint string, httpClient *http.Client) *Client {
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

type extractionRequest struct {
	URL string `json:"url"`
}

// extractionResponse is the raw upstream body. It never leaves this file:
// decode converts it into an ExtractedPost or an ExtractionError.
type extractionResponse struct {
	Success     bool               `json:"success"`
	Media       []entity.MediaItem `json:"media"`
	Description *string            `json:"description"`
	Author      *string            `json:"author"`
	PostID      *string            `json:"post_id"`
	Error       string             `json:"error"`
	Detail      string             `json:"detail"`
}

func (c *Client) Extract(ctx context.Context, postURL string) (*entity.ExtractedPost, error) {
	if !IsValidPostURL(postURL) {
		return nil, entity.NewExtractionError(entity.ExtractionInvalidURL, InvalidURLMessage, nil)
	}

	payload, err := json.Marshal(extractionRequest{URL: postURL})
	if err != nil {
		return nil, entity.NewExtractionError(entity.ExtractionFailed, "Failed to encode extraction request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, entity.NewExtractionError(entity.ExtractionFailed, fmt.Sprintf("Failed to extract Instagram post: %v", err), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(err)
	}

	var data extractionResponse
	decodeErr := json.Unmarshal(body, &data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, data)
	}
	if decodeErr != nil {
		return nil, entity.NewExtractionError(entity.ExtractionFailed, "Failed to extract Instagram post: invalid response from extraction service", decodeErr)
	}

	return decode(postURL, data)
}

func decode(postURL string, data extractionResponse) (*entity.ExtractedPost, error) {
	if !data.Success {
		reason := "Extraction service reported failure"
		if data.Error != "" {
			reason = data.Error
		}
		return nil, entity.NewExtractionError(entity.ExtractionFailed, "Failed to extract Instagram post: "+reason, nil)
	}

	if len(data.Media) == 0 {
		return nil, entity.NewExtractionError(entity.ExtractionFailed, "No media found in Instagram post", nil)
	}

	post := &entity.ExtractedPost{
		ImageURL:  data.Media[0].URL,
		Caption:   entity.DefaultCaption,
		Author:    entity.DefaultAuthor,
		SourceURL: postURL,
		AllMedia:  data.Media,
	}
	if data.Description != nil {
		post.Caption = *data.Description
	}
	if data.Author != nil {
		post.Author = *data.Author
	}
	if data.PostID != nil {
		post.PostID = *data.PostID
	} else {
		post.PostID, _ = ExtractPostID(postURL)
	}

	return post, nil
}

func statusError(status int, data extractionResponse) *entity.ExtractionError {
	detail := data.Detail
	if detail == "" {
		detail = data.Error
	}

	switch status {
	case http.StatusNotFound:
		return entity.NewExtractionError(entity.ExtractionNotFound,
			"Instagram post not found or is private. Make sure the post is public.", nil)
	case http.StatusTooManyRequests:
		return entity.NewExtractionError(entity.ExtractionRateLimited,
			"Too many requests to Instagram. Please wait a few minutes and try again.", nil)
	case http.StatusInternalServerError:
		message := "Instagram extraction service encountered an internal error"
		if detail != "" {
			message += ": " + detail
		}
		return entity.NewExtractionError(entity.ExtractionUpstreamInternal, message, nil)
	default:
		message := fmt.Sprintf("Failed to extract Instagram post: extraction service returned status %d", status)
		if detail != "" {
			message += ": " + detail
		}
		return entity.NewExtractionError(entity.ExtractionFailed, message, nil)
	}
}

func transportError(err error) *entity.ExtractionError {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return entity.NewExtractionError(entity.ExtractionServiceUnavailable,
			"Instagram extraction service is unavailable. Please try again later.", err)
	case isTimeout(err):
		return entity.NewExtractionError(entity.ExtractionTimeout,
			"Instagram extraction timed out. The post may be too large or the service is slow. Please try again.", err)
	default:
		return entity.NewExtractionError(entity.ExtractionFailed,
			fmt.Sprintf("Failed to extract Instagram post: %v", err), err)
	}
}

// isTimeout covers the deadline family: client timeout, context deadline and
// dial failures that never established a connection.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}
