package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const imageFetchTimeout = 20 * time.Second

var (
	ErrImageFetchFailed = errors.New("failed to fetch image")
	ErrImageTooLarge    = errors.New("image exceeds maximum size")
	ErrUnsupportedImage = errors.New("unsupported image content")
)

// imagePayload is the provider-facing form of an image reference. URL is set
// only when the caller sent a remote reference.
type imagePayload struct {
	URL      string
	Data     []byte
	MIMEType string
}

func (p *imagePayload) dataURI() string {
	return "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

type imageLoader struct {
	httpClient *http.Client
	maxBytes   int64
}

func newImageLoader(httpClient *http.Client) *imageLoader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: imageFetchTimeout}
	}
	return &imageLoader{httpClient: httpClient, maxBytes: MaxImageBytes}
}

// load resolves ref into bytes. Remote references are downloaded only when
// download is true; otherwise just the URL is returned.
func (l *imageLoader) load(ctx context.Context, ref string, download bool) (*imagePayload, error) {
	ref = strings.TrimSpace(ref)

	if IsImageURL(ref) {
		if !download {
			return &imagePayload{URL: ref}, nil
		}
		data, mimeType, err := l.fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &imagePayload{URL: ref, Data: data, MIMEType: mimeType}, nil
	}

	payload := ref
	declared := ""
	if match := dataURIPattern.FindStringSubmatch(ref); match != nil {
		declared = "image/" + strings.Replace(match[1], "jpg", "jpeg", 1)
		payload = match[2]
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload", ErrUnsupportedImage)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, ErrImageTooLarge
	}

	mimeType, err := sniffImageType(data, declared)
	if err != nil {
		return nil, err
	}
	return &imagePayload{Data: data, MIMEType: mimeType}, nil
}

func (l *imageLoader) fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageFetchFailed, err)
	}
	req.Header.Set("User-Agent", "EventSwipe-Analysis/1.0")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: unexpected status code %d", ErrImageFetchFailed, resp.StatusCode)
	}
	if resp.ContentLength > l.maxBytes {
		return nil, "", ErrImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read response body: %v", ErrImageFetchFailed, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, "", ErrImageTooLarge
	}

	declared := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	mimeType, err := sniffImageType(data, declared)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}

// sniffImageType prefers the detected type and falls back to the declared one
// when detection is inconclusive.
func sniffImageType(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	detected := http.DetectContentType(data)
	if strings.HasPrefix(detected, "image/") {
		return detected, nil
	}
	if strings.HasPrefix(declared, "image/") {
		return declared, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, detected)
}
