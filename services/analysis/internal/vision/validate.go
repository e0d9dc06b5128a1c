package vision

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

const (
	MaxImageBytes = 10 << 20

	minRawBase64Length = 100

	errEmptyImage    = "Image data cannot be empty"
	errInvalidFormat = "Invalid image format. Provide an http(s) URL or a base64-encoded image"
	errImageTooLarge = "Image is too large. Maximum size is 10MB"
)

var dataURIPattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif|webp);base64,(.+)$`)

type ValidationResult struct {
	Valid bool
	Error string
}

// ValidateImageData accepts an http(s) URL with a host, an image data URI with a
// decodable base64 payload, or raw base64 of at least 100 characters.
func ValidateImageData(image string) ValidationResult {
	image = strings.TrimSpace(image)
	if image == "" {
		return invalid(errEmptyImage)
	}

	if IsImageURL(image) {
		u, err := url.Parse(image)
		if err != nil || u.Host == "" {
			return invalid(errInvalidFormat)
		}
		return ValidationResult{Valid: true}
	}

	payload := image
	if strings.HasPrefix(strings.ToLower(image), "data:") {
		match := dataURIPattern.FindStringSubmatch(image)
		if match == nil {
			return invalid(errInvalidFormat)
		}
		payload = match[2]
	} else if len(image) < minRawBase64Length {
		return invalid(errInvalidFormat)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return invalid(errImageTooLarge)
	}
	if _, err := decodeBase64(payload); err != nil {
		return invalid(errInvalidFormat)
	}

	return ValidationResult{Valid: true}
}

// IsImageURL reports whether image should be treated as a remote reference
// rather than an inline payload.
func IsImageURL(image string) bool {
	lower := strings.ToLower(image)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func decodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

func invalid(message string) ValidationResult {
	return ValidationResult{Valid: false, Error: message}
}
