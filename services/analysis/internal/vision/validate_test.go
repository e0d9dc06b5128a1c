package vision

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 1x1 transparent PNG
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestValidateImageData_Valid(t *testing.T) {
	longRaw := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("event flyer ", 20)))

	cases := []string{
		"https://cdn.example.com/flyer.jpg",
		"http://localhost:9000/bucket/a.png",
		"HTTPS://CDN.EXAMPLE.COM/A.JPG",
		"data:image/png;base64," + pixelPNG,
		"data:image/webp;base64," + pixelPNG,
		longRaw,
	}

	for _, image := range cases {
		result := ValidateImageData(image)
		assert.True(t, result.Valid, image)
		assert.Empty(t, result.Error)
	}
}

func TestValidateImageData_Invalid(t *testing.T) {
	cases := map[string]string{
		"":                                 errEmptyImage,
		"   ":                              errEmptyImage,
		"https://":                         errInvalidFormat,
		"data:text/plain;base64,aGVsbG8=":  errInvalidFormat,
		"data:image/png;base64,@@@not-b64": errInvalidFormat,
		"data:image/png," + pixelPNG:       errInvalidFormat,
		"hello world":                      errInvalidFormat,
		pixelPNG:                           errInvalidFormat,
		strings.Repeat("!", 200):           errInvalidFormat,
	}

	for image, message := range cases {
		result := ValidateImageData(image)
		assert.False(t, result.Valid, image)
		assert.Equal(t, message, result.Error, image)
	}
}

func TestValidateImageData_TooLarge(t *testing.T) {
	payload := strings.Repeat("A", (MaxImageBytes/3)*4+8)

	result := ValidateImageData("data:image/jpeg;base64," + payload)
	assert.False(t, result.Valid)
	assert.Equal(t, errImageTooLarge, result.Error)
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://x/a.jpg"))
	assert.True(t, IsImageURL("http://x/a.jpg"))
	assert.False(t, IsImageURL("data:image/png;base64,AAAA"))
	assert.False(t, IsImageURL(pixelPNG))
}
