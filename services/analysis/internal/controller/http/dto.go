package http

type AnalyzeImageRequest struct {
	Image string `json:"image" example:"https://cdn.example.com/flyer.jpg"`
	Title string `json:"title" example:"Summer Rooftop Party"`
}

type AnalyzeURLRequest struct {
	URL string `json:"url" example:"https://instagram.com/p/ABC123"`
}

type AnalyzeImageResponse struct {
	Success  bool                   `json:"success"`
	Analysis map[string]interface{} `json:"analysis"`
	Metadata map[string]interface{} `json:"metadata"`
}

type PostMetadataResponse struct {
	Author      string `json:"author"`
	Description string `json:"description"`
}

type AnalyzeURLResponse struct {
	Success           bool                   `json:"success"`
	SourceURL         string                 `json:"source_url"`
	Platform          string                 `json:"platform"`
	ExtractedImageURL string                 `json:"extracted_image_url"`
	PostMetadata      PostMetadataResponse   `json:"post_metadata"`
	Analysis          map[string]interface{} `json:"analysis"`
	Metadata          map[string]interface{} `json:"metadata"`
}

// ErrorResponse is the body of every non-2xx answer. Message is omitted for 400s.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
