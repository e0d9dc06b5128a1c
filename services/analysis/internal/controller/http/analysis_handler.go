package http

import (
	"errors"
	"io"
	"net/http"

	"event-swipe/pkg/logger"
	"event-swipe/pkg/middleware"
	"event-swipe/services/analysis/internal/entity"
	"event-swipe/services/analysis/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	errExtractionFailed = "Failed to extract Instagram post"
	errAnalysisFailed   = "Failed to analyze image"
	errInvalidBody      = "Invalid request body"
)

type AnalysisHandler struct {
	analysisUseCase usecase.AnalysisUseCase
	logger          *logger.Logger
	exposeDetail    bool
}

// NewAnalysisHandler builds the handler. exposeDetail controls whether
// unclassified errors carry their message to the client.
func NewAnalysisHandler(analysisUseCase usecase.AnalysisUseCase, logger *logger.Logger, exposeDetail bool) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUseCase: analysisUseCase,
		logger:          logger,
		exposeDetail:    exposeDetail,
	}
}

// AnalyzeImage godoc
// @Summary      Analyze an event image
// @Description  Runs the vision analysis on an image URL or base64 payload and returns the extracted event details.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AnalyzeImageRequest true "Image reference and optional title"
// @Success      200  {object}  AnalyzeImageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /events/analyze-image [post]
func (h *AnalysisHandler) AnalyzeImage(c *gin.Context) {
	var req AnalyzeImageRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warn("Rejected analyze-image body: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: errInvalidBody})
		return
	}

	result, err := h.analysisUseCase.AnalyzeImage(c.Request.Context(), req.Image, req.Title)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeImageResponse{
		Success:  true,
		Analysis: result.Analysis,
		Metadata: result.Metadata,
	})
}

// AnalyzeURL godoc
// @Summary      Analyze an Instagram post
// @Description  Resolves a public Instagram post or reel to its first image, analyzes it and returns the event details with post provenance.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AnalyzeURLRequest true "Instagram post URL"
// @Success      200  {object}  AnalyzeURLResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /events/analyze-url [post]
func (h *AnalysisHandler) AnalyzeURL(c *gin.Context) {
	var req AnalyzeURLRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warn("Rejected analyze-url body: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: errInvalidBody})
		return
	}

	out, err := h.analysisUseCase.AnalyzeURL(c.Request.Context(), req.URL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeURLResponse{
		Success:           true,
		SourceURL:         req.URL,
		Platform:          entity.PlatformInstagram,
		ExtractedImageURL: out.Post.ImageURL,
		PostMetadata: PostMetadataResponse{
			Author:      out.Post.Author,
			Description: out.Post.Caption,
		},
		Analysis: out.Result.Analysis,
		Metadata: out.Result.Metadata,
	})
}

func (h *AnalysisHandler) respondError(c *gin.Context, err error) {
	var validationErr *entity.ValidationError
	var extractionErr *entity.ExtractionError
	var analysisErr *entity.AnalysisError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: validationErr.Message})
	case errors.As(err, &extractionErr):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   errExtractionFailed,
			Message: extractionErr.Message,
		})
	case errors.As(err, &analysisErr):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   errAnalysisFailed,
			Message: analysisErr.Message,
		})
	default:
		h.logger.Error("Unhandled analysis error: %v", err)
		middleware.AbortWithInternalError(c, err.Error(), h.exposeDetail)
	}
}

// bindJSON treats an empty body as {} so missing fields get their own
// validation message.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
