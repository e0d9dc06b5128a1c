package usecase

import (
	"context"
	"strings"
	"time"

	"event-swipe/pkg/logger"
	"event-swipe/pkg/queue"
	"event-swipe/services/analysis/internal/entity"
	"event-swipe/services/analysis/internal/instagram"
	"event-swipe/services/analysis/internal/repo/persistent"
	"event-swipe/services/analysis/internal/vision"

	"github.com/google/uuid"
)

const (
	// DefaultURLTitleHint is sent to the vision service when a post has no caption.
	DefaultURLTitleHint = "Instagram Event Post"

	persistTimeout = 10 * time.Second
)

type AnalysisUseCase interface {
	AnalyzeImage(ctx context.Context, image, title string) (*entity.AnalysisResult, error)
	AnalyzeURL(ctx context.Context, postURL string) (*entity.URLAnalysis, error)
}

// EventPublisher is satisfied by *queue.Client.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

type analysisUseCase struct {
	extractor instagram.Extractor
	analyzer  vision.Analyzer
	repo      persistent.AnalysisRepository
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewAnalysisUseCase wires the flow. repo and publisher may be nil, in which
// case the corresponding best-effort step is skipped.
func NewAnalysisUseCase(
	extractor instagram.Extractor,
	analyzer vision.Analyzer,
	repo persistent.AnalysisRepository,
	publisher EventPublisher,
	logger *logger.Logger,
) AnalysisUseCase {
	return &analysisUseCase{
		extractor: extractor,
		analyzer:  analyzer,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *analysisUseCase) AnalyzeImage(ctx context.Context, image, title string) (*entity.AnalysisResult, error) {
	if image == "" {
		return nil, entity.NewValidationError("image", "Image data is required")
	}
	if check := vision.ValidateImageData(image); !check.Valid {
		return nil, entity.NewValidationError("image", check.Error)
	}
	image = strings.TrimSpace(image)

	// Once accepted, the request runs to completion even if the client goes away.
	result, err := uc.analyzer.Analyze(context.WithoutCancel(ctx), image, title)
	if err != nil {
		uc.logger.Error("Image analysis failed: %v", err)
		return nil, entity.NewAnalysisError(err)
	}

	imageURL := entity.Base64ImageMarker
	if vision.IsImageURL(image) {
		imageURL = image
	}

	record := &entity.ImageAnalysisRecord{
		ID:        uuid.New().String(),
		ImageURL:  imageURL,
		Analysis:  result.Analysis,
		Metadata:  result.Metadata,
		CreatedAt: uc.now().UTC(),
	}

	// Best effort: the caller gets the analysis whether or not this write lands.
	persisted := uc.persist(ctx, entity.CollectionEventAnalyses, func(ctx context.Context) error {
		return uc.repo.SaveImageAnalysis(ctx, record)
	})
	uc.publish(ctx, queue.RoutingKeyImageCompleted, &entity.AnalysisEvent{
		RecordID:   record.ID,
		Collection: entity.CollectionEventAnalyses,
		ImageURL:   record.ImageURL,
		Persisted:  persisted,
		CreatedAt:  record.CreatedAt,
	})

	return result, nil
}

func (uc *analysisUseCase) AnalyzeURL(ctx context.Context, postURL string) (*entity.URLAnalysis, error) {
	if postURL == "" {
		return nil, entity.NewValidationError("url", "URL is required")
	}
	if !instagram.IsValidPostURL(postURL) {
		return nil, entity.NewValidationError("url", instagram.InvalidURLMessage)
	}

	ctx = context.WithoutCancel(ctx)

	post, err := uc.extractor.Extract(ctx, postURL)
	if err != nil {
		uc.logger.Error("Instagram extraction failed for %s: %v", postURL, err)
		return nil, err
	}

	titleHint := post.Caption
	if titleHint == "" {
		titleHint = DefaultURLTitleHint
	}

	result, err := uc.analyzer.Analyze(ctx, post.ImageURL, titleHint)
	if err != nil {
		uc.logger.Error("Analysis of extracted image %s failed: %v", post.ImageURL, err)
		return nil, entity.NewAnalysisError(err)
	}

	record := &entity.URLAnalysisRecord{
		ID:                uuid.New().String(),
		SourceURL:         postURL,
		Platform:          entity.PlatformInstagram,
		PostID:            post.PostID,
		ExtractedImageURL: post.ImageURL,
		PostMetadata: entity.PostMetadata{
			Author:  post.Author,
			Caption: post.Caption,
		},
		Analysis:  result.Analysis,
		Metadata:  result.Metadata,
		CreatedAt: uc.now().UTC(),
	}

	// Best effort, same as the image flow.
	persisted := uc.persist(ctx, entity.CollectionURLAnalyses, func(ctx context.Context) error {
		return uc.repo.SaveURLAnalysis(ctx, record)
	})
	uc.publish(ctx, queue.RoutingKeyURLCompleted, &entity.AnalysisEvent{
		RecordID:   record.ID,
		Collection: entity.CollectionURLAnalyses,
		ImageURL:   record.ExtractedImageURL,
		SourceURL:  record.SourceURL,
		Persisted:  persisted,
		CreatedAt:  record.CreatedAt,
	})

	return &entity.URLAnalysis{Post: post, Result: result}, nil
}

// persist runs save detached from the request's cancellation. Errors are
// logged and reported only through the return value.
func (uc *analysisUseCase) persist(ctx context.Context, collection entity.Collection, save func(context.Context) error) bool {
	if uc.repo == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := save(ctx); err != nil {
		uc.logger.Error("Failed to persist analysis to %s: %v", collection, err)
		return false
	}
	return true
}

func (uc *analysisUseCase) publish(ctx context.Context, routingKey string, event *entity.AnalysisEvent) {
	if uc.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := uc.publisher.Publish(ctx, routingKey, event); err != nil {
		uc.logger.Error("Failed to publish %s event for %s: %v", routingKey, event.RecordID, err)
	}
}
