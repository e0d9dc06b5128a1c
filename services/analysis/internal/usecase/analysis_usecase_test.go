package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"event-swipe/pkg/logger"
	"event-swipe/pkg/queue"
	"event-swipe/services/analysis/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, postURL string) (*entity.ExtractedPost, error) {
	args := m.Called(ctx, postURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExtractedPost), args.Error(1)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, imageRef, titleHint string) (*entity.AnalysisResult, error) {
	args := m.Called(ctx, imageRef, titleHint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AnalysisResult), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveImageAnalysis(ctx context.Context, record *entity.ImageAnalysisRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRepository) SaveURLAnalysis(ctx context.Context, record *entity.URLAnalysisRecord) error {
	return m.Called(ctx, record).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

type fixture struct {
	extractor *MockExtractor
	analyzer  *MockAnalyzer
	repo      *MockRepository
	publisher *MockPublisher
	uc        *analysisUseCase
}

var fixedNow = time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		extractor: new(MockExtractor),
		analyzer:  new(MockAnalyzer),
		repo:      new(MockRepository),
		publisher: new(MockPublisher),
	}
	uc := NewAnalysisUseCase(f.extractor, f.analyzer, f.repo, f.publisher, logger.NewNop()).(*analysisUseCase)
	uc.now = func() time.Time { return fixedNow }
	f.uc = uc
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.extractor.AssertExpectations(t)
	f.analyzer.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func sampleResult() *entity.AnalysisResult {
	return &entity.AnalysisResult{
		Analysis: map[string]interface{}{"title": "Night Market", "is_event": true},
		Metadata: map[string]interface{}{"model": "test"},
	}
}

func rawBase64Image() string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("flyer-bytes ", 20)))
}

func TestAnalyzeImage_MissingImage(t *testing.T) {
	f := newFixture()

	result, err := f.uc.AnalyzeImage(context.Background(), "", "title")

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Image data is required", validationErr.Message)
	assert.Nil(t, result)
	f.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeImage_InvalidFormat(t *testing.T) {
	f := newFixture()

	_, err := f.uc.AnalyzeImage(context.Background(), "not an image", "")

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Invalid image format. Provide an http(s) URL or a base64-encoded image", validationErr.Message)
	f.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeImage_URLIsPersistedAsIs(t *testing.T) {
	f := newFixture()
	image := "https://cdn.example.com/flyer.jpg"
	result := sampleResult()

	f.analyzer.On("Analyze", mock.Anything, image, "Night Market").Return(result, nil)
	f.repo.On("SaveImageAnalysis", mock.Anything, mock.MatchedBy(func(r *entity.ImageAnalysisRecord) bool {
		return r.ImageURL == image &&
			r.ID != "" &&
			r.CreatedAt.Equal(fixedNow) &&
			r.Analysis["title"] == "Night Market" &&
			r.Metadata["model"] == "test"
	})).Return(nil)
	f.publisher.On("Publish", mock.Anything, queue.RoutingKeyImageCompleted, mock.MatchedBy(func(e *entity.AnalysisEvent) bool {
		return e.Persisted && e.Collection == entity.CollectionEventAnalyses && e.ImageURL == image
	})).Return(nil)

	got, err := f.uc.AnalyzeImage(context.Background(), image, "Night Market")

	require.NoError(t, err)
	assert.Same(t, result, got)
	f.assertExpectations(t)
}

func TestAnalyzeImage_Base64IsNeverPersisted(t *testing.T) {
	f := newFixture()
	image := rawBase64Image()

	f.analyzer.On("Analyze", mock.Anything, image, "").Return(sampleResult(), nil)
	f.repo.On("SaveImageAnalysis", mock.Anything, mock.MatchedBy(func(r *entity.ImageAnalysisRecord) bool {
		return r.ImageURL == entity.Base64ImageMarker
	})).Return(nil)
	f.publisher.On("Publish", mock.Anything, queue.RoutingKeyImageCompleted, mock.Anything).Return(nil)

	_, err := f.uc.AnalyzeImage(context.Background(), image, "")

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAnalyzeImage_Base64StartingWithHTTPIsNeverPersisted(t *testing.T) {
	f := newFixture()
	// "http" is four valid base64 characters.
	image := "http" + strings.Repeat("A", 156)

	f.analyzer.On("Analyze", mock.Anything, image, "").Return(sampleResult(), nil)
	f.repo.On("SaveImageAnalysis", mock.Anything, mock.MatchedBy(func(r *entity.ImageAnalysisRecord) bool {
		return r.ImageURL == entity.Base64ImageMarker
	})).Return(nil)
	f.publisher.On("Publish", mock.Anything, queue.RoutingKeyImageCompleted, mock.MatchedBy(func(e *entity.AnalysisEvent) bool {
		return e.ImageURL == entity.Base64ImageMarker
	})).Return(nil)

	_, err := f.uc.AnalyzeImage(context.Background(), image, "")

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAnalyzeImage_URLSchemeCaseAndWhitespace(t *testing.T) {
	for _, input := range []string{
		"HTTPS://cdn.example.com/flyer.jpg",
		"  https://cdn.example.com/flyer.jpg\n",
	} {
		f := newFixture()
		want := strings.TrimSpace(input)

		f.analyzer.On("Analyze", mock.Anything, want, "").Return(sampleResult(), nil)
		f.repo.On("SaveImageAnalysis", mock.Anything, mock.MatchedBy(func(r *entity.ImageAnalysisRecord) bool {
			return r.ImageURL == want
		})).Return(nil)
		f.publisher.On("Publish", mock.Anything, queue.RoutingKeyImageCompleted, mock.Anything).Return(nil)

		_, err := f.uc.AnalyzeImage(context.Background(), input, "")

		require.NoError(t, err, input)
		f.assertExpectations(t)
	}
}

func TestAnalyzeImage_VisionFailure(t *testing.T) {
	f := newFixture()
	image := "https://cdn.example.com/flyer.jpg"

	f.analyzer.On("Analyze", mock.Anything, image, "").Return(nil, errors.New("vision service returned status 503"))

	result, err := f.uc.AnalyzeImage(context.Background(), image, "")

	var analysisErr *entity.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, "vision service returned status 503", analysisErr.Message)
	assert.Nil(t, result)
	f.repo.AssertNotCalled(t, "SaveImageAnalysis", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeImage_PersistenceFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	image := "https://cdn.example.com/flyer.jpg"
	result := sampleResult()

	f.analyzer.On("Analyze", mock.Anything, image, "").Return(result, nil)
	f.repo.On("SaveImageAnalysis", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	f.publisher.On("Publish", mock.Anything, queue.RoutingKeyImageCompleted, mock.MatchedBy(func(e *entity.AnalysisEvent) bool {
		return !e.Persisted
	})).Return(errors.New("channel closed"))

	got, err := f.uc.AnalyzeImage(context.Background(), image, "")

	require.NoError(t, err)
	assert.Same(t, result, got)
	f.assertExpectations(t)
}

func TestAnalyzeImage_PersistsAfterRequestCancellation(t *testing.T) {
	f := newFixture()
	image := "https://cdn.example.com/flyer.jpg"
	ctx, cancel := context.WithCancel(context.Background())

	f.analyzer.On("Analyze", mock.Anything, image, "").Run(func(mock.Arguments) { cancel() }).Return(sampleResult(), nil)
	f.repo.On("SaveImageAnalysis", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.AnalyzeImage(ctx, image, "")

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAnalyzeImage_CancelledRequestStillAnalyzes(t *testing.T) {
	f := newFixture()
	image := "https://cdn.example.com/flyer.jpg"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
	f.analyzer.On("Analyze", live, image, "").Return(sampleResult(), nil)
	f.repo.On("SaveImageAnalysis", live, mock.Anything).Return(nil)
	f.publisher.On("Publish", live, mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.AnalyzeImage(ctx, image, "")

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAnalyzeURL_CancelledRequestRunsToCompletion(t *testing.T) {
	f := newFixture()
	postURL := "https://www.instagram.com/p/ABC123/"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
	f.extractor.On("Extract", live, postURL).Return(&entity.ExtractedPost{
		PostID:   "ABC123",
		ImageURL: "https://cdn.example.com/post.jpg",
		Caption:  "Jazz night",
	}, nil)
	f.analyzer.On("Analyze", live, "https://cdn.example.com/post.jpg", "Jazz night").Return(sampleResult(), nil)
	f.repo.On("SaveURLAnalysis", live, mock.Anything).Return(nil)
	f.publisher.On("Publish", live, queue.RoutingKeyURLCompleted, mock.Anything).Return(nil)

	_, err := f.uc.AnalyzeURL(ctx, postURL)

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAnalyzeImage_WithoutStoreOrPublisher(t *testing.T) {
	analyzer := new(MockAnalyzer)
	uc := NewAnalysisUseCase(new(MockExtractor), analyzer, nil, nil, logger.NewNop())
	analyzer.On("Analyze", mock.Anything, "https://cdn/x.jpg", "").Return(sampleResult(), nil)

	result, err := uc.AnalyzeImage(context.Background(), "https://cdn/x.jpg", "")

	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestAnalyzeURL_MissingURL(t *testing.T) {
	f := newFixture()

	_, err := f.uc.AnalyzeURL(context.Background(), "")

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "URL is required", validationErr.Message)
}

func TestAnalyzeURL_InvalidURLMakesNoCalls(t *testing.T) {
	f := newFixture()

	_, err := f.uc.AnalyzeURL(context.Background(), "https://twitter.com/x/status/1")

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "instagram.com/p/POST_ID")
	assert.Contains(t, validationErr.Message, "instagram.com/reel/POST_ID")
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	f.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeURL_ExtractionFailureSkipsVision(t *testing.T) {
	f := newFixture()
	postURL := "https://instagram.com/p/ABC123"
	extractErr := entity.NewExtractionError(entity.ExtractionNotFound, "Instagram post not found or is private. Make sure the post is public.", nil)

	f.extractor.On("Extract", mock.Anything, postURL).Return(nil, extractErr)

	result, err := f.uc.AnalyzeURL(context.Background(), postURL)

	assert.Nil(t, result)
	assert.Same(t, extractErr, err)
	kind, ok := entity.ExtractionKind(err)
	assert.True(t, ok)
	assert.Equal(t, entity.ExtractionNotFound, kind)
	f.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "SaveURLAnalysis", mock.Anything, mock.Anything)
}

func TestAnalyzeURL_Success(t *testing.T) {
	f := newFixture()
	postURL := "https://www.instagram.com/reel/XYZ_9/"
	post := &entity.ExtractedPost{
		ImageURL:  "https://cdn/first.jpg",
		Caption:   "Warehouse rave Saturday",
		Author:    "djfoo",
		PostID:    "XYZ_9",
		SourceURL: postURL,
		AllMedia:  []entity.MediaItem{{URL: "https://cdn/first.jpg"}, {URL: "https://cdn/second.jpg"}},
	}
	result := sampleResult()

	f.extractor.On("Extract", mock.Anything, postURL).Return(post, nil)
	f.analyzer.On("Analyze", mock.Anything, "https://cdn/first.jpg", "Warehouse rave Saturday").Return(result, nil)
	f.repo.On("SaveURLAnalysis", mock.Anything, mock.MatchedBy(func(r *entity.URLAnalysisRecord) bool {
		return r.SourceURL == postURL &&
			r.Platform == entity.PlatformInstagram &&
			r.PostID == "XYZ_9" &&
			r.ExtractedImageURL == "https://cdn/first.jpg" &&
			r.PostMetadata == entity.PostMetadata{Author: "djfoo", Caption: "Warehouse rave Saturday"} &&
			r.CreatedAt.Equal(fixedNow)
	})).Return(nil)
	f.publisher.On("Publish", mock.Anything, queue.RoutingKeyURLCompleted, mock.MatchedBy(func(e *entity.AnalysisEvent) bool {
		return e.Persisted && e.SourceURL == postURL && e.Collection == entity.CollectionURLAnalyses
	})).Return(nil)

	got, err := f.uc.AnalyzeURL(context.Background(), postURL)

	require.NoError(t, err)
	assert.Same(t, post, got.Post)
	assert.Same(t, result, got.Result)
	f.assertExpectations(t)
}

func TestAnalyzeURL_EmptyCaptionUsesDefaultHint(t *testing.T) {
	f := newFixture()
	postURL := "https://instagram.com/p/ABC123"
	post := &entity.ExtractedPost{ImageURL: "https://cdn/x.jpg", Author: "foo", PostID: "ABC123", SourceURL: postURL}

	f.extractor.On("Extract", mock.Anything, postURL).Return(post, nil)
	f.analyzer.On("Analyze", mock.Anything, "https://cdn/x.jpg", DefaultURLTitleHint).Return(sampleResult(), nil)
	f.repo.On("SaveURLAnalysis", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.AnalyzeURL(context.Background(), postURL)

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAnalyzeURL_VisionFailure(t *testing.T) {
	f := newFixture()
	postURL := "https://instagram.com/p/ABC123"
	post := &entity.ExtractedPost{ImageURL: "https://cdn/x.jpg", Caption: "bar", SourceURL: postURL}

	f.extractor.On("Extract", mock.Anything, postURL).Return(post, nil)
	f.analyzer.On("Analyze", mock.Anything, "https://cdn/x.jpg", "bar").Return(nil, errors.New("model timeout"))

	_, err := f.uc.AnalyzeURL(context.Background(), postURL)

	var analysisErr *entity.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, "model timeout", analysisErr.Message)
	f.repo.AssertNotCalled(t, "SaveURLAnalysis", mock.Anything, mock.Anything)
}

func TestAnalyzeURL_PersistenceFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	postURL := "https://instagram.com/p/ABC123"
	post := &entity.ExtractedPost{ImageURL: "https://cdn/x.jpg", Caption: "bar", Author: "foo", SourceURL: postURL}

	f.extractor.On("Extract", mock.Anything, postURL).Return(post, nil)
	f.analyzer.On("Analyze", mock.Anything, "https://cdn/x.jpg", "bar").Return(sampleResult(), nil)
	f.repo.On("SaveURLAnalysis", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	f.publisher.On("Publish", mock.Anything, queue.RoutingKeyURLCompleted, mock.Anything).Return(nil)

	got, err := f.uc.AnalyzeURL(context.Background(), postURL)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.jpg", got.Post.ImageURL)
	f.assertExpectations(t)
}
