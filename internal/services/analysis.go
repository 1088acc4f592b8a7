package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=analysis.go -destination=mock_analysis.go -package=services

// DefaultUser labels history entries sent without a requester.
const DefaultUser = "Anonymous"

// Upload is an image received with an analysis request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AnalyzeInput is one analysis request. Upload is nil for text-only requests.
type AnalyzeInput struct {
	Upload   *Upload
	Text     string
	Language string
	User     string
}

// FileSaver persists uploads and returns their public path.
type FileSaver interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// UploadNamer builds a unique storage name from the original file name.
type UploadNamer func(original string) string

// Classifier predicts a disease for one request.
type Classifier interface {
	Classify(ctx context.Context, in models.ClassifyInput) (models.AnalysisResult, error)
}

// HistoryAppender records analysis outcomes.
type HistoryAppender interface {
	Append(ctx context.Context, entry models.HistoryEntry) (*models.HistoryEntry, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// AnalysisService runs the analyze flow: store upload, classify, log, publish.
type AnalysisService struct {
	files       FileSaver
	namer       UploadNamer
	classifier  Classifier
	history     HistoryAppender
	kafkaWriter KafkaWriter // optional
}

// NewAnalysisService creates a new AnalysisService. kafkaWriter may be nil.
func NewAnalysisService(
	files FileSaver,
	namer UploadNamer,
	classifier Classifier,
	history HistoryAppender,
	kafkaWriter KafkaWriter,
) *AnalysisService {
	return &AnalysisService{
		files:       files,
		namer:       namer,
		classifier:  classifier,
		history:     history,
		kafkaWriter: kafkaWriter,
	}
}

// Analyze classifies the request and appends exactly one history entry.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (models.AnalysisResult, error) {
	user := in.User
	if user == "" {
		user = DefaultUser
	}

	classifyIn := models.ClassifyInput{Text: in.Text, Language: in.Language}
	var uploadedImage string
	if in.Upload != nil {
		name := s.namer(in.Upload.Filename)
		path, err := s.files.Save(ctx, name, bytes.NewReader(in.Upload.Data), int64(len(in.Upload.Data)), in.Upload.ContentType)
		if err != nil {
			logger.Log.Errorw("failed to store upload", "filename", in.Upload.Filename, "error", err)
			return models.AnalysisResult{}, err
		}
		uploadedImage = path
		classifyIn.Image = in.Upload.Data
	}

	result, err := s.classifier.Classify(ctx, classifyIn)
	if err != nil {
		logger.Log.Errorw("failed to classify", "user", user, "upload", uploadedImage, "error", err)
		return models.AnalysisResult{}, err
	}

	entry, err := s.history.Append(ctx, models.HistoryEntry{
		User:          user,
		Disease:       result.Disease,
		Confidence:    result.Confidence,
		TreatmentText: result.TreatmentText,
		MedicineImage: result.MedicineImage,
		UploadedImage: uploadedImage,
	})
	if err != nil {
		return models.AnalysisResult{}, err
	}

	s.publishAnalysis(ctx, models.AnalysisEvent{
		EventID:       uuid.NewString(),
		HistoryID:     entry.ID,
		User:          entry.User,
		Disease:       entry.Disease,
		Confidence:    entry.Confidence,
		UploadedImage: entry.UploadedImage,
		Timestamp:     entry.Date.Unix(),
	})

	return result, nil
}

// publishAnalysis publishes an analysis event to Kafka. Failures are logged only.
func (s *AnalysisService) publishAnalysis(ctx context.Context, evt models.AnalysisEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "history_id", evt.HistoryID)
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("Failed to marshal analysis event for Kafka", "history_id", evt.HistoryID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.HistoryID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish analysis event to Kafka", "history_id", evt.HistoryID, "error", err)
	} else {
		logger.Log.Infow("Analysis event published to Kafka", "history_id", evt.HistoryID, "disease", evt.Disease)
	}
}
