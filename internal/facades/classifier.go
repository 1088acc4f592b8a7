package facades

import (
	"context"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/sbilibin2017/gw-plant-doctor/internal/storage"
)

// Classifier turns an analysis request into a disease prediction.
type Classifier interface {
	Classify(ctx context.Context, in models.ClassifyInput) (models.AnalysisResult, error)
}

// Fixed predictions returned by StubClassifier.
var (
	LeafBlight = models.AnalysisResult{
		Disease:       "Leaf Blight",
		Confidence:    "92%",
		TreatmentText: "Apply copper-based fungicide and remove infected leaves.",
		MedicineImage: storage.PublicPath(storage.SampleMedicine),
	}
	NutrientDeficiency = models.AnalysisResult{
		Disease:       "Nutrient Deficiency",
		Confidence:    "85%",
		TreatmentText: "Add nitrogen-rich fertilizer. Ensure proper watering.",
		MedicineImage: storage.PublicPath(storage.SampleMedicine2),
	}
	Healthy = models.AnalysisResult{
		Disease:       "Healthy",
		Confidence:    "100%",
		TreatmentText: "No issues detected",
		MedicineImage: "",
	}
)

// StubClassifier returns fixed predictions until a real model is plugged in.
// Images are still decoded and normalized so that unreadable uploads fail early.
type StubClassifier struct {
	size int
}

func NewStubClassifier() *StubClassifier {
	return &StubClassifier{size: InputSize}
}

func (c *StubClassifier) Classify(ctx context.Context, in models.ClassifyInput) (models.AnalysisResult, error) {
	switch {
	case len(in.Image) > 0:
		tensor, err := Preprocess(in.Image, c.size)
		if err != nil {
			logger.Log.Errorw("failed to preprocess image", "bytes", len(in.Image), "error", err)
			return models.AnalysisResult{}, err
		}
		logger.Log.Debugw("image preprocessed", "width", tensor.Width, "height", tensor.Height)
		return LeafBlight, nil
	case in.Text != "":
		return NutrientDeficiency, nil
	default:
		return Healthy, nil
	}
}
