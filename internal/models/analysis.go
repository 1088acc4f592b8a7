package models

// ClassifyInput is what a classifier receives for one analysis request.
type ClassifyInput struct {
	Image    []byte // raw uploaded image, nil when no file was sent
	Text     string // free-text symptom description
	Language string // preferred answer language, passed through untouched
}

// AnalysisResult is the transient outcome of a classification.
type AnalysisResult struct {
	Disease       string `json:"disease"`
	Confidence    string `json:"confidence"`
	TreatmentText string `json:"treatmentText"`
	MedicineImage string `json:"medicineImage"`
}

// AnalyzeRequest represents a JSON analysis request without an upload
// swagger:model AnalyzeRequest
type AnalyzeRequest struct {
	// Free-text symptom description
	// example: yellow leaves with brown edges
	Text string `json:"text"`

	// Preferred language
	// example: en
	Language string `json:"language"`

	// Requester label
	// example: farmer@example.com
	User string `json:"user"`
}

// AnalyzeResponse represents a successful analysis response
// swagger:model AnalyzeResponse
type AnalyzeResponse struct {
	// Predicted disease
	// example: Leaf Blight
	Disease string `json:"disease"`

	// Confidence
	// example: 92%
	Confidence string `json:"confidence"`

	// Treatment advice
	// example: Apply copper-based fungicide and remove infected leaves.
	TreatmentText string `json:"treatmentText"`

	// Reference medicine image
	// example: /uploads/sample_medicine.jpg
	MedicineImage string `json:"medicineImage"`

	// Whether the outcome was written to history
	// example: true
	History bool `json:"history"`
}

// AnalyzeErrorResponse represents an error response for analysis
// swagger:model AnalyzeErrorResponse
type AnalyzeErrorResponse struct {
	// Error message
	// example: Error analyzing plant
	Message string `json:"message"`

	// Underlying error
	// example: image: unknown format
	Error string `json:"error"`
}
