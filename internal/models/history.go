package models

import "time"

// HistoryEntry is one appended analysis outcome.
// swagger:model HistoryEntry
type HistoryEntry struct {
	// Entry identifier
	// example: 66f1c2a9e4b0a1b2c3d4e5f6
	ID string `json:"_id"`

	// Requester label
	// example: Anonymous
	User string `json:"user"`

	// Predicted disease label
	// example: Leaf Blight
	Disease string `json:"disease"`

	// Confidence text
	// example: 92%
	Confidence string `json:"confidence"`

	// Treatment advice
	// example: Apply copper-based fungicide and remove infected leaves.
	TreatmentText string `json:"treatmentText"`

	// Reference medicine image path
	// example: /uploads/sample_medicine.jpg
	MedicineImage string `json:"medicineImage"`

	// Stored upload path, empty for text-only requests
	// example: /uploads/1727000000000_1a2b3c4d_leaf.jpg
	UploadedImage string `json:"uploadedImage,omitempty"`

	// Server-assigned timestamp
	Date time.Time `json:"date"`
}

// HistoryErrorResponse represents an error response when loading history
// swagger:model HistoryErrorResponse
type HistoryErrorResponse struct {
	// Error message
	// example: Failed to load history
	Message string `json:"message"`
}
