package models

// AnalysisEvent is published to Kafka after an analysis has been logged.
type AnalysisEvent struct {
	EventID       string `json:"event_id"`       // Unique event identifier
	HistoryID     string `json:"history_id"`     // Identifier of the appended history entry
	User          string `json:"user"`           // Requester label
	Disease       string `json:"disease"`        // Predicted disease
	Confidence    string `json:"confidence"`     // Confidence text
	UploadedImage string `json:"uploaded_image"` // Stored upload path, if any
	Timestamp     int64  `json:"timestamp"`      // Unix timestamp (seconds) of the history entry
}
