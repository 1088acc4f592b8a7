package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/sbilibin2017/gw-plant-doctor/internal/services"
)

//go:generate mockgen -source=analyze.go -destination=mock_analyze.go -package=handlers

// Analyzer runs one plant analysis.
type Analyzer interface {
	Analyze(ctx context.Context, in services.AnalyzeInput) (models.AnalysisResult, error)
}

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 8 << 20

// NewAnalyzeHandler returns an HTTP handler that classifies a plant photo or symptom text.
// Bodies larger than maxUploadBytes are rejected with 413.
// @Summary Analyze a plant
// @Description Accepts multipart form data with an optional image file, or a JSON body without one.
// @Description An image yields Leaf Blight, text alone Nutrient Deficiency, nothing Healthy. Every call is logged to history.
// @Tags analysis
// @Accept mpfd
// @Accept json
// @Produce json
// @Param file formData file false "Plant photo"
// @Param text formData string false "Symptom description"
// @Param language formData string false "Preferred language"
// @Param user formData string false "Requester label"
// @Success 200 {object} models.AnalyzeResponse "Analysis result"
// @Failure 400 {object} models.AnalyzeErrorResponse "Malformed request"
// @Failure 413 {object} models.AnalyzeErrorResponse "Upload too large"
// @Failure 500 {object} models.AnalyzeErrorResponse "Error analyzing plant"
// @Router /analyze [post]
func NewAnalyzeHandler(svc Analyzer, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxUploadBytes > 0 {
			if r.ContentLength > maxUploadBytes {
				writeJSON(w, http.StatusRequestEntityTooLarge, models.AnalyzeErrorResponse{
					Message: "Upload too large",
					Error:   "request body exceeds the upload limit",
				})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		}

		in, err := parseAnalyzeRequest(r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, models.AnalyzeErrorResponse{
					Message: "Upload too large",
					Error:   err.Error(),
				})
				return
			}
			writeJSON(w, http.StatusBadRequest, models.AnalyzeErrorResponse{
				Message: "Invalid request body",
				Error:   err.Error(),
			})
			return
		}

		result, err := svc.Analyze(r.Context(), in)
		if err != nil {
			logger.Log.Errorw("failed to analyze plant", "err", err)
			writeJSON(w, http.StatusInternalServerError, models.AnalyzeErrorResponse{
				Message: "Error analyzing plant",
				Error:   err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, models.AnalyzeResponse{
			Disease:       result.Disease,
			Confidence:    result.Confidence,
			TreatmentText: result.TreatmentText,
			MedicineImage: result.MedicineImage,
			History:       true,
		})
	}
}

// parseAnalyzeRequest reads a multipart form, or a JSON body for text-only requests.
// An empty body is a request with no input.
func parseAnalyzeRequest(r *http.Request) (services.AnalyzeInput, error) {
	var in services.AnalyzeInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return in, err
		}
		in.Text = r.FormValue("text")
		in.Language = r.FormValue("language")
		in.User = r.FormValue("user")

		file, header, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil
		}
		if err != nil {
			return in, err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return in, err
		}
		in.Upload = &services.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
		return in, nil

	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return in, err
		}
		in.Text = r.PostFormValue("text")
		in.Language = r.PostFormValue("language")
		in.User = r.PostFormValue("user")
		return in, nil

	case mediaType == "" || mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		var req models.AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return in, err
		}
		in.Text = req.Text
		in.Language = req.Language
		in.User = req.User
		return in, nil

	default:
		return in, errors.New("unsupported content type " + mediaType)
	}
}
