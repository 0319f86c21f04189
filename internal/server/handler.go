package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"atscan/internal/errors"
	"atscan/internal/extract"
	"atscan/internal/observability"
	"atscan/internal/store"
	"atscan/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscan.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// The analyzer itself handles empty text, but a missing field is a
		// client error worth reporting as such
		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "analyze"),
		)

		// Track analysis with observability
		metrics := om.GetMetrics()
		var result types.AnalysisResult
		err := metrics.TrackAnalysisOperation(ctx, "text", func(ctx context.Context) *observability.AnalysisOperationResult {
			result = s.Analyzer.Analyze(req.ResumeText)
			score := int64(result.ATSScore)
			return &observability.AnalysisOperationResult{Score: &score}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "analysis"))
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("ats.score", result.ATSScore),
			attribute.Int("skills_matched", len(result.Skills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", result.ATSScore),
			attribute.Int("skills_matched", len(result.Skills)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createParseResumeHandler wraps the file upload handler with observability
func (s *Server) createParseResumeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscan.api")
		ctx, span := tracer.Start(ctx, "api.parse_resume")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		filename, data, err := s.readUploadedFile(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
			return
		}

		ext := strings.ToLower(filepath.Ext(filename))
		if !extract.IsSupportedExtension(ext) {
			err := fmt.Errorf("unsupported file type: %s", ext)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Unsupported file type",
				fmt.Sprintf("file extension %q is not supported (supported: pdf, docx, txt, md)", ext),
				http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", filename),
			attribute.String("request.extension", ext),
			attribute.Int("request.file_size", len(data)),
			attribute.String("operation", "parse_resume"),
		)

		metrics := om.GetMetrics()

		// Extract text from the uploaded document
		extractStart := time.Now()
		text, err := s.Extractor.Extract(ctx, data, filename)
		metrics.TrackExtraction(ctx, ext, time.Since(extractStart), err)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "extraction"))
			metrics.RecordBusinessMetric(ctx, "resume_parsed", false, om,
				attribute.String("error", "extraction_failed"))
			status := http.StatusUnprocessableEntity
			if appErr, ok := err.(*errors.AppError); ok && appErr.Type == errors.ErrorTypeValidation {
				status = http.StatusBadRequest
			}
			writeErrorResponse(w, "Failed to extract text", err.Error(), status)
			return
		}

		// Run the analysis
		var analysis types.AnalysisResult
		err = metrics.TrackAnalysisOperation(ctx, "file", func(ctx context.Context) *observability.AnalysisOperationResult {
			analysis = s.Analyzer.Analyze(text)
			score := int64(analysis.ATSScore)
			return &observability.AnalysisOperationResult{Score: &score}
		}, om)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "analysis"))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), http.StatusInternalServerError)
			return
		}

		// Upload the original file when object storage is configured.
		// An upload failure fails the whole request.
		fileURL := ""
		if s.Store != nil {
			objectName := store.NewObjectName(filename)
			uploadStart := time.Now()
			url, uploadErr := s.Store.UploadResume(ctx, objectName, data)
			metrics.TrackUpload(ctx, time.Since(uploadStart), uploadErr)
			if uploadErr != nil {
				span.RecordError(uploadErr)
				span.SetAttributes(attribute.String("error.type", "storage"))
				metrics.RecordBusinessMetric(ctx, "resume_parsed", false, om,
					attribute.String("error", "upload_failed"))
				writeErrorResponse(w, "Failed to store resume", uploadErr.Error(), http.StatusBadGateway)
				return
			}
			fileURL = url
		}

		result := types.ParseResumeOutput{
			AnalysisResult: analysis,
			FileURL:        fileURL,
		}

		metrics.RecordBusinessMetric(ctx, "resume_parsed", true, om,
			attribute.Int("ats.score", analysis.ATSScore),
			attribute.String("extension", ext),
			attribute.Bool("stored", fileURL != ""))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", analysis.ATSScore),
			attribute.Bool("stored", fileURL != ""),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// readUploadedFile reads the multipart "file" field from a parse-resume request
func (s *Server) readUploadedFile(r *http.Request) (string, []byte, error) {
	maxFileSize := s.AppConfig.App.MaxFileSize
	if err := r.ParseMultipartForm(maxFileSize); err != nil {
		return "", nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("missing file field: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.Logger.Warn("Failed to close uploaded file", "error", closeErr)
		}
	}()

	if maxFileSize > 0 && header.Size > maxFileSize {
		return "", nil, fmt.Errorf("file too large: %d bytes (limit is %d bytes)", header.Size, maxFileSize)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return header.Filename, data, nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
