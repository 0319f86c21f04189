package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// getStorageCheckTimeout returns the configured storage health check timeout
func (s *Server) getStorageCheckTimeout() time.Duration {
	timeout := s.AppConfig.Observability.HealthCheck.StorageCheckTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return timeout
}

// healthHandler provides a comprehensive health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "atscan",
		"version": s.Version,
	}

	overallHealthy := true

	// Check analyzer status
	analyzerStatus := s.checkAnalyzerHealth()
	response["analyzer"] = analyzerStatus
	if available, ok := analyzerStatus["available"].(bool); ok && !available {
		overallHealthy = false
	}

	// Check object storage reachability
	storageStatus := s.checkStorageHealth()
	response["storage"] = storageStatus
	if healthy, ok := storageStatus["healthy"].(bool); ok && !healthy {
		overallHealthy = false
	}

	// Check certificate status if certificate manager is available
	certStatus := s.checkCertificateHealth()
	if certStatus != nil {
		response["certificates"] = certStatus
		if healthy, ok := certStatus["healthy"].(bool); ok && !healthy {
			overallHealthy = false
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAnalyzerHealth reports the state of the scoring engine
func (s *Server) checkAnalyzerHealth() map[string]any {
	if s.Analyzer == nil {
		return map[string]any{
			"available": false,
			"error":     "analyzer not initialized",
		}
	}

	taxonomy := s.Analyzer.Taxonomy()
	return map[string]any{
		"available":      true,
		"categories":     len(taxonomy.Categories),
		"total_keywords": taxonomy.TotalKeywords(),
		"sections":       len(taxonomy.Sections),
	}
}

// checkStorageHealth checks the object store and its circuit breaker
func (s *Server) checkStorageHealth() map[string]any {
	if s.Store == nil {
		return map[string]any{
			"enabled": false,
			"healthy": true,
			"message": "Object storage disabled, uploads skipped",
		}
	}

	storageStatus := map[string]any{
		"enabled": true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.getStorageCheckTimeout())
	defer cancel()

	if err := s.Store.Healthy(ctx); err != nil {
		storageStatus["healthy"] = false
		storageStatus["error"] = err.Error()
	} else {
		storageStatus["healthy"] = true
	}

	// Add circuit breaker state if the store exposes it
	if breakerStats, ok := s.Store.(interface{ Stats() map[string]any }); ok {
		storageStatus["circuit_breaker"] = breakerStats.Stats()
	}

	return storageStatus
}

// checkCertificateHealth checks the health of TLS certificates
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}

	certStatus := make(map[string]any)

	// Check certificate expiry
	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = fmt.Sprintf("Failed to check certificate expiry: %v", err)
		return certStatus
	}

	// Consider certificates unhealthy if they expire within 24 hours
	criticalThreshold := 24 * time.Hour
	warningThreshold := 7 * 24 * time.Hour // 7 days

	certStatus["time_to_expiry_hours"] = int(timeToExpiry.Hours())
	certStatus["time_to_expiry"] = timeToExpiry.String()

	if timeToExpiry <= 0 {
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
		certStatus["message"] = "Certificate has expired"
	} else if timeToExpiry <= criticalThreshold {
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
		certStatus["message"] = "Certificate expires within 24 hours"
	} else if timeToExpiry <= warningThreshold {
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
		certStatus["message"] = "Certificate expires within 7 days"
	} else {
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
		certStatus["message"] = "Certificate is valid"
	}

	// Add auto-reload status
	if s.TLSConfig.AutoReload.Enabled {
		autoReload := map[string]any{
			"enabled":              true,
			"file_watcher_enabled": s.TLSConfig.AutoReload.FileWatcher.Enabled,
		}

		// Add file watcher status
		if s.CertificateManager.fileWatcher != nil {
			autoReload["file_watcher_running"] = s.CertificateManager.fileWatcher.IsRunning()
			autoReload["watched_files"] = s.CertificateManager.fileWatcher.GetWatchedFiles()
		}

		certStatus["auto_reload"] = autoReload
	} else {
		certStatus["auto_reload"] = map[string]any{
			"enabled": false,
		}
	}

	// Add certificate metrics
	metrics := s.CertificateManager.GetMetrics()
	if metrics != nil {
		certStatus["metrics"] = map[string]any{
			"reload_count":         metrics.ReloadCount,
			"reload_success_count": metrics.ReloadSuccessCount,
			"reload_failure_count": metrics.ReloadFailureCount,
			"last_reload_time":     metrics.LastReloadTime,
			"last_reload_success":  metrics.LastReloadSuccess,
			"last_reload_error":    metrics.LastReloadError,
		}
	}

	return certStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "atscan",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_file_size_bytes":    s.AppConfig.App.MaxFileSize,
		},
	}

	// Add analyzer taxonomy stats
	if s.Analyzer != nil {
		taxonomy := s.Analyzer.Taxonomy()
		response["analyzer"] = map[string]any{
			"categories":     taxonomy.Categories,
			"total_keywords": taxonomy.TotalKeywords(),
			"sections":       len(taxonomy.Sections),
		}
	}

	// Add storage stats if enabled
	if s.Store != nil {
		if breakerStats, ok := s.Store.(interface{ Stats() map[string]any }); ok {
			response["storage"] = breakerStats.Stats()
		} else {
			response["storage"] = map[string]any{"enabled": true}
		}
	} else {
		response["storage"] = map[string]any{"enabled": false}
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
