package apiapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/phillip-england/timeclock/internal/middleware"
	"github.com/phillip-england/timeclock/internal/policyfile"
)

const defaultMaxUploadBytes = 10 << 20

type Config struct {
	Addr           string
	PolicyPath     string
	Timezone       string
	MaxUploadBytes int64
}

type server struct {
	policies       *policyfile.File
	location       *time.Location
	maxUploadBytes int64
}

func DefaultConfigFromEnv() Config {
	maxUpload, err := strconv.ParseInt(envOrDefault("MAX_UPLOAD_BYTES", ""), 10, 64)
	if err != nil || maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return Config{
		Addr:           envOrDefault("API_ADDR", ":8080"),
		PolicyPath:     strings.TrimSpace(os.Getenv("POLICY_FILE")),
		Timezone:       envOrDefault("REPORT_TIMEZONE", ""),
		MaxUploadBytes: maxUpload,
	}
}

// NewHandler loads the policy file named by cfg and returns the fully
// wrapped API handler.
func NewHandler(cfg Config) (http.Handler, error) {
	policies, err := policyfile.LoadOptional(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	timezone := cfg.Timezone
	if timezone == "" {
		timezone = policies.Timezone
	}
	loc, err := policyfile.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	s := &server{
		policies:       policies,
		location:       loc,
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	mux.Handle("/api/health", http.HandlerFunc(s.health))
	mux.Handle("/api/reports", http.HandlerFunc(s.createReport))
	mux.Handle("/api/reports/export", http.HandlerFunc(s.exportReport))
	mux.Handle("/api/imports/punches", http.HandlerFunc(s.importPunches))
	mux.Handle("/api/imports/roster", http.HandlerFunc(s.importRoster))

	return middleware.Chain(
		mux,
		middleware.RequestLogger(log.Default()),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'"}),
	), nil
}

func Run(ctx context.Context, cfg Config) error {
	handler, err := NewHandler(cfg)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("api listening on http://localhost%s", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseUploadedFileWithField(r *http.Request, fieldName string, maxBytes int64, requiredMessage string) ([]byte, string, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	if err := r.ParseMultipartForm(maxBytes + (2 << 20)); err != nil {
		return nil, "", errors.New("invalid upload form")
	}
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, "", errors.New(requiredMessage)
	}
	defer file.Close()
	raw, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, "", errors.New("unable to read uploaded file")
	}
	if len(raw) == 0 {
		return nil, "", errors.New("uploaded file is empty")
	}
	if int64(len(raw)) > maxBytes {
		return nil, "", errors.New("uploaded file is too large")
	}
	return raw, strings.TrimSpace(header.Filename), nil
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func parseBoolQueryValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
