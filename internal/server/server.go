// Package server exposes the upload, preview and download flow over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fjacquet/invoice-summaries/internal/batch"
	"fjacquet/invoice-summaries/internal/logging"
	"fjacquet/invoice-summaries/internal/models"
	"fjacquet/invoice-summaries/internal/report"
	"fjacquet/invoice-summaries/internal/tableio"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// Response headers set by /generate.
const (
	HeaderRunID  = "X-Run-ID"
	HeaderFailed = "X-Summaries-Failed"
)

const shutdownTimeout = 10 * time.Second

// Summarizer fills the summary column of a table.
type Summarizer interface {
	Apply(ctx context.Context, table *models.Table) (*models.Table, batch.Stats)
}

// Options configures a Server.
type Options struct {
	// FileName is the name offered for the generated CSV.
	FileName string
	// MaxUploadBytes bounds the size of an uploaded request body.
	MaxUploadBytes int64
}

// Server serves the invoice summary pages.
type Server struct {
	codec      *tableio.Codec
	summarizer Summarizer
	logger     logging.Logger
	fileName   string
	maxUpload  int64
	mux        *http.ServeMux
}

// New creates a Server.
func New(codec *tableio.Codec, summarizer Summarizer, logger logging.Logger, opts Options) *Server {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.FileName == "" {
		opts.FileName = tableio.DefaultFileName
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		codec:      codec,
		summarizer: summarizer,
		logger:     logger,
		fileName:   opts.FileName,
		maxUpload:  opts.MaxUploadBytes,
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /preview", s.handlePreview)
	s.mux.HandleFunc("POST /generate", s.handleGenerate)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// errorLog routes net/http's own error output into logrus. It returns nil
// when the server logger is not backed by logrus.
func (s *Server) errorLog() (*log.Logger, io.Closer) {
	adapter, ok := s.logger.(*logging.LogrusAdapter)
	if !ok {
		return nil, nil
	}
	w := adapter.Logrus().WriterLevel(logrus.ErrorLevel)
	return log.New(w, "", 0), w
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if errorLog, w := s.errorLog(); errorLog != nil {
		srv.ErrorLog = errorLog
		defer func() { _ = w.Close() }()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("Server listening", logging.F("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	page := uploadPage{Accept: strings.Join(tableio.SupportedExtensions, ",")}
	if err := uploadTemplate.Execute(w, page); err != nil {
		s.logger.WithError(err).Error("Template error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.WithField(logging.FieldRemoteAddr, r.RemoteAddr)

	table, name, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	encoded, err := s.codec.ExportBytes(table)
	if err != nil {
		logger.WithError(err).Error("Failed to encode preview table")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := previewPage{
		FileName: name,
		Header:   table.Header,
		Rows:     table.Rows,
		Overview: report.Build(table),
		Encoded:  base64.StdEncoding.EncodeToString(encoded),
	}
	w.Header().Set("Cache-Control", "no-cache")
	if err := previewTemplate.Execute(w, page); err != nil {
		logger.WithError(err).Error("Template error")
		http.Error(w, "Failed to display data", http.StatusInternalServerError)
		return
	}
	logger.Info("Previewed upload",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldCount, table.Len()))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	logger := s.logger.WithFields(
		logging.F(logging.FieldRunID, runID),
		logging.F(logging.FieldRemoteAddr, r.RemoteAddr))
	w.Header().Set(HeaderRunID, runID)

	table, name, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	result, stats := s.summarizer.Apply(r.Context(), table)
	data, err := s.codec.ExportBytes(result)
	if err != nil {
		logger.WithError(err).Error("Failed to export summaries")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", tableio.ContentTypeCSV)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.fileName))
	w.Header().Set(HeaderFailed, strconv.Itoa(stats.Failed))
	if _, err := w.Write(data); err != nil {
		logger.WithError(err).Warn("Failed to write download")
		return
	}
	logger.Info("Generated summaries",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldCount, stats.Rows),
		logging.F(logging.FieldFailed, stats.Failed))
}

// readUpload loads the table from either the multipart "file" part or the
// base64 "table" field written by the preview page.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*models.Table, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		table, err := s.codec.Load(header.Filename, file)
		if err != nil {
			return nil, header.Filename, err
		}
		return table, header.Filename, nil
	case !errors.Is(err, http.ErrMissingFile):
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}

	encoded := r.FormValue("table")
	if encoded == "" {
		return nil, "", errors.New("no file uploaded")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("invalid table data: %w", err)
	}

	name := r.FormValue("name")
	if name == "" {
		name = s.fileName
	}
	csvName := strings.TrimSuffix(name, filepath.Ext(name)) + ".csv"
	table, err := s.codec.Load(csvName, strings.NewReader(string(raw)))
	if err != nil {
		return nil, name, err
	}
	return table, name, nil
}

func (s *Server) fail(w http.ResponseWriter, logger logging.Logger, err error) {
	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	logger.WithError(err).Warn("Rejected upload", logging.F("status", status))
	http.Error(w, "An error occurred: "+err.Error(), status)
}
