// Package intake accepts uploaded documents, checks them and writes them to
// the uploads directory before the request reaches its handler.
package intake

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/respond"
	"github.com/cuongbtq/job-board/shared/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const (
	documentKey = "intake.document"

	// PDF is the only document type accepted
	PDF = "application/pdf"

	// multipartOverhead is allowed on top of the file limit for boundaries and other fields
	multipartOverhead = 1 << 20

	uploadFailedMessage = "Error submitting resume"
)

var (
	errMissingFile = domain.NewValidationError("Exactly one resume file is required")
	errNotPDF      = domain.NewValidationError("Only PDF files are allowed")
	errTooLarge    = domain.NewValidationError("File too large")
)

// Intake stores uploaded documents on local disk
type Intake struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
	randInt  func() int64
}

// New creates an Intake writing into dir and accepting files up to maxBytes
func New(dir string, maxBytes int64, logger *slog.Logger) *Intake {
	return &Intake{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
		randInt:  func() int64 { return rand.Int64N(1_000_000_000) },
	}
}

// Dir returns the directory documents are written to
func (in *Intake) Dir() string {
	return in.dir
}

// SingleDocument requires exactly one PDF under field, stores it, and makes the
// stored document available through FromContext. The stored file is removed
// again when the rest of the chain answers with an error status.
func (in *Intake) SingleDocument(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context(), in.logger)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, in.maxBytes+multipartOverhead)

		form, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(c, log, errTooLarge, "")
				return
			}
			respond.Error(c, log, errMissingFile, "")
			return
		}

		files := form.File[field]
		if len(files) != 1 {
			respond.Error(c, log, errMissingFile, "")
			return
		}

		doc, err := in.store(files[0])
		if err != nil {
			respond.Error(c, log, err, uploadFailedMessage)
			return
		}

		log.Info("Document stored",
			slog.String("path", doc.Path),
			slog.String("original_name", doc.OriginalName),
			slog.Int64("size", doc.Size),
		)

		c.Set(documentKey, doc)
		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := os.Remove(doc.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Warn("Failed to remove document of failed request",
					slog.String("path", doc.Path),
					slog.Any("error", err),
				)
			}
		}
	}
}

// FromContext returns the document stored by SingleDocument
func FromContext(c *gin.Context) (*domain.Document, bool) {
	v, ok := c.Get(documentKey)
	if !ok {
		return nil, false
	}
	doc, ok := v.(*domain.Document)
	return doc, ok
}

func (in *Intake) store(fh *multipart.FileHeader) (*domain.Document, error) {
	if fh.Size > in.maxBytes {
		return nil, errTooLarge
	}

	declared, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil || declared != PDF {
		return nil, errNotPDF
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect upload: %w", err)
	}
	if !detected.Is(PDF) {
		return nil, errNotPDF
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(in.dir, in.generateName(fh.Filename))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create document file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write document file: %w", err)
	}

	return &domain.Document{
		Path:         path,
		OriginalName: fh.Filename,
		MimeType:     PDF,
		Size:         written,
	}, nil
}

// generateName returns <unix-millis>-<random>.<ext>, keeping the original extension
func (in *Intake) generateName(original string) string {
	return fmt.Sprintf("%d-%d%s", in.now().UnixMilli(), in.randInt(), filepath.Ext(filepath.Base(original)))
}
