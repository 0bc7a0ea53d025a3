package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"goodsin/internal/config"
	"goodsin/internal/domain"
	"goodsin/internal/port"
)

// IngestService turns an uploaded receiving document into parsed lines and
// archives the original file to object storage.
type IngestService interface {
	// Ingest validates, parses, and stores an uploaded document. The returned
	// object key is empty when archival failed; parsing already succeeded at
	// that point, so storage failure never blocks the caller.
	Ingest(ctx context.Context, scope domain.Scope, fileName string, data []byte) (*domain.ParsedDocument, string, error)
	// DocumentURL returns a short-lived download link for an archived document.
	DocumentURL(ctx context.Context, key string) (string, error)
	// Discard removes an archived document that is no longer referenced.
	Discard(ctx context.Context, key string) error
}

type ingestService struct {
	parser  port.DocumentParser
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewIngestService creates a new IngestService implementation.
func NewIngestService(parser port.DocumentParser, storage port.ObjectStorage, cfg *config.S3Config) IngestService {
	return &ingestService{parser: parser, storage: storage, cfg: cfg}
}

func (s *ingestService) Ingest(ctx context.Context, scope domain.Scope, fileName string, data []byte) (*domain.ParsedDocument, string, error) {
	if err := scope.Validate(); err != nil {
		return nil, "", err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, "", domain.ErrUnsupportedFileType
	}
	if int64(len(data)) > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, "", domain.ErrFileTooLarge
	}

	contentType := contentTypeFor(fileType)
	doc, err := s.parser.Parse(ctx, port.ParseInput{
		FileBytes:   data,
		ContentType: contentType,
		FileName:    fileName,
	})
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", fileName, err)
	}
	if len(doc.Lines) == 0 {
		return nil, "", domain.ErrEmptyDocument
	}

	key := objectKey(scope, fileName)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	}); err != nil {
		log.Printf("ingestService: archiving %s failed: %v", fileName, err)
		key = ""
	}

	return doc, key, nil
}

func (s *ingestService) DocumentURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", domain.ErrNotFound
	}
	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", key, err)
	}
	return url, nil
}

func (s *ingestService) Discard(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, s.cfg.Bucket, key); err != nil {
		return fmt.Errorf("discarding %s: %w", key, err)
	}
	return nil
}

func contentTypeFor(ft domain.FileType) string {
	for ct, t := range domain.AllowedContentTypes {
		if t == ft {
			return ct
		}
	}
	return "application/octet-stream"
}

func objectKey(scope domain.Scope, fileName string) string {
	owner := "user"
	id := scope.UserID
	if scope.IsWorkspace() {
		owner = "workspace"
		id = scope.WorkspaceID
	}
	return fmt.Sprintf("receiving/%s/%s/%s/%s",
		owner, id, time.Now().UTC().Format("2006/01/02"), uuid.New().String()+"_"+filepath.Base(fileName))
}
