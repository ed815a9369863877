package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// TransactionSource produces a batch of parsed transactions
type TransactionSource interface {
	Name() string
	Load(ctx context.Context) ([]models.Transaction, error)
}

// ObjectStore interface defines the S3 operations the statement source needs
type ObjectStore interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	StatObject(ctx context.Context, key string) (*ObjectInfo, error)
}

// LoadTransactions loads a batch from src. Failures are logged and yield an
// empty batch so report generation can carry on.
func LoadTransactions(ctx context.Context, src TransactionSource, log zerolog.Logger) []models.Transaction {
	if src == nil {
		log.Error().Msg("no transaction source configured")
		return []models.Transaction{}
	}

	transactions, err := src.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", src.Name()).Msg("failed to load transactions")
		return []models.Transaction{}
	}

	log.Debug().Str("source", src.Name()).Int("transactions", len(transactions)).Msg("loaded transactions")
	return transactions
}

// FileSource reads a statement from the local filesystem
type FileSource struct {
	path      string
	validator *FileValidator
	parser    *Parser
}

// NewFileSource creates a source reading the statement at path
func NewFileSource(path string, validator *FileValidator, parser *Parser) *FileSource {
	return &FileSource{path: path, validator: validator, parser: parser}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Load(ctx context.Context) ([]models.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	return parseStatement(f, filepath.Base(s.path), s.validator, s.parser)
}

// S3Source reads a statement object from S3
type S3Source struct {
	store     ObjectStore
	key       string
	validator *FileValidator
	parser    *Parser
}

// NewS3Source creates a source reading the statement stored under key
func NewS3Source(store ObjectStore, key string, validator *FileValidator, parser *Parser) *S3Source {
	return &S3Source{store: store, key: key, validator: validator, parser: parser}
}

func (s *S3Source) Name() string {
	return "s3:" + s.key
}

func (s *S3Source) Load(ctx context.Context) ([]models.Transaction, error) {
	info, err := s.store.StatObject(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateFileSize(info.Size); err != nil {
		return nil, fmt.Errorf("statement %s rejected: %w", s.key, err)
	}

	body, err := s.store.DownloadFile(ctx, s.key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return parseStatement(body, filepath.Base(s.key), s.validator, s.parser)
}

func parseStatement(r io.Reader, filename string, validator *FileValidator, parser *Parser) ([]models.Transaction, error) {
	validation, data, err := validator.ValidateStatement(r, filename)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("invalid statement %s: %s", filename, strings.Join(validation.Errors, "; "))
	}

	result, err := parser.ParseFile(bytes.NewReader(data), filename)
	if err != nil {
		return nil, err
	}

	return result.Transactions, nil
}
