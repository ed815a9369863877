package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// DateTimeLayout is the only accepted reference timestamp format
const DateTimeLayout = "2006-01-02 15:04:05"

const dateOnlyLayout = "2006-01-02"

// ValidateDateTime strictly parses a YYYY-MM-DD HH:MM:SS reference timestamp
func ValidateDateTime(input string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, input, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrValidation, input)
	}
	return t, nil
}

// PadDate appends midnight to a bare YYYY-MM-DD date so it passes
// ValidateDateTime. Any other input is returned unchanged.
func PadDate(input string) string {
	if len(input) == len(dateOnlyLayout) {
		if _, err := time.Parse(dateOnlyLayout, input); err == nil {
			return input + " 00:00:00"
		}
	}
	return input
}

// StatementValidation contains the results of statement file validation
type StatementValidation struct {
	Valid        bool
	DetectedType string // "CSV" or "XLSX"
	Size         int64
	Errors       []string
}

// FileValidator checks operations exports before they reach the parser
type FileValidator struct {
	maxSizeBytes int64
}

// XLSX is a ZIP container
var xlsxMagicBytes = []byte{0x50, 0x4B, 0x03, 0x04}

var statementExtensions = map[string]string{
	".csv":  "CSV",
	".xlsx": "XLSX",
}

// NewFileValidator creates a validator rejecting files above maxSizeBytes
func NewFileValidator(maxSizeBytes int64) *FileValidator {
	return &FileValidator{maxSizeBytes: maxSizeBytes}
}

// ValidateStatement reads the whole statement and checks its name, size and
// content. The content is returned so callers can parse it without a second read.
func (v *FileValidator) ValidateStatement(reader io.Reader, filename string) (*StatementValidation, []byte, error) {
	result := &StatementValidation{
		Valid:  true,
		Errors: []string{},
	}

	if err := v.ValidateFilename(filename); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	data, err := io.ReadAll(io.LimitReader(reader, v.maxSizeBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read statement: %w", err)
	}

	result.Size = int64(len(data))
	if err := v.ValidateFileSize(result.Size); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	detectedType, err := v.DetectType(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.DetectedType = detectedType
		if expected := statementExtensions[strings.ToLower(filepath.Ext(filename))]; expected != "" && expected != detectedType {
			result.Valid = false
			result.Errors = append(result.Errors, "file extension does not match file content")
		}
	}

	return result, data, nil
}

// ValidateFilename rejects empty names, traversal and unsupported extensions
func (v *FileValidator) ValidateFilename(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}

	if strings.Contains(filename, "\x00") {
		return errors.New("filename contains null bytes")
	}

	if strings.Contains(filename, "..") {
		return errors.New("filename contains path traversal")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("filename must have an extension")
	}

	if _, ok := statementExtensions[ext]; !ok {
		return fmt.Errorf("unsupported file extension: %s", ext)
	}

	return nil
}

// ValidateFileSize checks the size is within limits
func (v *FileValidator) ValidateFileSize(size int64) error {
	if size < 0 {
		return errors.New("invalid file size")
	}

	if size == 0 {
		return errors.New("empty file")
	}

	if size > v.maxSizeBytes {
		return fmt.Errorf("file size exceeds maximum allowed size (%d bytes)", v.maxSizeBytes)
	}

	return nil
}

// DetectType identifies a statement as XLSX or CSV from its content
func (v *FileValidator) DetectType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}

	if bytes.HasPrefix(data, xlsxMagicBytes) {
		return "XLSX", nil
	}

	if isTextContent(data) {
		return "CSV", nil
	}

	return "", errors.New("unsupported file type based on content")
}

// isTextContent checks the first 512 bytes look like text. Bytes of
// multi-byte UTF-8 sequences count as printable since exports carry Cyrillic
// headers.
func isTextContent(data []byte) bool {
	sample := data[:min(len(data), 512)]

	if bytes.Contains(sample, []byte{0x00}) {
		return false
	}

	printable := 0
	for _, b := range sample {
		if (b >= 0x20 && b <= 0x7E) || b >= 0x80 || b == 0x09 || b == 0x0A || b == 0x0D {
			printable++
		}
	}

	return float64(printable)/float64(len(sample)) > 0.95
}
