// Package scratch manages short-lived upload files. Each file gets a unique
// name so concurrent requests never collide, and Remove is safe to defer on
// every exit path.
package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultExtension is used when the upload has no extension or an unsupported one
const DefaultExtension = ".webm"

var allowedExtensions = map[string]bool{
	".webm": true,
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
}

// AudioExtension returns the lower-cased extension of filename when it is on
// the allow-list, DefaultExtension otherwise.
func AudioExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return DefaultExtension
	}
	return ext
}

// File is a reserved temporary path. Nothing exists on disk until Write.
type File struct {
	Path      string
	Extension string

	logger *zap.Logger
}

// New reserves a unique path in dir with the given extension
func New(dir, ext string, logger *zap.Logger) *File {
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	return &File{
		Path:      filepath.Join(dir, name),
		Extension: ext,
		logger:    logger,
	}
}

// Write stores data at the reserved path
func (f *File) Write(data []byte) error {
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	return nil
}

// Remove deletes the file if it exists. Failures are logged and swallowed so
// that cleanup never hides the error the caller is already returning.
func (f *File) Remove() {
	err := os.Remove(f.Path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	f.logger.Debug("Failed to remove temp file",
		zap.String("path", f.Path),
		zap.Error(err))
}
