package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
)

// SimpleTempManager manages temporary files that are cleaned up after processing
// Directory structure: {base_dir}/{key}/
type SimpleTempManager struct {
	baseDir    string
	tempFiles  []string
	mu         sync.Mutex
	logger     *logger.Logger
	cleanupFns []func() error
}

// Ensure SimpleTempManager implements TempFileManager interface
var _ interfaces.TempFileManager = (*SimpleTempManager)(nil)

// NewSimpleTempManager creates a temp manager rooted at {baseDir}/{key}.
// An empty baseDir selects the system temp directory.
func NewSimpleTempManager(baseDir, key string, log *logger.Logger) *SimpleTempManager {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "plaque-translator")
	}
	return &SimpleTempManager{
		baseDir: NormalizePath(filepath.Join(baseDir, SanitizeFileName(key))),
		logger:  log,
	}
}

// GetBasePath returns the base path for file operations
func (tm *SimpleTempManager) GetBasePath() string {
	return tm.baseDir
}

// CreateTempFile creates a temporary file
func (tm *SimpleTempManager) CreateTempFile(prefix, suffix string) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	sanitizedPrefix := SanitizeFileName(prefix)
	if prefix == "" {
		sanitizedPrefix = "temp"
	}

	tempFile, err := DefaultPathUtils.CreateTempFile(tm.baseDir, sanitizedPrefix, suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	tm.tempFiles = append(tm.tempFiles, tempFile)
	tm.logger.Debug("Created temp file: %s", tempFile)
	return tempFile, nil
}

// RegisterCleanupFunc registers a cleanup function
func (tm *SimpleTempManager) RegisterCleanupFunc(fn func() error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.cleanupFns = append(tm.cleanupFns, fn)
}

// WithCleanup executes a function with automatic cleanup
func (tm *SimpleTempManager) WithCleanup(fn func() error) error {
	defer func() {
		if err := tm.Cleanup(); err != nil {
			tm.logger.Error("Temporary file cleanup failed: %v", err)
		}
	}()
	return fn()
}

// Cleanup cleans up temporary resources
func (tm *SimpleTempManager) Cleanup() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	var errs []error

	for _, fn := range tm.cleanupFns {
		if err := fn(); err != nil {
			errs = append(errs, err)
			tm.logger.Warn("Cleanup function failed: %v", err)
		}
	}

	for _, file := range tm.tempFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove temp file %s: %w", file, err))
			tm.logger.Warn("Failed to remove temporary file: %s, error: %v", file, err)
		} else {
			tm.logger.Debug("Removed temporary file: %s", file)
		}
	}

	// The directory is only removed once empty; shared parents stay
	if err := os.Remove(tm.baseDir); err != nil && !os.IsNotExist(err) {
		tm.logger.Debug("Temp directory not removed: %v", err)
	}

	tm.tempFiles = tm.tempFiles[:0]
	tm.cleanupFns = tm.cleanupFns[:0]

	if len(errs) > 0 {
		return fmt.Errorf("cleanup failed with %d errors: %v", len(errs), errs)
	}

	return nil
}
