package core

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// AtomicWriteConfig controls atomic writing behavior
type AtomicWriteConfig struct {
	UseFsync       bool          // Force fsync for durability
	LockTimeout    time.Duration // Max time to wait for file lock
	TempSuffix     string        // Suffix for temporary files
	BackupOriginal bool          // Create backup before writing
}

// DefaultAtomicConfig provides sensible defaults
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		UseFsync:       false,
		LockTimeout:    5 * time.Second,
		TempSuffix:     ".syntree.tmp",
		BackupOriginal: true,
	}
}

// fileLock is one held lock-file handle.
type fileLock struct {
	file *os.File
	path string
}

// AtomicWriter writes files via temp-file-and-rename, guarded by lock
// files so two CLI invocations cannot interleave writes to one path.
type AtomicWriter struct {
	config AtomicWriteConfig
	locks  map[string]*fileLock
	mu     sync.Mutex
}

// NewAtomicWriter creates a new atomic writer
func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	return &AtomicWriter{
		config: config,
		locks:  make(map[string]*fileLock),
	}
}

// WriteFile atomically writes content to path. The original file mode is
// preserved when the file already exists.
func (aw *AtomicWriter) WriteFile(path, content string) error {
	if err := aw.acquireLock(path); err != nil {
		return fmt.Errorf("failed to acquire lock for %s: %w", path, err)
	}
	defer aw.releaseLock(path)

	originalInfo, statErr := os.Stat(path)
	var fileMode os.FileMode = 0o644
	if statErr == nil {
		fileMode = originalInfo.Mode()
	}

	if aw.config.BackupOriginal && statErr == nil {
		if err := aw.createBackup(path); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tempPath := path + aw.config.TempSuffix
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}

	tempFile.Close()

	// The rename is the atomic step.
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}

	return nil
}

// acquireLock creates path.lock exclusively, retrying until the timeout.
func (aw *AtomicWriter) acquireLock(path string) error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if _, exists := aw.locks[path]; exists {
		return nil // Already held by this writer
	}

	lockPath := path + ".lock"
	deadline := time.Now().Add(aw.config.LockTimeout)
	for time.Now().Before(deadline) {
		lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(lockFile, "%d\n", os.Getpid())
			lockFile.Sync()
			aw.locks[path] = &fileLock{file: lockFile, path: lockPath}
			return nil
		}

		if os.IsExist(err) {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		return fmt.Errorf("failed to create lock file: %w", err)
	}

	return fmt.Errorf("timeout waiting for lock on %s", path)
}

func (aw *AtomicWriter) releaseLock(path string) {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	lock, exists := aw.locks[path]
	if !exists {
		return
	}
	lock.file.Close()
	os.Remove(lock.path)
	delete(aw.locks, path)
}

// createBackup copies the current content to path.bak.TIMESTAMP.
func (aw *AtomicWriter) createBackup(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102-150405")
	backupPath := fmt.Sprintf("%s.bak.%s", path, timestamp)
	return os.WriteFile(backupPath, content, 0o644)
}

// Cleanup releases all held locks (call on shutdown)
func (aw *AtomicWriter) Cleanup() {
	aw.mu.Lock()
	paths := make([]string, 0, len(aw.locks))
	for path := range aw.locks {
		paths = append(paths, path)
	}
	aw.mu.Unlock()

	for _, path := range paths {
		aw.releaseLock(path)
	}
}
