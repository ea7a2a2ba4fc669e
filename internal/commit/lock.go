package commit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Smaug123/bork/internal/logging"
	"github.com/Smaug123/bork/internal/model"
)

// lockFile is the metadata stored in .config/bork.lock while a
// reconciliation run holds the lock.
type lockFile struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Timestamp time.Time `json:"timestamp"`
}

// staleAfter bounds how long a lock can be held before a new run is
// allowed to steal it, on the assumption the holder crashed without
// releasing it.
const staleAfter = 30 * time.Minute

// RunLock is a process-level advisory lock guarding one repository against
// a second concurrent bork invocation (§5 EXPANSION). It does not protect
// against the Non-goal of concurrent multi-repo operation — it is scoped
// to a single repo root.
type RunLock struct {
	path string
	file *os.File
	log  logging.Logger
}

// NewRunLock creates a lock bound to path (conventionally
// <repoRoot>/.config/bork.lock).
func NewRunLock(path string, log logging.Logger) *RunLock {
	return &RunLock{path: path, log: log}
}

// Acquire takes the lock, stealing it first if the existing holder's
// process is dead or the lock has aged past staleAfter.
func (l *RunLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()

		existing, readErr := l.readLockFile()
		if readErr == nil && l.isStale(existing) {
			return l.stealLock()
		}
		if readErr == nil {
			return &model.RepoLockedError{HolderPID: existing.PID, Age: time.Since(existing.Timestamp)}
		}
		return &model.RepoLockedError{Err: fmt.Errorf("acquire lock: %w", err)}
	}

	l.file = file

	hostname, _ := os.Hostname()
	data, _ := json.MarshalIndent(lockFile{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Timestamp: time.Now(),
	}, "", "  ")

	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}

	return nil
}

// Release releases the lock and removes the lock file.
func (l *RunLock) Release() error {
	if l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.log.Warn("failed to release flock", "error", err)
	}
	if err := l.file.Close(); err != nil {
		l.log.Warn("failed to close lock file", "error", err)
	}
	return os.Remove(l.path)
}

func (l *RunLock) readLockFile() (*lockFile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var lf lockFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	return &lf, nil
}

func (l *RunLock) isStale(lock *lockFile) bool {
	process, err := os.FindProcess(lock.PID)
	if err != nil {
		return true
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}
	return time.Since(lock.Timestamp) > staleAfter
}

func (l *RunLock) stealLock() error {
	_ = os.Remove(l.path)
	return l.Acquire()
}
