package fanlog

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/fanlog/sanitizer"
)

// FileMode selects how the active segment is opened
type FileMode string

const (
	ModeAppend          FileMode = "append"           // Continue the existing file
	ModeTruncate        FileMode = "truncate-write"   // Start empty, remove old backups
	ModeCreateExclusive FileMode = "create-exclusive" // Refuse to touch existing files
)

// ParseFileMode validates a mode name
func ParseFileMode(s string) (FileMode, error) {
	switch m := FileMode(s); m {
	case ModeAppend, ModeTruncate, ModeCreateExclusive:
		return m, nil
	case "":
		return ModeAppend, nil
	}
	return "", fmtErrorf("invalid file mode: '%s' (use append, truncate-write, or create-exclusive)", s)
}

// RotatingFileOptions configures a RotatingFileHandler
type RotatingFileOptions struct {
	HandlerOptions
	Filename       string
	Mode           FileMode
	MaxBytes       int64 // Segment size budget, a line counts its newline
	MaxBackupCount int   // Backups kept as Filename.1 (newest) .. Filename.N
}

// RotatingFileHandler writes lines to a size-bounded file with numbered backups
type RotatingFileHandler struct {
	handlerBase
	filename   string
	mode       FileMode
	maxBytes   int64
	maxBackups int

	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
	size int64 // Bytes in the active segment

	rotations atomic.Uint64
}

// NewRotatingFileHandler creates an unconfigured rotating file handler
func NewRotatingFileHandler(opts RotatingFileOptions) *RotatingFileHandler {
	mode := opts.Mode
	if mode == "" {
		mode = ModeAppend
	}
	h := &RotatingFileHandler{
		filename:   opts.Filename,
		mode:       mode,
		maxBytes:   opts.MaxBytes,
		maxBackups: opts.MaxBackupCount,
	}
	h.init(opts.HandlerOptions)
	return h
}

// Setup validates thresholds and opens the active segment per mode
func (h *RotatingFileHandler) Setup() error {
	return h.setup(func() error {
		if h.maxBytes < 1 {
			return fmtErrorf("max_bytes must be at least 1, got %d: %w", h.maxBytes, ErrInvalidThreshold)
		}
		if h.maxBackups < 1 {
			return fmtErrorf("max_backup_count must be at least 1, got %d: %w", h.maxBackups, ErrInvalidThreshold)
		}
		if h.filename == "" {
			return fmtErrorf("log file name cannot be empty")
		}
		if _, err := ParseFileMode(string(h.mode)); err != nil {
			return err
		}
		if dir := filepath.Dir(h.filename); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmtErrorf("failed to create log directory '%s': %w", dir, err)
			}
		}

		switch h.mode {
		case ModeTruncate:
			for i := 1; i <= h.maxBackups; i++ {
				if err := os.Remove(h.backupName(i)); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmtErrorf("failed to remove backup '%s': %w", h.backupName(i), err)
				}
			}
		case ModeCreateExclusive:
			for i := 0; i <= h.maxBackups; i++ {
				if fileExists(h.backupName(i)) {
					return fmtErrorf("'%s': %w", h.backupName(i), ErrFileExists)
				}
			}
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		return h.openActive(h.mode)
	})
}

// Handle writes rec if it passes the threshold. Non-printable characters in
// the rendered line, newlines included, are hex-encoded so each record stays
// on one line.
func (h *RotatingFileHandler) Handle(rec *Record) error {
	return h.handle(rec, h.render, h.logLine)
}

func (h *RotatingFileHandler) logLine(msg string) error {
	return h.Log(sanitizer.Text(msg))
}

// Log writes msg as one line, rotating first when the line would overflow
// the active segment. A single line larger than MaxBytes is still written,
// alone, into a fresh segment. If rotation fails the line goes to the
// reopened active segment and the rotation error is returned.
func (h *RotatingFileHandler) Log(msg string) error {
	if err := h.checkReady(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var rotateErr error
	size := int64(len(msg)) + 1
	if h.size+size > h.maxBytes {
		rotateErr = h.rotate()
	}
	if h.w == nil {
		return combineErrors(rotateErr, fmtErrorf("log file '%s' is not open", h.filename))
	}

	if _, err := h.w.WriteString(msg); err != nil {
		return fmtErrorf("failed to write log file '%s': %w", h.filename, err)
	}
	if err := h.w.WriteByte('\n'); err != nil {
		return fmtErrorf("failed to write log file '%s': %w", h.filename, err)
	}
	h.size += size
	return rotateErr
}

// Flush writes buffered lines to the active segment
func (h *RotatingFileHandler) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.w == nil {
		return nil
	}
	if err := h.w.Flush(); err != nil {
		return fmtErrorf("failed to flush log file '%s': %w", h.filename, err)
	}
	return nil
}

// Destroy flushes and closes the active segment
func (h *RotatingFileHandler) Destroy() {
	h.destroy(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if err := h.closeActive(); err != nil {
			h.internalLog("%v", err)
		}
	})
}

// Size returns the byte count of the active segment
func (h *RotatingFileHandler) Size() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// Rotations returns how many rotations have completed
func (h *RotatingFileHandler) Rotations() uint64 {
	return h.rotations.Load()
}

// rotate closes the active segment, shifts backups up by one, evicting the
// oldest, and opens a fresh segment with the original mode. When a shift
// fails the active segment is reopened for append so writing continues.
// Caller holds mu.
func (h *RotatingFileHandler) rotate() error {
	if err := h.closeActive(); err != nil {
		h.internalLog("%v", err)
	}

	for i := h.maxBackups - 1; i >= 0; i-- {
		src := h.backupName(i)
		if !fileExists(src) {
			continue
		}
		if err := os.Rename(src, h.backupName(i+1)); err != nil {
			err = fmtErrorf("failed to rotate '%s': %w", src, err)
			if reopenErr := h.openActive(ModeAppend); reopenErr != nil {
				err = combineErrors(err, reopenErr)
			}
			return err
		}
	}

	if err := h.openActive(h.mode); err != nil {
		return fmtErrorf("failed to reopen log file after rotation: %w", err)
	}
	h.rotations.Add(1)
	return nil
}

// openActive opens the active segment per mode and seeds the size counter.
// Backups are never touched here. Caller holds mu.
func (h *RotatingFileHandler) openActive(mode FileMode) error {
	flags := os.O_WRONLY | os.O_CREATE
	switch mode {
	case ModeAppend:
		flags |= os.O_APPEND
	case ModeTruncate:
		flags |= os.O_TRUNC
	case ModeCreateExclusive:
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(h.filename, flags, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmtErrorf("'%s': %w", h.filename, ErrFileExists)
		}
		return fmtErrorf("failed to open log file '%s': %w", h.filename, err)
	}

	var size int64
	if mode == ModeAppend {
		fi, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return fmtErrorf("failed to stat log file '%s': %w", h.filename, err)
		}
		size = fi.Size()
	}

	h.file = file
	h.w = bufio.NewWriter(file)
	h.size = size
	return nil
}

// closeActive flushes and closes the active segment. Caller holds mu.
func (h *RotatingFileHandler) closeActive() error {
	if h.file == nil {
		return nil
	}
	var err error
	if flushErr := h.w.Flush(); flushErr != nil {
		err = fmtErrorf("failed to flush log file '%s': %w", h.filename, flushErr)
	}
	if closeErr := h.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", h.filename, closeErr))
	}
	h.file = nil
	h.w = nil
	return err
}

// backupName returns the path of backup i; 0 is the active segment
func (h *RotatingFileHandler) backupName(i int) string {
	if i == 0 {
		return h.filename
	}
	return h.filename + "." + strconv.Itoa(i)
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
