package lock

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// HeldError is returned when another sentinel process owns the session.
type HeldError struct {
	PID     int
	Since   string
	Program string
	Path    string
}

func (e *HeldError) Error() string {
	who := e.Program
	if who == "" {
		who = "another process"
	}
	return fmt.Sprintf("session already open in %s (pid %d since %s, lock %s)", who, e.PID, e.Since, e.Path)
}

// Lock is an exclusive advisory lock on a session's LOCK file.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes the lock at path without blocking and stamps it with the
// caller's pid, program name and start time.
func Acquire(path, program string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		held := readHolder(path)
		_ = f.Close()
		return nil, held
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	stamp := fmt.Sprintf("pid=%d\nprogram=%s\ntime=%s\n", os.Getpid(), program, time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteString(stamp); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Lock{file: f, path: path}, nil
}

// Release drops the lock and removes the file. Safe on a nil or released lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

func readHolder(path string) *HeldError {
	held := &HeldError{Path: path}
	f, err := os.Open(path)
	if err != nil {
		return held
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			held.PID, _ = strconv.Atoi(value)
		case "program":
			held.Program = value
		case "time":
			held.Since = value
		}
	}
	return held
}
