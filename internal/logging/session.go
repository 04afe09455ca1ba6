package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogExt is the extension of session log files.
const LogExt = ".log"

// Session is one log file written by an interactive session.
type Session struct {
	ID      string
	Path    string
	ModTime time.Time
	Size    int64
}

// SessionLog owns the log file of the running session.
type SessionLog struct {
	Dir  string
	ID   string
	Path string
	file *os.File
}

// NewSessionLog creates dir if needed and opens a fresh session log file in
// it.
func NewSessionLog(dir string) (*SessionLog, error) {
	if dir == "" {
		return nil, fmt.Errorf("log dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := sessionID()
	path := filepath.Join(dir, id+LogExt)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &SessionLog{
		Dir:  dir,
		ID:   id,
		Path: path,
		file: file,
	}, nil
}

// Writer returns the underlying log file writer.
func (s *SessionLog) Writer() *os.File {
	return s.file
}

// Close closes the log file.
func (s *SessionLog) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

func sessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// FindSessions lists the session logs in dir, newest first. A missing
// directory has no sessions.
func FindSessions(dir string) ([]Session, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, LogExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sessions = append(sessions, Session{
			ID:      strings.TrimSuffix(name, LogExt),
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].ModTime.Equal(sessions[j].ModTime) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].ModTime.After(sessions[j].ModTime)
	})
	return sessions, nil
}

// FindLatestLog returns the newest session log in dir, or "" if there is
// none.
func FindLatestLog(dir string) (string, error) {
	sessions, err := FindSessions(dir)
	if err != nil || len(sessions) == 0 {
		return "", err
	}
	return sessions[0].Path, nil
}

// Prune removes all but the newest keep session logs. keep <= 0 keeps
// everything.
func Prune(dir string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	sessions, err := FindSessions(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, s := range sessions[min(keep, len(sessions)):] {
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", s.Path, err)
		}
		removed++
	}
	return removed, nil
}
