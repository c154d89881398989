package knowledge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"computerx_chatbot/internal/logger"
	"computerx_chatbot/internal/textutil"
)

// LearnedLog is the append-only file behind the learned-response table. Each line is
// "question<delimiter>answer"; on replay later lines win over earlier ones.
type LearnedLog struct {
	mu        sync.Mutex
	path      string
	delimiter string
}

// NewLearnedLog creates a log at path. Nothing touches the disk until the first
// Append, which creates missing parent directories.
func NewLearnedLog(path, delimiter string) *LearnedLog {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &LearnedLog{path: path, delimiter: delimiter}
}

// Path returns the file the log appends to
func (l *LearnedLog) Path() string {
	return l.path
}

// Append durably adds one record. Line breaks in the answer are flattened so the
// record stays on a single line.
func (l *LearnedLog) Append(question, answer string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create learned directory: %w", err)
		}
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open learned log: %w", err)
	}

	line := question + l.delimiter + flattenLines(answer) + "\n"
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("append learned log: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("sync learned log: %w", err)
	}
	return file.Close()
}

// LoadLearnedFile replays the learned log at path. When path does not exist the seed
// log is replayed instead; when neither exists the table starts empty and the file
// is created on the first teach.
func (s *Store) LoadLearnedFile(path, seedPath string) error {
	for _, candidate := range []string{path, seedPath} {
		if candidate == "" {
			continue
		}
		file, err := os.Open(candidate)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to open learned responses: %w", err)
		}
		defer file.Close()

		logger.Debug().Str("path", candidate).Msg("Replaying learned responses")
		return s.LoadLearned(file)
	}

	logger.Warn().Str("path", path).Msg("No learned responses found, the file will be created on first learn")
	return nil
}

// LoadLearned replays a learned log. Lines without the delimiter are ignored.
func (s *Store) LoadLearned(r io.Reader) error {
	entries := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		question, answer, ok := strings.Cut(scanner.Text(), s.delimiter)
		if !ok {
			continue
		}
		key := learnedKey(question)
		if key == "" {
			continue
		}
		entries[key] = strings.TrimSpace(answer)
	}

	// keep what was read even if the tail of the file is unreadable
	s.putLearned(entries)
	logger.Info().Int("entries", len(entries)).Msg("Loaded learned responses")

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read learned responses: %w", err)
	}
	return nil
}

// learnedKey is the lookup key for a question. Line breaks become spaces so the key
// written to the log reads back unchanged.
func learnedKey(question string) string {
	return textutil.Normalize(flattenLines(question))
}

func flattenLines(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
