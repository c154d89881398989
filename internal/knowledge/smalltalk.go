package knowledge

import (
	"fmt"
	"io"
	"os"

	"computerx_chatbot/internal/logger"

	"github.com/magiconair/properties"
)

// LoadSmallTalkFile loads the small-talk table from a .properties file
func (s *Store) LoadSmallTalkFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open small talk: %w", err)
	}
	defer file.Close()

	return s.LoadSmallTalk(file)
}

// LoadSmallTalk parses a properties table whose keys are normalized phrases with
// spaces written as dots, e.g. "who.made.you=A team at Computer X."
func (s *Store) LoadSmallTalk(r io.Reader) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read small talk: %w", err)
	}

	// Replies are plain text; ${...} must not be treated as a reference.
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	table, err := loader.LoadBytes(buf)
	if err != nil {
		return fmt.Errorf("parse small talk: %w", err)
	}

	s.smallTalk = table
	logger.Info().Int("entries", table.Len()).Msg("Loaded small talk entries")
	return nil
}
