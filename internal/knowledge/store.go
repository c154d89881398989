// Package knowledge owns the bot's data: the product catalog, the small-talk phrase
// table and the learned question/answer table.
//
// Loading fails soft. A missing or malformed source is logged and the store keeps
// whatever loaded, so a conversation can always be served with degraded data.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"computerx_chatbot/internal/logger"
	"computerx_chatbot/internal/textutil"
	"computerx_chatbot/pkg"

	"github.com/magiconair/properties"
	"golang.org/x/sync/errgroup"
)

// DefaultDelimiter separates question and answer in the learned-response log
const DefaultDelimiter = ":::"

// SmallTalkKeySeparator replaces spaces when a normalized input is used as a
// small-talk key ("how are you" -> "how.are.you")
const SmallTalkKeySeparator = "."

// ErrBlankQuestion is returned when a learned response has no question
var ErrBlankQuestion = errors.New("learned question cannot be blank")

// ErrDelimiterInQuestion is returned when a learned question contains the log delimiter
var ErrDelimiterInQuestion = errors.New("learned question cannot contain the log delimiter")

// Paths lists the sources read by LoadAll
type Paths struct {
	Catalog     string
	SmallTalk   string
	Learned     string
	LearnedSeed string
}

// Stats summarizes what the store holds
type Stats struct {
	Products  int `json:"products"`
	SmallTalk int `json:"small_talk"`
	Learned   int `json:"learned"`
}

// Store is the knowledge base shared by every conversation. Catalog and small talk
// are written once during loading; the learned table supports concurrent reads and
// inserts.
type Store struct {
	products  []pkg.Product
	smallTalk *properties.Properties

	mu        sync.RWMutex
	learned   map[string]string
	log       *LearnedLog
	delimiter string
}

// Option configures a Store
type Option func(*Store)

// WithDelimiter sets the question/answer delimiter of the learned log
func WithDelimiter(delimiter string) Option {
	return func(s *Store) {
		if delimiter != "" {
			s.delimiter = delimiter
		}
	}
}

// WithLearnedLog sets the durable log that RecordLearned appends to
func WithLearnedLog(path string) Option {
	return func(s *Store) {
		s.log = NewLearnedLog(path, s.delimiter)
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		smallTalk: properties.NewProperties(),
		learned:   make(map[string]string),
		delimiter: DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log != nil {
		// the delimiter option may have been applied after the log option
		s.log.delimiter = s.delimiter
	}
	return s
}

// LoadAll reads the three sources in parallel and returns once all have finished.
// It never fails: each loader logs its own problems and the store keeps what loaded.
// A cancelled ctx skips the loaders that have not started yet.
func (s *Store) LoadAll(ctx context.Context, paths Paths) Stats {
	start := time.Now()

	if paths.Learned != "" && s.log == nil {
		s.log = NewLearnedLog(paths.Learned, s.delimiter)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if gctx.Err() != nil {
			return gctx.Err()
		}
		if err := s.LoadCatalogFile(paths.Catalog); err != nil {
			logger.Error().Err(err).Str("path", paths.Catalog).Msg("Catalog loaded with errors")
		}
		return nil
	})
	g.Go(func() error {
		if gctx.Err() != nil {
			return gctx.Err()
		}
		if err := s.LoadSmallTalkFile(paths.SmallTalk); err != nil {
			logger.Error().Err(err).Str("path", paths.SmallTalk).Msg("Failed to load small talk")
		}
		return nil
	})
	g.Go(func() error {
		if gctx.Err() != nil {
			return gctx.Err()
		}
		if err := s.LoadLearnedFile(paths.Learned, paths.LearnedSeed); err != nil {
			logger.Error().Err(err).Str("path", paths.Learned).Msg("Failed to load learned responses")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Msg("Knowledge base loading interrupted")
	}

	stats := s.Stats()
	logger.Info().
		Int("products", stats.Products).
		Int("small_talk", stats.SmallTalk).
		Int("learned", stats.Learned).
		Dur("elapsed", time.Since(start)).
		Msg("Knowledge base loaded")

	return stats
}

// Products returns the catalog in load order. Callers must not modify the slice.
func (s *Store) Products() []pkg.Product {
	return s.products
}

// FindSmallTalk looks up a small-talk reply. The key is normalized and its spaces are
// replaced by the property key separator.
func (s *Store) FindSmallTalk(key string) (string, bool) {
	propertyKey := strings.ReplaceAll(textutil.Normalize(key), " ", SmallTalkKeySeparator)
	return s.smallTalk.Get(propertyKey)
}

// FindLearned looks up an answer taught at runtime or replayed from the log
func (s *Store) FindLearned(question string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answer, ok := s.learned[learnedKey(question)]
	return answer, ok
}

// RecordLearned stores an answer for question. The in-memory table is updated first
// and is authoritative; a non-nil error only reports that the durable append failed.
func (s *Store) RecordLearned(question, answer string) error {
	key := learnedKey(question)
	if key == "" {
		return ErrBlankQuestion
	}
	if strings.Contains(key, s.delimiter) {
		return fmt.Errorf("%w %q", ErrDelimiterInQuestion, s.delimiter)
	}

	s.mu.Lock()
	s.learned[key] = answer
	s.mu.Unlock()

	if s.log == nil {
		return nil
	}
	if err := s.log.Append(key, answer); err != nil {
		logger.Error().Err(err).Str("path", s.log.Path()).Msg("Failed to save learned response, keeping it in memory only")
		return err
	}
	logger.Info().Str("question", key).Str("path", s.log.Path()).Msg("Saved new learned response")
	return nil
}

// Stats reports how many entries each table holds
func (s *Store) Stats() Stats {
	s.mu.RLock()
	learned := len(s.learned)
	s.mu.RUnlock()

	return Stats{
		Products:  len(s.products),
		SmallTalk: s.smallTalk.Len(),
		Learned:   learned,
	}
}

func (s *Store) putLearned(entries map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.learned[k] = v
	}
}
