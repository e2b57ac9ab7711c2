package sanitize

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// compiled memoizes bluemonday policies per definition key for the lifetime
// of the process.
var compiled sync.Map // key -> *bluemonday.Policy

// Sanitizer applies a compiled Policy. It is safe for concurrent use.
type Sanitizer struct {
	key    string
	policy *bluemonday.Policy
}

// New compiles p, consulting cache for a previously published definition.
// A nil cache skips persistence. Returns ErrConfiguration if the cache
// cannot be written and ErrInvalidPolicy if p is malformed.
func New(p Policy, cache *DefinitionCache, logger *slog.Logger) (*Sanitizer, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	key, data, err := Serialize(p)
	if err != nil {
		return nil, err
	}

	def := p
	if cache != nil {
		cached, loadErr := cache.Load(key)
		switch {
		case loadErr == nil:
			logger.Debug("sanitizer definition loaded from cache", "key", key)
			def = cached
		case errors.Is(loadErr, ErrCacheMiss):
			if err := cache.Store(key, data); err != nil {
				return nil, err
			}
			logger.Debug("sanitizer definition cached", "key", key, "path", cache.Path(key))
		default:
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, loadErr)
		}
	}

	if bm, ok := compiled.Load(key); ok {
		return &Sanitizer{key: key, policy: bm.(*bluemonday.Policy)}, nil
	}

	bm, err := Compile(def)
	if err != nil {
		return nil, err
	}

	actual, _ := compiled.LoadOrStore(key, bm)
	return &Sanitizer{key: key, policy: actual.(*bluemonday.Policy)}, nil
}

// Sanitize returns the allow-listed subset of unsafe. Malformed or
// disallowed markup is dropped or escaped; it never fails.
func (s *Sanitizer) Sanitize(unsafe string) string {
	return s.policy.Sanitize(unsafe)
}

// Key identifies the definition this sanitizer was built from.
func (s *Sanitizer) Key() string {
	return s.key
}
