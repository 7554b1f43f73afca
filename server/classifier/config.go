package classifier

import (
	"time"

	"github.com/pkg/errors"
)

// Config holds the tunables of the match engine. The lexical boost and the
// candidate cap have no principled derivation; they are deliberately
// configuration, not algorithmic contract.
type Config struct {
	// Threshold is the minimum cosine similarity for a hybrid match.
	Threshold float64 `json:"threshold" yaml:"threshold"`
	// LexicalBoost is the multiplicative boost applied to candidates that
	// also passed lexical retrieval. The boosted score is capped at 1.0.
	LexicalBoost float64 `json:"lexicalBoost" yaml:"lexicalBoost"`
	// MaxCandidates caps the phase-1 candidate set, keeping re-ranking cheap.
	MaxCandidates int `json:"maxCandidates" yaml:"maxCandidates"`
	// CacheSize bounds the match result cache.
	CacheSize int `json:"cacheSize" yaml:"cacheSize"`
	// CacheTTL is how long a cached match result stays valid.
	CacheTTL time.Duration `json:"cacheTTL" yaml:"cacheTTL"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:     0.3,
		LexicalBoost:  1.2,
		MaxCandidates: 10,
		CacheSize:     1000,
		CacheTTL:      5 * time.Minute,
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.Errorf("threshold %v out of range [0,1]", c.Threshold)
	}
	if c.LexicalBoost < 1 {
		return errors.Errorf("lexical boost %v must be >= 1", c.LexicalBoost)
	}
	if c.MaxCandidates <= 0 {
		return errors.Errorf("max candidates %d must be positive", c.MaxCandidates)
	}
	if c.CacheSize <= 0 {
		return errors.Errorf("cache size %d must be positive", c.CacheSize)
	}
	if c.CacheTTL <= 0 {
		return errors.Errorf("cache ttl %v must be positive", c.CacheTTL)
	}
	return nil
}
