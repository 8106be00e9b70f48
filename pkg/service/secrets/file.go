// Package secrets loads site credentials from a JSON file.
package secrets

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
)

const defaultCacheTTL = 5 * time.Minute

// FileSource reads credentials from a JSON file and caches the parsed
// payload so repeated runs in one process do not hit the filesystem every
// time. Staleness is bounded by the TTL.
type FileSource struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	cached   *model.Credentials
	loadedAt time.Time
}

var _ interfaces.CredentialSource = (*FileSource)(nil)

type Option func(*FileSource)

// WithTTL overrides the default five minute cache lifetime. Zero or
// negative disables caching entirely.
func WithTTL(ttl time.Duration) Option {
	return func(s *FileSource) {
		s.ttl = ttl
	}
}

// WithClock injects the time source used for cache expiry
func WithClock(now func() time.Time) Option {
	return func(s *FileSource) {
		s.now = now
	}
}

func NewFileSource(path string, opts ...Option) *FileSource {
	s := &FileSource{
		path: path,
		ttl:  defaultCacheTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the parsed credentials, re-reading the file only when the
// cached copy has expired.
func (s *FileSource) Get(ctx context.Context) (*model.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.ttl > 0 && s.now().Sub(s.loadedAt) < s.ttl {
		ctxlog.From(ctx).Debug("Using cached credentials", "path", s.path)
		return s.cached, nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read credentials file",
			goerr.V("path", s.path))
	}

	var creds model.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, goerr.Wrap(err, "failed to parse credentials file",
			goerr.T(model.TagConfig),
			goerr.V("path", s.path))
	}

	s.cached = &creds
	s.loadedAt = s.now()
	ctxlog.From(ctx).Info("Loaded credentials", "path", s.path, "sites", len(creds.Sites))

	return &creds, nil
}
