package session

import (
	"fmt"
	"time"

	"github.com/futig/course-backend/internal/entity"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Registry holds live sessions; idle ones expire after the configured TTL
type Registry struct {
	sessions *gocache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

func NewRegistry(ttl, cleanupInterval time.Duration, logger *zap.Logger) *Registry {
	r := &Registry{
		sessions: gocache.New(ttl, cleanupInterval),
		ttl:      ttl,
		logger:   logger,
	}
	r.sessions.OnEvicted(func(id string, _ any) {
		logger.Info("session dropped", zap.String("session_id", id))
	})
	return r
}

func (r *Registry) Create(mode entity.PipelineMode, history []entity.Message) *Session {
	s := New(uuid.New().String(), mode, history)
	r.sessions.Set(s.ID, s, gocache.DefaultExpiration)
	return s
}

// Get returns the session and extends its lifetime
func (r *Registry) Get(id string) (*Session, error) {
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	s := v.(*Session)
	r.sessions.Set(id, s, gocache.DefaultExpiration)
	return s, nil
}

func (r *Registry) Delete(id string) error {
	if _, ok := r.sessions.Get(id); !ok {
		return fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
	}
	r.sessions.Delete(id)
	return nil
}

// Each calls fn for every live session
func (r *Registry) Each(fn func(*Session)) {
	for _, item := range r.sessions.Items() {
		fn(item.Object.(*Session))
	}
}
