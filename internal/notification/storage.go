// Package notification maintains the registry of notification delivery
// methods and the per-user setting definitions they declare.
package notification

import (
	"errors"
	"sort"
	"sync"

	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

var (
	// ErrMethodSlugEmpty is returned when registering a method with an empty slug.
	ErrMethodSlugEmpty = errors.New("notification method slug cannot be empty")

	// ErrMethodAlreadyRegistered is returned when a method with the same slug is already registered.
	ErrMethodAlreadyRegistered = errors.New("notification method already registered")
)

// Method is the interface implemented by notification delivery methods
// (mail, slack, ...). Methods declare which per-user settings they
// understand; the stored rows are validated against these definitions.
type Method interface {
	// Slug returns the unique slug of the method.
	Slug() string
	// UserSettings returns the per-user setting definitions for this method.
	UserSettings() map[string]settings.Definition
}

// Storage is the global lookup of notification methods by slug.
type Storage struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewStorage creates an empty notification method storage.
func NewStorage() *Storage {
	return &Storage{
		methods: make(map[string]Method),
	}
}

// Register adds a notification method to the storage.
func (s *Storage) Register(m Method) error {
	if m == nil || m.Slug() == "" {
		return ErrMethodSlugEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.methods[m.Slug()]; exists {
		return ErrMethodAlreadyRegistered
	}

	s.methods[m.Slug()] = m

	return nil
}

// Methods returns the slugs of all registered methods.
func (s *Storage) Methods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.methods))
	for slug := range s.methods {
		out = append(out, slug)
	}

	sort.Strings(out)

	return out
}

// Get returns the registered method for the given slug.
func (s *Storage) Get(slug string) (Method, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.methods[slug]

	return m, ok
}

// UserSettings returns the setting definitions declared by the method
// with the given slug. Unknown slugs yield an empty map.
func (s *Storage) UserSettings(slug string) map[string]settings.Definition {
	m, ok := s.Get(slug)
	if !ok {
		return map[string]settings.Definition{}
	}

	return m.UserSettings()
}
