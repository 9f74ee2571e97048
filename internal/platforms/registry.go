package platforms

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/auxshare/auxd/internal/shared"
)

// Info describes a registered platform without exposing its client.
type Info struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	CanExtract  bool   `json:"can_extract"`
}

type entry struct {
	platform Platform
	patterns []*regexp.Regexp
}

// Registry maps share URLs and platform names to their catalog clients.
//
// Built once at process start and passed by reference to the pipeline and
// API layer; registration order determines classification priority.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]entry
}

// NewRegistry creates an empty platform registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a platform with its URL signature patterns.
// Patterns are uncompiled regular expressions matched against raw URLs.
func (r *Registry) Register(p Platform, patterns ...string) error {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid URL pattern for %s: %w", p.Name(), err)
		}
		compiled = append(compiled, re)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[p.Name()]; !exists {
		r.order = append(r.order, p.Name())
	}
	r.entries[p.Name()] = entry{platform: p, patterns: compiled}
	return nil
}

// Classify determines which platform a URL belongs to.
// The first matching pattern wins, in registration order.
func (r *Registry) Classify(url string) (Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		e := r.entries[name]
		for _, re := range e.patterns {
			if re.MatchString(url) {
				return infoFor(e.platform), nil
			}
		}
	}

	return Info{}, fmt.Errorf("%w: %s", shared.ErrUnknownPlatform, url)
}

// Get returns the platform client registered under name.
func (r *Registry) Get(name string) (Platform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownPlatform, name)
	}
	return e.platform, nil
}

// All returns every registered platform in registration order.
func (r *Registry) All() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, infoFor(r.entries[name].platform))
	}
	return infos
}

// Sources returns the platforms usable as a conversion source.
func (r *Registry) Sources() []Info {
	var infos []Info
	for _, info := range r.All() {
		if info.CanExtract {
			infos = append(infos, info)
		}
	}
	return infos
}

// Targets returns the platforms usable as a conversion target (all of them).
func (r *Registry) Targets() []Info {
	return r.All()
}

func infoFor(p Platform) Info {
	return Info{
		Name:        p.Name(),
		DisplayName: p.DisplayName(),
		CanExtract:  p.CanExtract(),
	}
}
