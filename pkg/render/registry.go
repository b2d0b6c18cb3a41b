package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrRendererNotFound is returned by Get for unknown names.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrNotAcceptable is returned by Negotiate when no renderer produces an
	// accepted media type.
	ErrNotAcceptable = errors.New("render: no acceptable renderer")
)

// Registry holds renderers by name and by the media type they produce, so
// the server can honour Accept headers and the CLI can pick one by flag.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
	order  []Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Renderer)}
}

// Register adds renderer under its Name(). Names are unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	r.order = append(r.order, renderer)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Negotiate picks the renderer for an HTTP Accept header. Media ranges are
// tried by descending q, ties in header order; renderers matching the same
// range are tried in registration order. An empty header, or a "*/*" range
// reached before any specific match, selects fallback.
func (r *Registry) Negotiate(accept, fallback string) (Renderer, error) {
	if strings.TrimSpace(accept) == "" {
		return r.Get(fallback)
	}
	ranges := parseAccept(accept)

	r.mu.RLock()
	candidates := append([]Renderer(nil), r.order...)
	r.mu.RUnlock()

	for _, rng := range ranges {
		if rng.mediaType == "*/*" {
			if renderer, err := r.Get(fallback); err == nil {
				return renderer, nil
			}
			if len(candidates) > 0 {
				return candidates[0], nil
			}
			continue
		}
		for _, renderer := range candidates {
			if rng.matches(mediaTypeOf(renderer.ContentType())) {
				return renderer, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotAcceptable, accept)
}

type mediaRange struct {
	mediaType string
	q         float64
}

func (m mediaRange) matches(mediaType string) bool {
	if m.mediaType == mediaType {
		return true
	}
	major, ok := strings.CutSuffix(m.mediaType, "/*")
	return ok && strings.HasPrefix(mediaType, major+"/")
}

// parseAccept drops malformed ranges and ranges with q=0.
func parseAccept(header string) []mediaRange {
	var out []mediaRange
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil || !strings.Contains(mediaType, "/") {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q <= 0 {
			continue
		}
		out = append(out, mediaRange{mediaType: mediaType, q: q})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].q > out[j].q })
	return out
}

func mediaTypeOf(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
