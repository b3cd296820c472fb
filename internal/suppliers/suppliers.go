// Package suppliers routes tagged supplier payloads to their normalizers.
package suppliers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/suppliers/sanmar"
	"github.com/fr0stylo/stockwatch/internal/suppliers/ssactivewear"
	"github.com/fr0stylo/stockwatch/internal/suppliers/wire"
)

var (
	// ErrUnknownSource indicates no normalizer is registered for the tag.
	ErrUnknownSource = errors.New("unknown supplier source")
	// ErrMalformedPayload indicates the body is not JSON.
	ErrMalformedPayload = wire.ErrMalformedJSON
)

// NormalizeFunc converts one supplier wire body into the canonical payload.
type NormalizeFunc func(raw []byte, now time.Time) (domain.WebhookPayload, error)

var (
	registryMu sync.RWMutex
	registry   = map[domain.Source]NormalizeFunc{
		domain.SourceSSActivewear: ssactivewear.Parse,
		domain.SourceSanMar:       sanmar.Parse,
	}
)

// Register adds or replaces the normalizer for a source tag.
func Register(source domain.Source, fn NormalizeFunc) {
	if fn == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[source] = fn
}

// Lookup returns the normalizer registered for source.
func Lookup(source domain.Source) (NormalizeFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[source]
	return fn, ok
}

// ParseSource resolves a path or config tag ("ss_activewear", "sanmar") to a registered source.
func ParseSource(value string) (domain.Source, error) {
	source := domain.Source(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := Lookup(source); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, value)
	}
	return source, nil
}

// Sources lists registered tags in stable order.
func Sources() []domain.Source {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]domain.Source, 0, len(registry))
	for source := range registry {
		out = append(out, source)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Normalize dispatches raw to the normalizer for source.
func Normalize(source domain.Source, raw []byte, now time.Time) (domain.WebhookPayload, error) {
	fn, ok := Lookup(source)
	if !ok {
		return domain.WebhookPayload{}, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return fn(raw, now)
}
