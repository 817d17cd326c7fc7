// Package mock provides a scripted metadata provider for tests.
package mock

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

// Provider returns pre-seeded metadata by path and records the lookups it
// receives. Unseeded paths get minimal file-name metadata unless FailUnknown
// is set.
type Provider struct {
	mu          sync.Mutex
	entries     map[string]map[string]any
	failing     map[string]error
	calls       []string
	FailUnknown bool
}

// NewProvider creates an empty scripted provider.
func NewProvider() *Provider {
	return &Provider{
		entries: make(map[string]map[string]any),
		failing: make(map[string]error),
	}
}

var _ ports.MetadataProvider = (*Provider)(nil)

// Seed registers the metadata returned for path.
func (p *Provider) Seed(path string, metadata map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[path] = metadata
}

// Fail makes lookups of path return err.
func (p *Provider) Fail(path string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[path] = err
}

// Calls returns the paths looked up so far, in order.
func (p *Provider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// GetMetadata implements ports.MetadataProvider.
func (p *Provider) GetMetadata(path string) (map[string]any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, path)

	if err, ok := p.failing[path]; ok {
		return nil, err
	}
	if metadata, ok := p.entries[path]; ok {
		copied := make(map[string]any, len(metadata))
		for k, v := range metadata {
			copied[k] = v
		}
		return copied, nil
	}
	if p.FailUnknown {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	return map[string]any{domain.MetaTitle: filepath.Base(path)}, nil
}
