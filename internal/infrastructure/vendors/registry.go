package vendors

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/cache"
	"orderdesk-backend/pkg/utils"

	"gopkg.in/yaml.v3"
)

// StaticRegistry serves a fixed vendor list, typically from configuration.
type StaticRegistry struct {
	vendors []domain.Vendor
}

var (
	_ domain.VendorRegistry = (*StaticRegistry)(nil)
	_ domain.VendorRegistry = (*FileRegistry)(nil)
	_ domain.VendorRegistry = (*CachedRegistry)(nil)
)

// NewStaticRegistry derives ids from the names: "ven 1" -> "ven_1".
// Blank and repeated names are skipped.
func NewStaticRegistry(names []string) *StaticRegistry {
	out := make([]domain.Vendor, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		id := utils.NormalizeEnum(n)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, domain.Vendor{ID: id, Name: n})
	}
	return &StaticRegistry{vendors: out}
}

func (r *StaticRegistry) ListVendors(_ context.Context) ([]domain.Vendor, error) {
	out := make([]domain.Vendor, len(r.vendors))
	copy(out, r.vendors)
	return out, nil
}

// registryFile is the on-disk layout:
//
//	vendors:
//	  - id: dhaka-fab
//	    name: Dhaka Fabrics
type registryFile struct {
	Vendors []domain.Vendor `yaml:"vendors"`
}

// FileRegistry reads a YAML vendor list on every call, so edits to the file
// show up without a restart. Wrap it in a CachedRegistry to bound disk reads.
type FileRegistry struct {
	path string
}

func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{path: path}
}

func (r *FileRegistry) ListVendors(_ context.Context) ([]domain.Vendor, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("vendors: read %s: %w", r.path, err)
	}
	return ParseRegistry(raw)
}

// ParseRegistry decodes and validates a YAML vendor list. A missing id falls
// back to the normalized name. Duplicate ids are an error.
func ParseRegistry(raw []byte) ([]domain.Vendor, error) {
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("vendors: parse registry: %w", err)
	}

	out := make([]domain.Vendor, 0, len(file.Vendors))
	seen := make(map[string]bool, len(file.Vendors))
	for i, v := range file.Vendors {
		v.Name = strings.TrimSpace(v.Name)
		if v.Name == "" {
			return nil, fmt.Errorf("vendors: entry %d has no name", i+1)
		}
		v.ID = utils.FirstNonEmpty(strings.TrimSpace(v.ID), utils.NormalizeEnum(v.Name))
		if seen[v.ID] {
			return nil, fmt.Errorf("vendors: duplicate id %q", v.ID)
		}
		seen[v.ID] = true
		out = append(out, v)
	}
	return out, nil
}

const cacheKey = "list"

// CachedRegistry keeps the last successful list for ttl. Failures are never
// cached, so the next call retries the source.
type CachedRegistry struct {
	source domain.VendorRegistry
	store  cache.CacheService
	ttl    time.Duration
	mu     sync.Mutex
}

func NewCachedRegistry(source domain.VendorRegistry, store cache.CacheService, ttl time.Duration) *CachedRegistry {
	return &CachedRegistry{
		source: source,
		store:  cache.Namespaced("vendors", store),
		ttl:    ttl,
	}
}

func (r *CachedRegistry) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.store.Get(cacheKey); ok {
		if list, ok := v.([]domain.Vendor); ok {
			out := make([]domain.Vendor, len(list))
			copy(out, list)
			return out, nil
		}
	}

	list, err := r.source.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	stored := make([]domain.Vendor, len(list))
	copy(stored, list)
	r.store.Set(cacheKey, stored, r.ttl)
	return list, nil
}

// Invalidate drops the cached list.
func (r *CachedRegistry) Invalidate() {
	r.store.Delete(cacheKey)
}
