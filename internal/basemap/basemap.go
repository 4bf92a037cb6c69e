// Package basemap loads the pre-projected topology asset (land mass and
// state borders) the map renders beneath listing layers. The asset's
// coordinate space must match the fixed projection frame exactly; it is
// loaded once and cached for the process lifetime.
package basemap

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// emptyTopology is served when the asset cannot be loaded: the map
// degrades to bubbles and fields over a blank background instead of
// failing.
var emptyTopology = []byte(`{"type":"Topology","objects":{}}`)

// Store caches the topology document
type Store struct {
	path string

	once     sync.Once
	document []byte
	degraded bool
}

// NewStore creates a store for the asset at path. Files ending in .zst
// are decompressed on load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Document returns the cached topology bytes, loading on first call.
// degraded reports whether the asset failed to load and the empty
// fallback is being served.
func (s *Store) Document() (doc []byte, degraded bool) {
	s.once.Do(func() {
		data, err := s.load()
		if err != nil {
			log.Printf("[Basemap] Failed to load %s, serving empty topology: %v", s.path, err)
			s.document = emptyTopology
			s.degraded = true
			return
		}
		s.document = data
		log.Printf("[Basemap] Loaded topology asset %s (%d bytes)", s.path, len(data))
	})
	return s.document, s.degraded
}

func (s *Store) load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read basemap asset: %w", err)
	}

	if strings.HasSuffix(s.path, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()

		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress basemap asset: %w", err)
		}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("basemap asset is not valid JSON")
	}
	return data, nil
}
