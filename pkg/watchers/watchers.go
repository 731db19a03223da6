package watchers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package watchers contains pluggable watch configs (YAML/JSON) and the
// pollers that turn one watch definition into a page of store resources.

const (
	defaultWatchLimit = 50
	maxWatchLimit     = 250
)

// Watch is one admin API poll definition loaded from the watchers file.
type Watch struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Type   string         `json:"type" yaml:"type"`
	Limit  int            `json:"limit" yaml:"limit"`
	Config map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

// Registry materializes watch definitions loaded from a config file.
type Registry struct {
	mu      sync.RWMutex
	watches []Watch
	idx     map[string]Watch
}

// LoadRegistry loads the watch registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("watchers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read watchers file: %w", err)
	}

	fileReg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Watches) == 0 {
		return nil, errors.New("watchers file contains no watches entries")
	}

	reg := &Registry{
		watches: make([]Watch, len(fileReg.Watches)),
		idx:     make(map[string]Watch, len(fileReg.Watches)),
	}

	for i := range fileReg.Watches {
		w := sanitizeWatch(fileReg.Watches[i])
		if err := validateWatch(w); err != nil {
			return nil, fmt.Errorf("watches[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches[i] = w
		reg.idx[w.ID] = w
	}

	return reg, nil
}

// parseRegistry attempts to decode the watchers file content.
func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("watchers file format not recognized (expected YAML or JSON)")
}

// unmarshalRegistry decodes the watchers file using the provided function.
func unmarshalRegistry(name string, data []byte, fn func([]byte, any) error) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s watchers: %w", name, err)
	}
	return reg, nil
}

// sanitizeWatch trims and normalizes the watch fields.
func sanitizeWatch(w Watch) Watch {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)
	w.Type = strings.ToLower(strings.TrimSpace(w.Type))

	if w.Config == nil {
		w.Config = map[string]any{}
	}
	if w.Limit <= 0 {
		w.Limit = defaultWatchLimit
	}

	return w
}

// validateWatch checks that required fields are present.
func validateWatch(w Watch) error {
	if w.ID == "" {
		return errors.New("id is required")
	}
	if w.Name == "" {
		return fmt.Errorf("name is required for watch %q", w.ID)
	}
	if w.Type == "" {
		return fmt.Errorf("type is required for watch %q", w.ID)
	}
	if w.Limit > maxWatchLimit {
		return fmt.Errorf("limit %d exceeds maximum %d for watch %q", w.Limit, maxWatchLimit, w.ID)
	}
	return nil
}

// ByID returns the watch entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Watch, bool) {
	if r == nil {
		return Watch{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Watch{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.idx[id]
	return w, ok
}

// All returns a copy of the loaded watch definitions.
func (r *Registry) All() []Watch {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}
