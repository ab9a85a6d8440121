// Package prompts manages the on-disk library of prompt templates:
// one JSON file per prompt under a single directory.
package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/promptcap/promptcap/internal/template"
)

// Store reads and writes prompt templates under a root directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on
// first save, not here, so a read-only listing over a missing dir just
// comes back empty.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// List returns all prompt schemas sorted by name. Files that fail to
// parse are skipped with their error collected, so one broken file
// does not hide the rest of the library.
func (s *Store) List() ([]*template.Schema, []error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("reading prompt directory: %w", err)}
	}

	var schemas []*template.Schema
	var broken []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		schema, err := template.LoadSchema(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			broken = append(broken, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		schemas = append(schemas, schema)
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas, broken
}

// Load returns the schema with the given name.
func (s *Store) Load(name string) (*template.Schema, error) {
	schema, err := template.LoadSchema(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("prompt %q not found", name)
		}
		return nil, err
	}
	return schema, nil
}

// Save writes the schema to disk, creating the store directory if
// needed. An existing prompt with the same name is replaced.
func (s *Store) Save(schema *template.Schema) error {
	if err := schema.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating prompt directory: %w", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding prompt: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path(schema.Name), data, 0o644); err != nil {
		return fmt.Errorf("writing prompt: %w", err)
	}
	return nil
}

// Delete removes the named prompt.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("prompt %q not found", name)
	}
	return err
}

// Exists reports whether a prompt with the given name is stored.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
