package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// Store holds schema documents read from a directory, keyed by $id
type Store struct {
	dir       string
	documents map[string]any
	files     map[string]string
}

// LoadDir reads every .json, .yaml and .yml file in dir as a schema document.
// Subdirectories are not traversed.
func LoadDir(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory %s: %w", dir, err)
	}

	store := &Store{
		dir:       dir,
		documents: make(map[string]any),
		files:     make(map[string]string),
	}

	for _, entry := range entries {
		if entry.IsDir() || !isSchemaFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := store.add(path); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func (s *Store) add(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	doc, err := readDocument(path, content)
	if err != nil {
		return &ConfigurationError{Err: fmt.Errorf("%s: %w", path, err)}
	}

	id, err := documentID(doc)
	if err != nil {
		return &ConfigurationError{Err: fmt.Errorf("%s: %w", path, err)}
	}
	if previous, ok := s.files[id]; ok {
		return &ConfigurationError{SchemaID: id, Err: fmt.Errorf("%w: %s and %s", ErrDuplicateID, previous, path)}
	}

	s.documents[id] = doc
	s.files[id] = path
	return nil
}

// readDocument decodes a schema file; YAML values are normalized to the JSON data model
func readDocument(path string, content []byte) (any, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSON(content)
	}

	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return normalize(doc)
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Dir returns the directory the store was loaded from
func (s *Store) Dir() string {
	return s.dir
}

// IDs returns the ids of all loaded schemas, sorted
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.documents))
	for id := range s.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// File returns the file a schema was loaded from
func (s *Store) File(id string) (string, bool) {
	path, ok := s.files[baseID(id)]
	return path, ok
}

// Documents returns all loaded schema documents ordered by id
func (s *Store) Documents() []any {
	ids := s.IDs()
	docs := make([]any, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, s.documents[id])
	}
	return docs
}

// Validator compiles the schema with the given id against every document in the store
func (s *Store) Validator(id string, opts ...Option) (*Validator, error) {
	return New(id, s.Documents(), opts...)
}
