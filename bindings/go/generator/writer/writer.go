package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/shard"
)

// Marshal renders a document the way it is written to disk: indented with
// two spaces and terminated by a newline.
func Marshal(v any) ([]byte, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(raw, '\n'), nil
}

// WriteDocument writes a single schema document to dir/name.
func WriteDocument(dir, name string, schema *jsonschemagen.JSONSchemaDraft202012) error {
	return writeJSON(dir, name, schema)
}

// WriteStandalone writes the standalone document of one component, named
// after its simple name.
func WriteStandalone(dir string, doc *jsonschemagen.Document) error {
	return writeJSON(dir, jsonschemagen.StandaloneFileName(doc.Component), doc.Schema)
}

// corpusFiles matches every file a previous corpus may have left in dir.
var corpusFiles = []string{
	"components_[0-9][0-9][0-9].schema.json",
	"enums_[0-9][0-9][0-9].schema.json",
	shard.IndexFile,
}

// WriteCorpus writes all documents of a corpus plus the assignment table to
// dir and returns the written file names. Shard and index files of an
// earlier corpus that are not part of this one are removed afterwards, so
// dir never serves components that are no longer generated.
func WriteCorpus(dir string, corpus *shard.Corpus) ([]string, error) {
	docs := corpus.Documents()
	names := make([]string, 0, len(docs)+1)
	for _, d := range docs {
		if err := writeJSON(dir, d.Name, d.Schema); err != nil {
			return names, err
		}
		names = append(names, d.Name)
	}
	assignments := corpus.Assignments
	if assignments == nil {
		assignments = []shard.Assignment{}
	}
	if err := writeJSON(dir, shard.AssignmentFile, assignments); err != nil {
		return names, err
	}
	names = append(names, shard.AssignmentFile)
	if err := removeStale(dir, names); err != nil {
		return names, err
	}
	return names, nil
}

func removeStale(dir string, keep []string) error {
	for _, pattern := range corpusFiles {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		for _, path := range matches {
			if slices.Contains(keep, filepath.Base(path)) {
				continue
			}
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove stale shard %s: %w", filepath.Base(path), err)
			}
		}
	}
	return nil
}

func writeJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	raw, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dir, name), raw, 0o600)
}
