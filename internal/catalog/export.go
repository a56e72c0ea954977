package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anipix/anipix/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Export writes every record in the store to path. The format is chosen from
// the file extension, using the same rules as Loader.
func (s *Store) Export(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".parquet", ".jsonl", ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("unsupported export format: %s", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := s.write(file, ext); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func (s *Store) write(w io.Writer, ext string) error {
	records := make([]models.ImageRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, *r)
	}

	switch ext {
	case ".parquet":
		writer := parquet.NewGenericWriter[models.ImageRecord](w)
		if _, err := writer.Write(records); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to finalize parquet file: %w", err)
		}
	case ".jsonl":
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("failed to encode record %q: %w", r.Title, err)
			}
		}
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return enc.Close()
	}

	return nil
}
