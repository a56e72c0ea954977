package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/anipix/anipix/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Loader reads image records from a catalog file (JSON, JSONL, YAML or Parquet)
type Loader struct {
	path string
}

// NewLoader creates a new catalog loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load reads the catalog file and builds a Store from it
func Load(path string) (*Store, error) {
	records, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}

	store, err := New(records)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	slog.Info("Catalog loaded", "path", path, "records", store.Len())
	return store, nil
}

// Load reads all records in file order
func (l *Loader) Load() ([]models.ImageRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".parquet":
		return l.loadParquet()
	case ".jsonl":
		return l.loadJSONL()
	case ".json":
		return l.loadJSON()
	case ".yaml", ".yml":
		return l.loadYAML()
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s (supported: .json, .jsonl, .yaml, .parquet)", ext)
	}
}

func (l *Loader) loadJSON() ([]models.ImageRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var records []models.ImageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
	}

	return records, nil
}

func (l *Loader) loadYAML() ([]models.ImageRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var records []models.ImageRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
	}

	return records, nil
}

func (l *Loader) loadJSONL() ([]models.ImageRecord, error) {
	slog.Debug("Opening JSONL catalog", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var records []models.ImageRecord
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024 // 1MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record models.ImageRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	slog.Debug("Finished reading JSONL catalog", "total_records", len(records), "total_lines", lineNum)

	return records, nil
}

func (l *Loader) loadParquet() ([]models.ImageRecord, error) {
	slog.Debug("Opening Parquet catalog", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[models.ImageRecord](pf)
	defer reader.Close()

	records := make([]models.ImageRecord, 0, pf.NumRows())
	rows := make([]models.ImageRecord, 128)

	for {
		// Zero the batch so list columns never alias a previous read
		clear(rows)
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet catalog", "total_records", len(records))

	return records, nil
}
