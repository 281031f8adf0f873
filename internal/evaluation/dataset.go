// Package evaluation runs the footprint classifier over labeled datasets and
// aggregates accuracy metrics.
package evaluation

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/pugmark/footprint/internal/footprint"
	"github.com/pugmark/footprint/internal/images"
)

// Sample is one labeled footprint image.
type Sample struct {
	ID    string `json:"id" parquet:"id"`
	Image string `json:"image" parquet:"image"`
	Label string `json:"label" parquet:"label"`
}

// Dataset is the layout of a .json dataset file.
type Dataset struct {
	Samples []Sample `json:"samples"`
}

// Loader handles loading of labeled footprint datasets
type Loader struct {
	datasetPath string
}

// NewLoader creates a new dataset loader
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load loads every sample from a dataset file (JSONL, JSON or Parquet)
func (l *Loader) Load() ([]Sample, error) {
	return l.LoadSample(0)
}

// LoadSample loads at most limit samples. A limit of zero or less loads all.
func (l *Loader) LoadSample(limit int) ([]Sample, error) {
	var (
		samples []Sample
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(l.datasetPath)); ext {
	case ".parquet":
		samples, err = l.loadParquet(limit)
	case ".jsonl":
		samples, err = l.loadJSONL(limit)
	case ".json":
		samples, err = l.loadJSON(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl, .json)", ext)
	}
	if err != nil {
		return nil, err
	}

	return l.normalize(samples)
}

// normalize validates labels, fills missing IDs and resolves relative image
// paths against the dataset file's directory.
func (l *Loader) normalize(samples []Sample) ([]Sample, error) {
	dir := filepath.Dir(l.datasetPath)
	for i := range samples {
		s := &samples[i]
		if s.ID == "" {
			s.ID = strconv.Itoa(i + 1)
		}
		if s.Image == "" {
			return nil, fmt.Errorf("sample %s has no image", s.ID)
		}
		label, err := footprint.ParseLabel(s.Label)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", s.ID, err)
		}
		s.Label = label.String()
		if !images.IsRemote(s.Image) && !filepath.IsAbs(s.Image) {
			s.Image = filepath.Join(dir, s.Image)
		}
	}
	return samples, nil
}

func (l *Loader) loadJSONL(limit int) ([]Sample, error) {
	slog.Debug("Opening JSONL file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var samples []Sample
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var sample Sample
		if err := json.Unmarshal(line, &sample); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		samples = append(samples, sample)
		if limit > 0 && len(samples) >= limit {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL file", "total_samples", len(samples), "total_lines", lineNum)
	return samples, nil
}

func (l *Loader) loadJSON(limit int) ([]Sample, error) {
	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var dataset Dataset
	if err := json.NewDecoder(file).Decode(&dataset); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	if limit > 0 && len(dataset.Samples) > limit {
		dataset.Samples = dataset.Samples[:limit]
	}
	return dataset.Samples, nil
}

func (l *Loader) loadParquet(limit int) ([]Sample, error) {
	slog.Debug("Opening Parquet file", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
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

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Sample](pf)
	defer reader.Close()

	var samples []Sample
	rows := make([]Sample, 128)

	for {
		n, err := reader.Read(rows)
		samples = append(samples, rows[:n]...)
		if limit > 0 && len(samples) >= limit {
			samples = samples[:limit]
			break
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_samples", len(samples))
	return samples, nil
}

// SaveDataset writes samples to path as JSONL, creating parent directories.
func SaveDataset(samples []Sample, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	encoder := json.NewEncoder(w)
	for _, s := range samples {
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("failed to encode sample %s: %w", s.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}
