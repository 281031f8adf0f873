package evaluation

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/parquet-go/parquet-go"
	"go.uber.org/goleak"

	"github.com/pugmark/footprint/internal/footprint"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writePNG(t *testing.T, path string, gray uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = gray
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write png: %v", err)
	}
}

func TestLoaderFormats(t *testing.T) {
	dir := t.TempDir()

	jsonl := filepath.Join(dir, "data.jsonl")
	content := `{"id":"a","image":"a.png","label":"Lion"}

{"image":"/abs/b.png","label":"tiger"}
{"id":"c","image":"https://example.com/c.png","label":"other"}
`
	if err := os.WriteFile(jsonl, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(jsonPath, []byte(`{"samples":[{"id":"a","image":"a.png","label":"lion"},{"id":"b","image":"/abs/b.png","label":"tiger"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	parquetPath := filepath.Join(dir, "data.parquet")
	rows := []Sample{
		{ID: "a", Image: "a.png", Label: "lion"},
		{ID: "b", Image: "/abs/b.png", Label: "tiger"},
		{ID: "c", Image: "https://example.com/c.png", Label: "other"},
	}
	if err := parquet.WriteFile(parquetPath, rows); err != nil {
		t.Fatalf("failed to write parquet: %v", err)
	}

	want := []Sample{
		{ID: "a", Image: filepath.Join(dir, "a.png"), Label: "lion"},
		{ID: "2", Image: "/abs/b.png", Label: "tiger"},
		{ID: "c", Image: "https://example.com/c.png", Label: "other"},
	}

	tests := []struct {
		name     string
		path     string
		limit    int
		expected []Sample
	}{
		{"jsonl", jsonl, 0, want},
		{"jsonl limited", jsonl, 2, want[:2]},
		{"json", jsonPath, 0, []Sample{want[0], {ID: "b", Image: "/abs/b.png", Label: "tiger"}}},
		{"json limited", jsonPath, 1, want[:1]},
		{"parquet", parquetPath, 0, []Sample{want[0], {ID: "b", Image: "/abs/b.png", Label: "tiger"}, want[2]}},
		{"parquet limited", parquetPath, 1, want[:1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewLoader(tt.path).LoadSample(tt.limit)
			if err != nil {
				t.Fatalf("LoadSample failed: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("samples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", write("data.csv", "id,image,label\n")},
		{"bad label", write("bad-label.jsonl", `{"id":"x","image":"x.png","label":"leopard"}`)},
		{"missing image", write("no-image.jsonl", `{"id":"x","label":"lion"}`)},
		{"bad json line", write("bad.jsonl", "{\n")},
		{"missing file", filepath.Join(dir, "missing.jsonl")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader(tt.path).Load(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestSaveDatasetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "dataset.jsonl")

	samples := []Sample{
		{ID: "1", Image: "images/1.png", Label: "lion"},
		{ID: "2", Image: "images/2.png", Label: "other"},
	}
	if err := SaveDataset(samples, path); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	got, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 || got[1].Image != filepath.Join(dir, "out", "images/2.png") {
		t.Errorf("Unexpected samples: %+v", got)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "white.png"), 255)
	writePNG(t, filepath.Join(dir, "black.png"), 0)
	writePNG(t, filepath.Join(dir, "grey.png"), 128)

	samples := []Sample{
		{ID: "w", Image: filepath.Join(dir, "white.png"), Label: "lion"},
		{ID: "b", Image: filepath.Join(dir, "black.png"), Label: "lion"},
		{ID: "g", Image: filepath.Join(dir, "grey.png"), Label: "other"},
		{ID: "m", Image: filepath.Join(dir, "missing.png"), Label: "tiger"},
	}

	results := Run(context.Background(), samples, Options{Concurrency: 2})
	if len(results) != len(samples) {
		t.Fatalf("Expected %d results, got %d", len(samples), len(results))
	}

	for i, r := range results {
		if r.ID != samples[i].ID {
			t.Errorf("Result %d out of order: %s", i, r.ID)
		}
	}

	if r := results[0]; r.Predicted != footprint.LabelLion || !r.Correct || r.Age != footprint.Senior || r.WeightKg != 190 || r.Gender != footprint.Male {
		t.Errorf("Unexpected white result: %+v", r)
	}
	if r := results[1]; r.Predicted != footprint.LabelTiger || r.Correct || r.WeightKg != 15 {
		t.Errorf("Unexpected black result: %+v", r)
	}
	if r := results[2]; r.Predicted != footprint.LabelOther || !r.Correct || r.Age != "" || r.WeightKg != 0 {
		t.Errorf("Unexpected grey result: %+v", r)
	}
	if r := results[3]; r.Error == "" || r.Predicted != "" {
		t.Errorf("Expected missing image to fail, got %+v", r)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	samples := []Sample{{ID: "1", Image: "x.png", Label: "lion"}, {ID: "2", Image: "y.png", Label: "tiger"}}
	for _, r := range Run(ctx, samples, Options{Concurrency: 1}) {
		if !strings.Contains(r.Error, context.Canceled.Error()) {
			t.Errorf("Expected canceled error, got %q", r.Error)
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []SampleResult{
		{ID: "1", Expected: "lion", Predicted: "lion", Score: 0.9, Correct: true, Duration: 2 * time.Millisecond},
		{ID: "2", Expected: "lion", Predicted: "tiger", Score: 0.1, Duration: 4 * time.Millisecond},
		{ID: "3", Expected: "tiger", Predicted: "tiger", Score: 0.2, Correct: true, Duration: 6 * time.Millisecond},
		{ID: "4", Expected: "other", Predicted: "other", Score: 0.5, Correct: true, Duration: 4 * time.Millisecond},
		{ID: "5", Expected: "tiger", Error: "failed to load image"},
	}

	s := Summarize(results)

	if s.Total != 5 || s.Successful != 4 || s.Failed != 1 || s.Correct != 3 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if s.Accuracy != 0.75 {
		t.Errorf("Expected accuracy 0.75, got %v", s.Accuracy)
	}
	if s.MeanScore != 0.425 {
		t.Errorf("Expected mean score 0.425, got %v", s.MeanScore)
	}
	if s.AverageDuration != 4*time.Millisecond {
		t.Errorf("Expected average duration 4ms, got %v", s.AverageDuration)
	}

	wantLabels := map[footprint.Label]LabelMetrics{
		"lion":  {Precision: 1, Recall: 0.5, Support: 2, Predicted: 1},
		"tiger": {Precision: 0.5, Recall: 1, Support: 1, Predicted: 2},
		"other": {Precision: 1, Recall: 1, Support: 1, Predicted: 1},
	}
	if diff := cmp.Diff(wantLabels, s.Labels); diff != "" {
		t.Errorf("label metrics mismatch (-want +got):\n%s", diff)
	}
	if s.Confusion["lion"]["tiger"] != 1 || s.Confusion["tiger"]["tiger"] != 1 || s.Confusion["tiger"]["lion"] != 0 {
		t.Errorf("Unexpected confusion matrix: %v", s.Confusion)
	}

	var buf bytes.Buffer
	s.Print(&buf)
	if !strings.Contains(buf.String(), "Accuracy:           75.00%") {
		t.Errorf("Expected printed accuracy, got:\n%s", buf.String())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Accuracy != 0 || s.MeanScore != 0 {
		t.Errorf("Expected zero summary, got %+v", s)
	}
	if len(s.Labels) != len(footprint.Labels()) {
		t.Errorf("Expected metrics for every label, got %v", s.Labels)
	}
}

func TestSaveLoadResults(t *testing.T) {
	dir := t.TempDir()
	results := []SampleResult{
		{ID: "1", Image: "a.png", Expected: "lion", Predicted: "lion", Score: 0.9, Age: footprint.Senior, WeightKg: 186, Gender: footprint.Male, Correct: true, Duration: 1500 * time.Microsecond},
		{ID: "2", Image: "b.png", Expected: "tiger", Error: "failed to load image"},
	}
	report := &Report{
		Config:  Config{DatasetPath: "data.jsonl", SampleSize: 2, Concurrency: 4, Timestamp: "2025-01-02_03-04-05"},
		Summary: Summarize(results),
		Results: results,
	}

	if err := SaveResults(dir, report); err != nil {
		t.Fatalf("SaveResults failed: %v", err)
	}

	got, err := LoadResults(dir)
	if err != nil {
		t.Fatalf("LoadResults failed: %v", err)
	}
	if diff := cmp.Diff(report, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadResults(t.TempDir()); err == nil {
		t.Error("Expected error for missing results file")
	}
}
