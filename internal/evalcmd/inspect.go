package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pugmark/footprint/internal/evaluation"
	"github.com/pugmark/footprint/internal/images"
)

func executeInspect(ctx context.Context, in io.Reader, w io.Writer, datasetPath string, limit int, interactive bool) error {
	samples, err := evaluation.NewLoader(datasetPath).LoadSample(limit)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Fprintf(w, "Loaded %d samples from %s\n", len(samples), datasetPath)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)

	counts := make(map[string]int)
	missing := 0

	var lines <-chan struct{}
	if interactive {
		done := make(chan struct{})
		defer close(done)
		lines = readLines(in, done)
	}

	for i, s := range samples {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w, "\nInspection interrupted.")
			return nil
		default:
		}

		counts[s.Label]++

		fmt.Fprintf(w, "SAMPLE %d/%d\n", i+1, len(samples))
		fmt.Fprintln(w, strings.Repeat("-", 80))
		fmt.Fprintf(w, "ID:       %s\n", s.ID)
		fmt.Fprintf(w, "Label:    %s\n", s.Label)
		fmt.Fprintf(w, "Image:    %s\n", s.Image)

		if images.IsRemote(s.Image) {
			fmt.Fprintln(w, "Source:   remote")
		} else if info, err := os.Stat(s.Image); err != nil {
			missing++
			fmt.Fprintln(w, "Source:   local (missing)")
		} else {
			fmt.Fprintf(w, "Source:   local (%d bytes)\n", info.Size())
		}
		fmt.Fprintln(w)

		if !interactive {
			continue
		}

		fmt.Fprint(w, "Press Enter to continue to next sample (or Ctrl+C to quit)...")
		select {
		case <-ctx.Done():
			fmt.Fprintln(w, "\nInspection interrupted.")
			return nil
		case <-lines:
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Labels: lion %d, tiger %d, other %d\n", counts["lion"], counts["tiger"], counts["other"])
	if missing > 0 {
		fmt.Fprintf(w, "Missing local images: %d\n", missing)
	}

	return nil
}

// readLines signals once per line read from in and is closed at EOF. A single
// goroutine serves the whole session; if done closes while it is blocked in
// Read it exits after that read returns.
func readLines(in io.Reader, done <-chan struct{}) <-chan struct{} {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			if _, err := reader.ReadString('\n'); err != nil {
				return
			}
			select {
			case lines <- struct{}{}:
			case <-done:
				return
			}
		}
	}()
	return lines
}
