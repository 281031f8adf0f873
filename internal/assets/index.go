// Package assets indexes the gallery images and audio cues shown for each species.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/pugmark/footprint/internal/footprint"
)

// Conventional on-disk layout relative to the asset root.
var (
	GalleryDirs = map[footprint.Species]string{
		footprint.Lion:  "images/lions",
		footprint.Tiger: "images/tigers",
	}
	AudioFiles = map[footprint.Species]string{
		footprint.Lion:  "audio/lion_roar.mp3",
		footprint.Tiger: "audio/tiger_roar.mp3",
	}
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Index maps species to ordered gallery images and an optional audio file.
// Paths are slash separated and relative to the asset root.
type Index struct {
	gallery map[footprint.Species][]string
	audio   map[footprint.Species]string
}

// NewIndex builds an index from explicit entries. The maps are copied.
func NewIndex(gallery map[footprint.Species][]string, audio map[footprint.Species]string) *Index {
	idx := &Index{
		gallery: make(map[footprint.Species][]string, len(gallery)),
		audio:   make(map[footprint.Species]string, len(audio)),
	}
	for s, paths := range gallery {
		idx.gallery[s] = append([]string(nil), paths...)
	}
	for s, p := range audio {
		if p != "" {
			idx.audio[s] = p
		}
	}
	return idx
}

// Build scans fsys using the conventional layout. Missing directories and
// audio files leave the corresponding entries empty.
func Build(fsys fs.FS) (*Index, error) {
	gallery := make(map[footprint.Species][]string)
	audio := make(map[footprint.Species]string)

	for _, s := range footprint.AllSpecies() {
		dir := GalleryDirs[s]
		entries, err := fs.ReadDir(fsys, dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("Gallery directory not found", "species", s, "dir", dir)
		case err != nil:
			return nil, fmt.Errorf("failed to read gallery %s: %w", dir, err)
		}

		// fs.ReadDir returns entries sorted by filename.
		for _, e := range entries {
			if e.IsDir() || !imageExts[strings.ToLower(path.Ext(e.Name()))] {
				continue
			}
			gallery[s] = append(gallery[s], path.Join(dir, e.Name()))
		}

		file := AudioFiles[s]
		info, err := fs.Stat(fsys, file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("Audio cue not found", "species", s, "file", file)
		case err != nil:
			return nil, fmt.Errorf("failed to stat audio %s: %w", file, err)
		case !info.IsDir():
			audio[s] = file
		}
	}

	return &Index{gallery: gallery, audio: audio}, nil
}

// Gallery returns a copy of the images for s in display order.
func (idx *Index) Gallery(s footprint.Species) []string {
	return append([]string(nil), idx.gallery[s]...)
}

// FirstImage is the representative image shown with a prediction.
func (idx *Index) FirstImage(s footprint.Species) (string, bool) {
	if len(idx.gallery[s]) == 0 {
		return "", false
	}
	return idx.gallery[s][0], true
}

func (idx *Index) Audio(s footprint.Species) (string, bool) {
	p, ok := idx.audio[s]
	return p, ok
}

// Contains reports whether p is an indexed image or audio file.
func (idx *Index) Contains(p string) bool {
	for _, paths := range idx.gallery {
		for _, g := range paths {
			if g == p {
				return true
			}
		}
	}
	for _, a := range idx.audio {
		if a == p {
			return true
		}
	}
	return false
}

// Len is the total number of indexed files.
func (idx *Index) Len() int {
	n := len(idx.audio)
	for _, paths := range idx.gallery {
		n += len(paths)
	}
	return n
}

// SpeciesAssets is the serialized form of one species entry.
type SpeciesAssets struct {
	Gallery []string `json:"gallery" yaml:"gallery"`
	Audio   string   `json:"audio,omitempty" yaml:"audio,omitempty"`
}

// Listing returns the index keyed by species name, for JSON and YAML output.
func (idx *Index) Listing() map[string]SpeciesAssets {
	out := make(map[string]SpeciesAssets, len(footprint.AllSpecies()))
	for _, s := range footprint.AllSpecies() {
		g := idx.Gallery(s)
		if g == nil {
			g = []string{}
		}
		out[s.String()] = SpeciesAssets{Gallery: g, Audio: idx.audio[s]}
	}
	return out
}

func (idx *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(idx.Listing())
}
