package view

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/pugmark/footprint/internal/assets"
	"github.com/pugmark/footprint/internal/footprint"
)

//go:embed templates/*.html static/*
var content embed.FS

// GalleryColumns is the number of images per gallery row.
const GalleryColumns = 3

// Gallery is one species section of the page.
type Gallery struct {
	Title string
	Rows  [][]string
}

// Page is everything the index template needs.
type Page struct {
	PreviewURI template.URL
	Card       *Card
	Error      string
	Galleries  []Gallery
}

// NewPage lays out the galleries of idx. Card and preview are filled in by the caller.
func NewPage(idx *assets.Index, assetPrefix string) Page {
	titles := map[footprint.Species]string{
		footprint.Lion:  "🦁 Lion Gallery",
		footprint.Tiger: "🐅 Tiger Gallery",
	}

	var page Page
	for _, s := range footprint.AllSpecies() {
		g := Gallery{Title: titles[s]}
		if idx != nil {
			var row []string
			for _, p := range idx.Gallery(s) {
				row = append(row, AssetURL(assetPrefix, p))
				if len(row) == GalleryColumns {
					g.Rows = append(g.Rows, row)
					row = nil
				}
			}
			if len(row) > 0 {
				g.Rows = append(g.Rows, row)
			}
		}
		page.Galleries = append(page.Galleries, g)
	}
	return page
}

// PNGDataURI embeds an encoded PNG in the page.
func PNGDataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// Renderer holds the parsed templates. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", page)
}

// Static returns the embedded stylesheet tree, rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
