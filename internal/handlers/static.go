package handlers

import (
	"net/http"
	"strings"

	"github.com/pugmark/footprint/internal/view"
)

// HandleIndex renders the upload page with both galleries.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.NewPage(h.index, AssetPrefix), http.StatusOK)
}

// HandleAsset serves gallery images and audio cues. Only indexed files are
// served, so arbitrary files under the asset root stay private.
func (h *Handler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/"+AssetPrefix+"/")

	if h.assetFS == nil || !h.index.Contains(name) {
		http.NotFound(w, r)
		return
	}

	http.ServeFileFS(w, r, h.assetFS, name)
}

func (h *Handler) HandleAssetIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.index)
}
