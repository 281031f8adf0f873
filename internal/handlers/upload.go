package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pugmark/footprint/internal/footprint"
	"github.com/pugmark/footprint/internal/ingest"
	"github.com/pugmark/footprint/internal/view"
)

// HandleClassify is the JSON API: upload a footprint, get a classification back.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.readUpload(r)
	if err != nil {
		writeError(w, r, "invalid_request", err.Error(), http.StatusBadRequest)
		return
	}

	up, err := decodeUpload(data, filename)
	if err != nil {
		writeError(w, r, ingestErrorCode(err), err.Error(), http.StatusBadRequest)
		return
	}

	res := footprint.Classify(up.image)
	logResult(r, up.filename, res)

	writeJSON(w, h.classificationResponse(r, res))
}

// HandlePredict serves the HTML form: it renders the page with the result card.
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	page := view.NewPage(h.index, AssetPrefix)

	file, header, err := formFile(r, "file")
	if err != nil {
		page.Error = "Please choose a footprint image (png, jpg, jpeg) to upload."
		h.render(w, r, page, http.StatusBadRequest)
		return
	}
	defer file.Close()

	var up *upload
	data, err := readLimited(file)
	if err == nil {
		up, err = decodeUpload(data, header.Filename)
	}
	if err != nil {
		slog.Warn("Rejected upload", "request_id", RequestID(r), "filename", header.Filename, "err", err)
		page.Error = "Could not read the uploaded image: " + err.Error()
		h.render(w, r, page, http.StatusBadRequest)
		return
	}

	res := footprint.Classify(up.image)
	logResult(r, up.filename, res)

	card := h.card(res)
	page.Card = &card

	if preview, err := ingest.Preview(up.source, ingest.PreviewSize); err != nil {
		slog.Warn("Failed to render preview", "request_id", RequestID(r), "err", err)
	} else {
		page.PreviewURI = view.PNGDataURI(preview)
	}

	h.render(w, r, page, http.StatusOK)
}

func (h *Handler) card(res footprint.Result) view.Card {
	return view.NewCard(res, h.index, AssetPrefix)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page view.Page, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Render(w, page); err != nil {
		slog.Error("Unable to render page", "request_id", RequestID(r), "err", err)
	}
}

func ingestErrorCode(err error) string {
	switch {
	case errors.Is(err, ingest.ErrEmpty):
		return "empty_image"
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return "invalid_image"
	case errors.Is(err, ingest.ErrTooManyPixels):
		return "image_too_large"
	default:
		return "invalid_request"
	}
}

func logResult(r *http.Request, filename string, res footprint.Result) {
	attrs := []any{"request_id", RequestID(r), "filename", filename, "label", res.Label(), "score", res.Score()}
	if cat, ok := res.(footprint.BigCat); ok {
		attrs = append(attrs, "age", cat.Age, "weight_kg", cat.WeightKg, "gender", cat.Gender)
	}
	slog.Info("Footprint classified", attrs...)
}
