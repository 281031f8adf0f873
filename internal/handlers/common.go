package handlers

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pugmark/footprint/internal/assets"
	"github.com/pugmark/footprint/internal/images"
	"github.com/pugmark/footprint/internal/models"
	"github.com/pugmark/footprint/internal/view"
)

// AssetPrefix is the URL path gallery images and audio are served under.
const AssetPrefix = "assets"

// maxUploadBytes limits uploaded files to 10MB
const maxUploadBytes = 10 << 20

type Handler struct {
	index    *assets.Index
	assetFS  fs.FS
	renderer *view.Renderer
	fetcher  *images.Fetcher
}

// Option configures a Handler.
type Option func(*Handler)

// WithImageURLs controls whether /api/classify accepts image_url. When
// allowPrivate is false, URLs resolving to internal addresses are refused.
func WithImageURLs(enabled, allowPrivate bool) Option {
	return func(h *Handler) {
		switch {
		case !enabled:
			h.fetcher = nil
		case allowPrivate:
			h.fetcher = images.NewFetcher()
		default:
			h.fetcher = images.NewPublicFetcher()
		}
	}
}

// New wires a handler around an asset index and the filesystem it was built from.
// assetFS may be nil when no assets are available.
func New(index *assets.Index, assetFS fs.FS, opts ...Option) (*Handler, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	if index == nil {
		index = assets.NewIndex(nil, nil)
	}
	h := &Handler{
		index:    index,
		assetFS:  assetFS,
		renderer: renderer,
		fetcher:  images.NewPublicFetcher(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Router returns all routes of the web interface.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)

	r.HandleFunc("/", h.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/predict", h.HandlePredict).Methods(http.MethodPost)
	r.HandleFunc("/api/classify", h.HandleClassify).Methods(http.MethodPost)
	r.HandleFunc("/api/assets", h.HandleAssetIndex).Methods(http.MethodGet)
	r.PathPrefix("/" + AssetPrefix + "/").HandlerFunc(h.HandleAsset).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServerFS(view.Static()))).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "method_not_allowed", "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

type ctxKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the ID assigned to r by the router.
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

// Response helpers
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	slog.Error(message, "request_id", RequestID(r), "code", code, "status", status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{Code: code, Message: message}); err != nil {
		slog.Error("Unable to encode error response", "err", err)
	}
}
