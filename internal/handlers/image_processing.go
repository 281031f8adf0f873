package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/pugmark/footprint/internal/footprint"
	"github.com/pugmark/footprint/internal/ingest"
	"github.com/pugmark/footprint/internal/models"
)

var errTooLarge = fmt.Errorf("file too large (max %dMB)", maxUploadBytes>>20)

// upload is a decoded footprint ready for classification.
type upload struct {
	filename string
	source   image.Image
	image    *footprint.Image
}

// readUpload extracts image bytes from a JSON, multipart or raw request body.
func (h *Handler) readUpload(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req models.ClassifyRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 2*maxUploadBytes)).Decode(&req); err != nil {
			return nil, "", fmt.Errorf("invalid JSON: %w", err)
		}
		switch {
		case req.ImageURL != "":
			if h.fetcher == nil {
				return nil, "", errors.New("image_url is disabled on this server")
			}
			data, err := h.fetcher.Fetch(r.Context(), req.ImageURL)
			return data, req.ImageURL, err
		case req.Image != "":
			data, err := base64.StdEncoding.DecodeString(req.Image)
			if err != nil {
				return nil, "", fmt.Errorf("invalid base64 image: %w", err)
			}
			return data, "image", nil
		default:
			return nil, "", errors.New("image or image_url is required")
		}

	case "multipart/form-data":
		file, header, err := formFile(r, "file", "files", "image")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()

		data, err := readLimited(file)
		return data, header.Filename, err

	default:
		data, err := readLimited(r.Body)
		return data, "body", err
	}
}

func formFile(r *http.Request, fields ...string) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to parse form: %w", err)
	}
	for _, field := range fields {
		file, header, err := r.FormFile(field)
		if err == nil {
			return file, header, nil
		}
	}
	return nil, nil, fmt.Errorf("no image file provided, use one of the form fields %v", fields)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, errTooLarge
	}
	return data, nil
}

// decodeUpload runs ingestion. Failures here abort before classification.
func decodeUpload(data []byte, filename string) (*upload, error) {
	src, err := ingest.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	slog.Debug("Image decoded", "filename", filename, "width", src.Bounds().Dx(), "height", src.Bounds().Dy())
	return &upload{
		filename: filename,
		source:   src,
		image:    ingest.FromImage(src),
	}, nil
}

func (h *Handler) classificationResponse(r *http.Request, res footprint.Result) models.ClassificationResponse {
	card := h.card(res)
	age, weight, gender := models.Attributes(res)

	return models.ClassificationResponse{
		RequestID:      RequestID(r),
		Label:          res.Label().String(),
		Score:          res.Score(),
		AgeBracket:     age,
		WeightKg:       weight,
		Gender:         gender,
		Description:    card.Description,
		AgeDescription: card.AgeDescription,
		ImageURL:       card.ImageURL,
		AudioURL:       card.AudioURL,
	}
}
