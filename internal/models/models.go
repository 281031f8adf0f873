package models

import "github.com/pugmark/footprint/internal/footprint"

// ClassificationResponse is the JSON body returned by the classify API
type ClassificationResponse struct {
	RequestID      string  `json:"request_id"`
	Label          string  `json:"label"`
	Score          float64 `json:"score"`
	AgeBracket     string  `json:"age_bracket,omitempty"`
	WeightKg       *int    `json:"weight_kg,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	Description    string  `json:"description"`
	AgeDescription string  `json:"age_description,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	AudioURL       string  `json:"audio_url,omitempty"`
}

// ErrorResponse is returned with every non-2xx API status
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ClassifyRequest is the JSON form of an upload: either base64 image data or a URL
type ClassifyRequest struct {
	Image    string `json:"image,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Attributes flattens a result into optional fields. All three are set
// together for big cats and all are empty for other.
func Attributes(res footprint.Result) (age string, weightKg *int, gender string) {
	cat, ok := res.(footprint.BigCat)
	if !ok {
		return "", nil, ""
	}
	w := cat.WeightKg
	return cat.Age.String(), &w, cat.Gender.String()
}
