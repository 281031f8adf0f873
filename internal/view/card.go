// Package view renders classification results as HTML. Rendering is driven
// entirely by the data passed in; there is no package-level page state.
package view

import (
	"fmt"
	"path"
	"strings"

	"github.com/pugmark/footprint/internal/assets"
	"github.com/pugmark/footprint/internal/footprint"
)

var descriptions = map[footprint.Label]string{
	footprint.LabelLion:  "Lions are large carnivores known as the 'king of the jungle'. They live in prides.",
	footprint.LabelTiger: "Tigers are solitary big cats known for their striped fur and powerful physique.",
	footprint.LabelOther: "This footprint does not belong to a Lion or Tiger. It may be from another animal such as a leopard, cheetah, dog, or bear. Please consult a wildlife expert for detailed identification.",
}

var ageDescriptions = map[footprint.AgeBracket]string{
	footprint.Cub:      "This footprint likely belongs to a young cub, typically less than 1 year old.",
	footprint.Juvenile: "This footprint suggests a juvenile, usually 1-3 years old.",
	footprint.Adult:    "This is an adult big cat track, usually between 3-10 years old.",
	footprint.Senior:   "A senior, generally older than 10 years.",
}

// Description returns the static text for a label.
func Description(l footprint.Label) string {
	return descriptions[l]
}

func AgeDescription(a footprint.AgeBracket) string {
	return ageDescriptions[a]
}

// Card is the view model of a single prediction.
type Card struct {
	Label       footprint.Label
	Name        string
	Heading     string
	CSSClass    string
	Description string
	Score       float64

	BigCat         bool
	Age            string
	AgeDescription string
	Gender         string
	WeightKg       int

	// Empty when the asset is missing; the cue is then omitted.
	ImageURL string
	AudioURL string
}

// NewCard builds the card for res. Asset URLs are idx paths joined to assetPrefix.
func NewCard(res footprint.Result, idx *assets.Index, assetPrefix string) Card {
	card := Card{
		Label:       res.Label(),
		Name:        title(res.Label().String()),
		CSSClass:    res.Label().String() + "-card",
		Description: Description(res.Label()),
		Score:       res.Score(),
	}

	cat, ok := res.(footprint.BigCat)
	if !ok {
		card.Heading = "Prediction: OTHER ANIMAL 🐾"
		return card
	}

	card.Heading = fmt.Sprintf("Prediction: %s 🐾", strings.ToUpper(cat.Species.String()))
	card.BigCat = true
	card.Age = title(cat.Age.String())
	card.AgeDescription = AgeDescription(cat.Age)
	card.Gender = title(cat.Gender.String())
	card.WeightKg = cat.WeightKg

	if idx != nil {
		if p, ok := idx.FirstImage(cat.Species); ok {
			card.ImageURL = AssetURL(assetPrefix, p)
		}
		if p, ok := idx.Audio(cat.Species); ok {
			card.AudioURL = AssetURL(assetPrefix, p)
		}
	}
	return card
}

// AssetURL joins an index path onto the URL prefix the assets are served under.
func AssetURL(prefix, p string) string {
	return path.Join("/", prefix, p)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
