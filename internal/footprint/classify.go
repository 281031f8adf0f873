// Package footprint maps a normalized grayscale footprint image to a label
// and, for big cats, cosmetic age, weight and gender estimates.
//
// The mapping is driven entirely by the mean intensity of the image. The
// thresholds and weight formulas are fixed placeholders, not a trained model.
package footprint

const (
	lionAbove  = 0.54
	tigerBelow = 0.46
	maleAbove  = 0.5
)

var ageThresholds = []struct {
	above float64
	age   AgeBracket
}{
	{0.80, Senior},
	{0.65, Adult},
	{0.50, Juvenile},
}

type affine struct {
	base, slope float64
}

var weightTable = map[Species]map[AgeBracket]affine{
	Lion: {
		Cub:      {20, 10},
		Juvenile: {60, 35},
		Adult:    {120, 80},
		Senior:   {150, 40},
	},
	Tiger: {
		Cub:      {15, 10},
		Juvenile: {40, 20},
		Adult:    {100, 120},
		Senior:   {140, 50},
	},
}

// Classify labels img by its mean intensity.
func Classify(img *Image) Result {
	return ClassifyScore(img.Score())
}

// ClassifyScore applies the classification to a precomputed mean intensity.
func ClassifyScore(score float64) Result {
	var species Species
	switch {
	case score > lionAbove:
		species = Lion
	case score < tigerBelow:
		species = Tiger
	default:
		return Other{Value: score}
	}

	age := ageFor(score)
	return BigCat{
		Species:  species,
		Age:      age,
		WeightKg: weightFor(species, age, score),
		Gender:   genderFor(score),
		Value:    score,
	}
}

func ageFor(score float64) AgeBracket {
	for _, t := range ageThresholds {
		if score > t.above {
			return t.age
		}
	}
	return Cub
}

// weightFor truncates toward zero.
func weightFor(s Species, age AgeBracket, score float64) int {
	f := weightTable[s][age]
	return int(f.base + f.slope*score)
}

func genderFor(score float64) Gender {
	if score > maleAbove {
		return Male
	}
	return Female
}
