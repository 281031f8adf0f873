package footprint

import (
	"fmt"
	"strings"
)

// Label is the three-way outcome of a classification.
type Label string

const (
	LabelLion  Label = "lion"
	LabelTiger Label = "tiger"
	LabelOther Label = "other"
)

func (l Label) String() string { return string(l) }

// ParseLabel accepts labels case-insensitively, as found in datasets.
func ParseLabel(s string) (Label, error) {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case LabelLion:
		return LabelLion, nil
	case LabelTiger:
		return LabelTiger, nil
	case LabelOther:
		return LabelOther, nil
	}
	return "", fmt.Errorf("unknown label %q (expected lion, tiger or other)", s)
}

// Labels lists every label in display order.
func Labels() []Label {
	return []Label{LabelLion, LabelTiger, LabelOther}
}

// Species is a big cat that receives age, weight and gender estimates.
type Species string

const (
	Lion  Species = "lion"
	Tiger Species = "tiger"
)

func (s Species) Label() Label   { return Label(s) }
func (s Species) String() string { return string(s) }

// AllSpecies lists every species in display order.
func AllSpecies() []Species {
	return []Species{Lion, Tiger}
}

type AgeBracket string

const (
	Cub      AgeBracket = "cub"
	Juvenile AgeBracket = "juvenile"
	Adult    AgeBracket = "adult"
	Senior   AgeBracket = "senior"
)

func (a AgeBracket) String() string { return string(a) }

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

func (g Gender) String() string { return string(g) }

// Result is either Other or BigCat.
type Result interface {
	Label() Label
	Score() float64
	isResult()
}

// Other is a footprint that is neither lion nor tiger. It has no cosmetic attributes.
type Other struct {
	Value float64
}

func (Other) Label() Label     { return LabelOther }
func (o Other) Score() float64 { return o.Value }
func (Other) isResult()        {}

// BigCat is a lion or tiger footprint with its derived attributes.
type BigCat struct {
	Species  Species
	Age      AgeBracket
	WeightKg int
	Gender   Gender
	Value    float64
}

func (b BigCat) Label() Label   { return b.Species.Label() }
func (b BigCat) Score() float64 { return b.Value }
func (BigCat) isResult()        {}
