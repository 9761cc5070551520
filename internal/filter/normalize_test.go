package filter_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tayloree/petits-plats/internal/filter"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Tomate ", "tomate"},
		{"LAIT DE COCO", "lait de coco"},
		{"Crème Fraîche", "crème fraîche"},
		{"", ""},
		{"\t\n", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filter.Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"café", "cafe"},
		{"Crème fraîche (épaisse)", "creme fraiche"},
		{"Thon Rouge (ou blanc)", "thon rouge"},
		{"moule à tartelettes (6)", "moule a tartelettes"},
		{"  Pâte   feuilletée ", "pate feuilletee"},
		{"Glaçons", "glacons"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filter.NormalizeText(tt.input), "NormalizeText(%q)", tt.input)
	}
}

func TestNormalizeText_AccentedAndPlainCompareEqual(t *testing.T) {
	assert.Equal(t, filter.NormalizeText("café"), filter.NormalizeText("cafe"))
	assert.Equal(t, filter.NormalizeText("Pastèque"), filter.NormalizeText("PASTEQUE"))
}

func TestNormalize_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	alphabet := []rune("aAéÉèçÇ ()\t ôÔxyZ-'")

	for range 500 {
		n := rng.Intn(24)
		runes := make([]rune, 0, n)
		for range n {
			runes = append(runes, alphabet[rng.Intn(len(alphabet))])
		}
		s := string(runes)

		once := filter.Normalize(s)
		assert.Equal(t, once, filter.Normalize(once), "Normalize(%q)", s)

		onceText := filter.NormalizeText(s)
		assert.Equal(t, onceText, filter.NormalizeText(onceText), "NormalizeText(%q)", s)

		label := filter.Capitalize(s)
		assert.Equal(t, label, filter.Capitalize(label), "Capitalize(%q)", s)
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"lait de COCO", "Lait de coco"},
		{"éPINARDS", "Épinards"},
		{" four ", "Four"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filter.Capitalize(tt.input), "Capitalize(%q)", tt.input)
	}
}

func TestCapitalize_RoundTripsThroughNormalize(t *testing.T) {
	for _, s := range []string{"Crème fraîche", "cuillère à Soupe", "  Lait de coco"} {
		assert.Equal(t, filter.Normalize(s), filter.Normalize(filter.Capitalize(s)))
	}
}
