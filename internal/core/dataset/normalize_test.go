package dataset

import (
	"os"
	"testing"

	"zomato-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"slash format", "3.9/5", 3.9},
		{"slash format with space", "4.1 /5", 4.1},
		{"bare number", "4.5", 4.5},
		{"new restaurant", "NEW", 0.0},
		{"new lowercase", "new", 0.0},
		{"dash placeholder", "-", 0.0},
		{"empty", "", 0.0},
		{"whitespace only", "   ", 0.0},
		{"garbage", "not a rating", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRating(tt.raw))
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain", "500", 500.0},
		{"thousands separator", "1,200", 1200.0},
		{"padded", " 750 ", 750.0},
		{"empty", "", 0.0},
		{"garbage", "cheap", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.raw))
		})
	}
}

func TestParseVotes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"plain", "45", 45},
		{"thousands separator", "1,234", 1234},
		{"empty", "", 0},
		{"garbage", "many", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVotes(tt.raw))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "btm layout", NormalizeText("BTM Layout"))
	assert.Equal(t, "nan", NormalizeText(""))
	assert.Equal(t, "nan", NormalizeText("   "))
}

func TestNormalizeIsTotal(t *testing.T) {
	// 全部欄位都是垃圾時仍回傳安全的零值，不會失敗
	rec := Normalize(RawRecord{
		Name:        "Mystery Cafe",
		Rating:      "??",
		Votes:       "lots",
		Locality:    "",
		Cuisines:    "",
		PriceForTwo: "free",
	})

	assert.Equal(t, "Mystery Cafe", rec.Name)
	assert.Equal(t, 0.0, rec.Rating)
	assert.Equal(t, 0, rec.Votes)
	assert.Equal(t, 0.0, rec.PriceForTwo)
	assert.Equal(t, "nan", rec.LocalityNormalized)
	assert.Equal(t, "nan", rec.CuisinesNormalized)
}

func TestNormalize(t *testing.T) {
	rec := Normalize(RawRecord{
		Name:        "Truffles",
		Rating:      "4.7/5",
		Votes:       "14,726",
		Locality:    "Koramangala 5th Block",
		Cuisines:    "American, Burger, Cafe",
		PriceForTwo: "900",
	})

	assert.Equal(t, 4.7, rec.Rating)
	assert.Equal(t, 14726, rec.Votes)
	assert.Equal(t, 900.0, rec.PriceForTwo)
	assert.Equal(t, "koramangala 5th block", rec.LocalityNormalized)
	assert.Equal(t, "american, burger, cafe", rec.CuisinesNormalized)
	// 原始大小寫保留給展示用欄位
	assert.Equal(t, "Koramangala 5th Block", rec.Locality)
}
