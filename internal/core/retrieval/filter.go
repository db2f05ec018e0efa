package retrieval

import (
	"strings"

	"zomato-recommender/internal/core/dataset"
)

// Preferences 使用者檢索偏好，所有欄位皆為可選；
// 未設定的欄位不套用任何限制
type Preferences struct {
	MinPrice        *float64 `json:"min_price,omitempty"`
	MaxPrice        *float64 `json:"max_price,omitempty"`
	Locality        string   `json:"locality,omitempty"`
	MinRating       *float64 `json:"min_rating,omitempty"`
	DesiredCuisines []string `json:"desired_cuisines,omitempty"`
}

// Filter 依偏好過濾資料列，各啟用的條件之間為 AND。
// 結果可能為空，這不是錯誤。
func Filter(records []dataset.Record, prefs Preferences) []dataset.Record {
	locality := strings.ToLower(strings.TrimSpace(prefs.Locality))
	cuisineTerms := cleanCuisineTerms(prefs.DesiredCuisines)

	filtered := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		if prefs.MinPrice != nil && rec.PriceForTwo < *prefs.MinPrice {
			continue
		}
		if prefs.MaxPrice != nil && rec.PriceForTwo > *prefs.MaxPrice {
			continue
		}
		if locality != "" && !matchLocality(rec, locality) {
			continue
		}
		if prefs.MinRating != nil && rec.Rating < *prefs.MinRating {
			continue
		}
		if len(cuisineTerms) > 0 && !matchAnyCuisine(rec, cuisineTerms) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// matchLocality 地區子字串比對；缺值（"nan" 佔位）永遠不匹配
func matchLocality(rec dataset.Record, locality string) bool {
	if rec.LocalityNormalized == "nan" {
		return false
	}
	return strings.Contains(rec.LocalityNormalized, locality)
}

// matchAnyCuisine 任一菜系詞為子字串即匹配（OR）
func matchAnyCuisine(rec dataset.Record, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(rec.CuisinesNormalized, term) {
			return true
		}
	}
	return false
}

// cleanCuisineTerms 修剪並轉小寫；全部修剪後為空時不套用菜系條件
func cleanCuisineTerms(raw []string) []string {
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
