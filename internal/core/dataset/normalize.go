package dataset

import (
	"strconv"
	"strings"
)

// missingPlaceholder 缺值的佔位字串（沿用 pandas astype(str) 的 "nan"）
const missingPlaceholder = "nan"

// ParseRating 解析 "3.9/5"、"3.9 /5" 這類評分字串。
// "NEW"（不分大小寫）、"-"、空字串與其他無法解析的內容一律回傳 0.0。
func ParseRating(raw string) float64 {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" || text == "-" || text == "NEW" {
		return 0.0
	}

	numberPart := strings.TrimSpace(strings.SplitN(text, "/", 2)[0])
	value, err := strconv.ParseFloat(numberPart, 64)
	if err != nil {
		return 0.0
	}
	return value
}

// ParsePrice 解析雙人價格欄位，容忍千分位逗號；無法解析回傳 0.0
func ParsePrice(raw string) float64 {
	text := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0.0
	}
	return value
}

// ParseVotes 解析票數欄位，容忍千分位逗號；無法解析回傳 0
func ParseVotes(raw string) int {
	text := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return value
}

// NormalizeText 轉小寫；缺值以 "nan" 佔位而不是報錯
func NormalizeText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return missingPlaceholder
	}
	return strings.ToLower(raw)
}

// Normalize 將原始資料列轉為正規化資料列，永不失敗
func Normalize(raw RawRecord) Record {
	return Record{
		Name:               raw.Name,
		Locality:           raw.Locality,
		Cuisines:           raw.Cuisines,
		Rating:             ParseRating(raw.Rating),
		PriceForTwo:        ParsePrice(raw.PriceForTwo),
		Votes:              ParseVotes(raw.Votes),
		LocalityNormalized: NormalizeText(raw.Locality),
		CuisinesNormalized: NormalizeText(raw.Cuisines),
	}
}
