package dataset

// RawRecord 原始資料列，欄位皆為未處理的字串
type RawRecord struct {
	Name        string
	Rating      string
	Votes       string
	Locality    string
	Cuisines    string
	PriceForTwo string
}

// Record 正規化後的資料列。
// 正規化是全函數：每個 RawRecord 都對應到恰好一個 Record，
// 解析失敗一律落到安全的零值，不會產生錯誤。
type Record struct {
	Name        string  `json:"name"`
	Locality    string  `json:"location"`
	Cuisines    string  `json:"cuisines"`
	Rating      float64 `json:"rating"`
	PriceForTwo float64 `json:"price_for_two"`
	Votes       int     `json:"votes"`

	// 篩選用的小寫欄位
	LocalityNormalized string `json:"-"`
	CuisinesNormalized string `json:"-"`
}
