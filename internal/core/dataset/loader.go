package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"zomato-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// 各邏輯欄位的候選標頭子字串，依序取第一個出現者。
// 來源資料集的欄名不固定（例如 "rate" vs "rating"、
// "approx_cost(for two people)" vs "cost"），採固定順序查找。
var columnCandidates = map[string][]string{
	"name":     {"name"},
	"rating":   {"rate", "rating"},
	"votes":    {"votes"},
	"locality": {"location", "locality", "city"},
	"cuisines": {"cuisines", "cuisine"},
	"price":    {"cost", "price"},
}

// Store 載入後唯讀的資料集。
// 啟動時載入一次，之後多個請求可併行讀取，不需要同步。
type Store struct {
	records    []Record
	localities []string
	cuisines   []string
}

// Load 讀取 CSV 資料集並正規化為唯讀 Store
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	store, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}

	common.LogInfo("資料集載入完成",
		zap.String("path", path),
		zap.Int("rows", len(store.records)),
		zap.Int("localities", len(store.localities)),
		zap.Int("cuisines", len(store.cuisines)),
	)

	return store, nil
}

func read(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Record

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		raw := RawRecord{
			Name:        field(row, cols["name"]),
			Rating:      field(row, cols["rating"]),
			Votes:       field(row, cols["votes"]),
			Locality:    field(row, cols["locality"]),
			Cuisines:    field(row, cols["cuisines"]),
			PriceForTwo: field(row, cols["price"]),
		}
		records = append(records, Normalize(raw))
	}

	return FromRecords(records), nil
}

// FromRecords 從正規化資料列建立 Store，並彙整地區與菜系清單
func FromRecords(records []Record) *Store {
	localitySet := make(map[string]struct{})
	cuisineSet := make(map[string]struct{})

	for _, rec := range records {
		if loc := strings.TrimSpace(rec.Locality); loc != "" {
			localitySet[loc] = struct{}{}
		}
		for _, c := range strings.Split(rec.Cuisines, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cuisineSet[c] = struct{}{}
			}
		}
	}

	return &Store{
		records:    records,
		localities: sortedKeys(localitySet),
		cuisines:   sortedKeys(cuisineSet),
	}
}

// resolveColumns 依候選順序解析各邏輯欄位的索引
func resolveColumns(header []string) (map[string]int, error) {
	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := make(map[string]int, len(columnCandidates))
	for logical, candidates := range columnCandidates {
		idx := -1
		for _, sub := range candidates {
			for i, h := range lowered {
				if strings.Contains(h, sub) {
					idx = i
					break
				}
			}
			if idx != -1 {
				break
			}
		}
		if idx == -1 {
			return nil, fmt.Errorf("dataset is missing a %q column (candidates: %s)", logical, strings.Join(candidates, ", "))
		}
		cols[logical] = idx
	}
	return cols, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Records 回傳正規化後的全部資料列，呼叫端不得修改
func (s *Store) Records() []Record {
	return s.records
}

// Localities 回傳排序後的地區清單
func (s *Store) Localities() []string {
	return s.localities
}

// Cuisines 回傳排序後的菜系清單
func (s *Store) Cuisines() []string {
	return s.cuisines
}

// Len 回傳資料列數
func (s *Store) Len() int {
	return len(s.records)
}
