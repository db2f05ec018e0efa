package retrieval

import (
	"math"
	"sort"

	"zomato-recommender/internal/core/dataset"
)

// Candidate 排名後的候選餐廳；在送往推理層的清單中的位置即為其索引
type Candidate struct {
	Record dataset.Record `json:"restaurant"`
	Score  float64        `json:"score"`
}

// ScoreRecord 計算排名分數：評分權重 2，票數取對數遞減，
// 高票但評分平庸的店家無法單靠人氣勝過高評分店家
func ScoreRecord(rec dataset.Record) float64 {
	votes := rec.Votes
	if votes < 0 {
		votes = 0
	}
	return rec.Rating*2.0 + math.Log1p(float64(votes))
}

// Rank 依複合鍵排序並截斷為前 maxResults 名。
// 排序鍵依序為：分數降冪 → 評分降冪 → 票數降冪 → 價格升冪，
// 其餘平手時維持輸入順序（穩定排序）。空輸入回傳空結果。
func Rank(records []dataset.Record, maxResults int) []Candidate {
	if len(records) == 0 || maxResults <= 0 {
		return []Candidate{}
	}

	candidates := make([]Candidate, len(records))
	for i, rec := range records {
		candidates[i] = Candidate{Record: rec, Score: ScoreRecord(rec)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Record.Rating != b.Record.Rating {
			return a.Record.Rating > b.Record.Rating
		}
		if a.Record.Votes != b.Record.Votes {
			return a.Record.Votes > b.Record.Votes
		}
		return a.Record.PriceForTwo < b.Record.PriceForTwo
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates
}
