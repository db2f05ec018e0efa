package retrieval

import (
	"math"
	"testing"

	"zomato-recommender/internal/core/dataset"

	"github.com/stretchr/testify/assert"
)

func TestScoreRecord(t *testing.T) {
	rec := dataset.Record{Rating: 4.0, Votes: 100}
	assert.InDelta(t, 4.0*2.0+math.Log1p(100), ScoreRecord(rec), 1e-9)
}

func TestScoreRecordNegativeVotesClamped(t *testing.T) {
	rec := dataset.Record{Rating: 3.0, Votes: -10}
	assert.Equal(t, 6.0, ScoreRecord(rec))
}

func TestScoreRecordVoteDamping(t *testing.T) {
	// 票數取對數後，十倍票數無法彌補明顯較低的評分
	highRated := dataset.Record{Rating: 4.5, Votes: 50}
	popular := dataset.Record{Rating: 3.0, Votes: 500}
	assert.Greater(t, ScoreRecord(highRated), ScoreRecord(popular))
}

func TestRankOrdering(t *testing.T) {
	records := []dataset.Record{
		{Name: "low", Rating: 3.0, Votes: 10, PriceForTwo: 500},
		{Name: "high", Rating: 4.8, Votes: 2000, PriceForTwo: 900},
		{Name: "mid", Rating: 4.0, Votes: 500, PriceForTwo: 600},
	}

	got := Rank(records, 10)
	assert.Equal(t, "high", got[0].Record.Name)
	assert.Equal(t, "mid", got[1].Record.Name)
	assert.Equal(t, "low", got[2].Record.Name)

	for _, c := range got {
		assert.Equal(t, ScoreRecord(c.Record), c.Score)
	}
}

func TestRankTieBreakPrice(t *testing.T) {
	// 分數、評分、票數全同時，價格低者優先
	records := []dataset.Record{
		{Name: "pricier", Rating: 4.0, Votes: 100, PriceForTwo: 900},
		{Name: "cheaper", Rating: 4.0, Votes: 100, PriceForTwo: 400},
	}

	got := Rank(records, 10)
	assert.Equal(t, "cheaper", got[0].Record.Name)
	assert.Equal(t, "pricier", got[1].Record.Name)
}

func TestRankTruncation(t *testing.T) {
	records := []dataset.Record{
		{Name: "a", Rating: 4.0, Votes: 10},
		{Name: "b", Rating: 4.1, Votes: 10},
		{Name: "c", Rating: 4.2, Votes: 10},
	}

	got := Rank(records, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Record.Name)

	// maxResults 超過輸入長度時回傳全部
	assert.Len(t, Rank(records, 10), 3)
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, Rank(nil, 5))
	assert.Empty(t, Rank([]dataset.Record{{Name: "a"}}, 0))
}
