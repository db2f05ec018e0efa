package recommend

import (
	"context"
	"errors"
	"os"
	"testing"

	"zomato-recommender/internal/core/ai/provider"
	aiservice "zomato-recommender/internal/core/ai/service"
	"zomato-recommender/internal/core/dataset"
	"zomato-recommender/internal/core/retrieval"
	"zomato-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

// fakeGenerator 以固定內容回應的推理服務替身
type fakeGenerator struct {
	content string
	err     error
	calls   int
}

func (f *fakeGenerator) ProcessMessages(ctx context.Context, messages []provider.Message) (*aiservice.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &aiservice.Response{Content: f.content}, nil
}

func testStore() *dataset.Store {
	raws := []dataset.RawRecord{
		{Name: "Onesta", Rating: "4.6/5", Votes: "2556", Locality: "BTM Layout", Cuisines: "Pizza, Cafe", PriceForTwo: "600"},
		{Name: "Empire", Rating: "4.4/5", Votes: "4884", Locality: "BTM Layout", Cuisines: "North Indian, Kebab", PriceForTwo: "750"},
		{Name: "Jalsa", Rating: "4.1/5", Votes: "775", Locality: "Banashankari", Cuisines: "North Indian, Chinese", PriceForTwo: "800"},
	}
	records := make([]dataset.Record, len(raws))
	for i, raw := range raws {
		records[i] = dataset.Normalize(raw)
	}
	return dataset.FromRecords(records)
}

func TestGetRecommendations(t *testing.T) {
	gen := &fakeGenerator{content: `{"recommendations": [{"candidate_index": 0, "reason": "well rated with strong vote count"}]}`}
	svc := NewService(gen, testStore())

	got, err := svc.GetRecommendations(context.Background(), retrieval.Preferences{}, 15, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// 索引 0 是排名最高的候選
	ranked := retrieval.Rank(testStore().Records(), 15)
	assert.Equal(t, ranked[0].Record.Name, got[0].Candidate.Record.Name)
	assert.Equal(t, "well rated with strong vote count", got[0].Reason)
	assert.Equal(t, 1, gen.calls)
}

func TestGetRecommendationsNoCandidatesSkipsAI(t *testing.T) {
	gen := &fakeGenerator{content: `{"recommendations": []}`}
	svc := NewService(gen, testStore())

	rating := 5.0
	got, err := svc.GetRecommendations(context.Background(), retrieval.Preferences{MinRating: &rating}, 15, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, gen.calls)
}

func TestGetRecommendationsIdempotent(t *testing.T) {
	gen := &fakeGenerator{content: `{"recommendations": [{"candidate_index": 1, "reason": "a"}, {"candidate_index": 0, "reason": "b"}]}`}
	svc := NewService(gen, testStore())

	first, err := svc.GetRecommendations(context.Background(), retrieval.Preferences{}, 15, 5)
	require.NoError(t, err)
	second, err := svc.GetRecommendations(context.Background(), retrieval.Preferences{}, 15, 5)
	require.NoError(t, err)

	// 相同資料、偏好與模型回應，輸出完全一致且保留模型給定的順序
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].Reason)
}

func TestGetRecommendationsGeneratorError(t *testing.T) {
	wantErr := errors.New("upstream down")
	gen := &fakeGenerator{err: wantErr}
	svc := NewService(gen, testStore())

	_, err := svc.GetRecommendations(context.Background(), retrieval.Preferences{}, 15, 5)
	assert.ErrorIs(t, err, wantErr)
}

func rankedCandidates(t *testing.T, n int) []retrieval.Candidate {
	t.Helper()
	store := testStore()
	candidates := retrieval.Rank(store.Records(), n)
	require.Len(t, candidates, n)
	return candidates
}

func TestParseReasonerReply(t *testing.T) {
	candidates := rankedCandidates(t, 3)

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			"plain object",
			`{"recommendations": [{"candidate_index": 0, "reason": "a"}, {"candidate_index": 2, "reason": "b"}]}`,
			2,
		},
		{
			"fenced code block",
			"```json\n{\"recommendations\": [{\"candidate_index\": 1, \"reason\": \"a\"}]}\n```",
			1,
		},
		{
			"surrounding prose",
			`Sure! Here you go: {"recommendations": [{"candidate_index": 0, "reason": "a"}]} Hope this helps.`,
			1,
		},
		{
			"empty list",
			`{"recommendations": []}`,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReasonerReply(tt.content, candidates)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseReasonerReplyIndexCoercion(t *testing.T) {
	candidates := rankedCandidates(t, 3)

	// 字串與浮點數索引都被接受
	got, err := parseReasonerReply(
		`{"recommendations": [{"candidate_index": "0", "reason": "a"}, {"candidate_index": 1.0, "reason": "b"}]}`,
		candidates,
	)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, candidates[0].Record.Name, got[0].Candidate.Record.Name)
	assert.Equal(t, candidates[1].Record.Name, got[1].Candidate.Record.Name)
}

func TestParseReasonerReplyDropsInvalidEntries(t *testing.T) {
	candidates := rankedCandidates(t, 3)

	// 越界與無法解析的索引被丟棄，有效條目保留
	got, err := parseReasonerReply(
		`{"recommendations": [
			{"candidate_index": 99, "reason": "out of range"},
			{"candidate_index": -1, "reason": "negative"},
			{"candidate_index": "abc", "reason": "not a number"},
			{"candidate_index": 1, "reason": "valid"}
		]}`,
		candidates,
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "valid", got[0].Reason)
}

func TestParseReasonerReplyMissingReason(t *testing.T) {
	candidates := rankedCandidates(t, 3)

	got, err := parseReasonerReply(`{"recommendations": [{"candidate_index": 0}]}`, candidates)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Reason)
}

func TestParseReasonerReplyErrors(t *testing.T) {
	candidates := rankedCandidates(t, 3)

	tests := []struct {
		name    string
		content string
	}{
		{"no braces at all", "I cannot find any matching restaurants."},
		{"broken JSON", `{"recommendations": [}`},
		{"missing recommendations field", `{"results": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseReasonerReply(tt.content, candidates)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
