package recommend

import (
	"fmt"
	"strings"

	"zomato-recommender/internal/core/ai/provider"
	"zomato-recommender/internal/core/retrieval"
)

// anyValue 偏好未設定時在提示中使用的佔位字串
const anyValue = "any"

// BuildMessages 組裝送往推理服務的對話消息。
// 候選清單中每家餐廳都帶有索引，模型只能以索引指涉候選，
// 防止其推薦清單以外的餐廳。
func BuildMessages(prefs retrieval.Preferences, candidates []retrieval.Candidate, maxResults int) []provider.Message {
	return []provider.Message{
		{Role: "system", Content: buildSystemPrompt()},
		{Role: "user", Content: buildUserMessage(prefs, candidates, maxResults)},
	}
}

// buildSystemPrompt 構建系統提示，規範模型的輸出邊界
func buildSystemPrompt() string {
	return strings.Join([]string{
		"You are a restaurant recommendation assistant.",
		"Rules you must follow:",
		"1. Recommend ONLY restaurants from the provided candidate list. Never invent restaurants.",
		"2. Never invent ratings, prices, votes or any other data not present in the list.",
		"3. If no candidate fits the user's preferences, return an empty recommendations list.",
		"4. Respond with a single JSON object and nothing else.",
		"5. Base every explanation only on the fields shown for that candidate.",
	}, "\n")
}

// buildUserMessage 構建使用者消息：偏好摘要、帶索引的候選清單與輸出格式
func buildUserMessage(prefs retrieval.Preferences, candidates []retrieval.Candidate, maxResults int) string {
	var b strings.Builder

	b.WriteString("User preferences:\n")
	b.WriteString(fmt.Sprintf("- min_price: %s\n", floatOrAny(prefs.MinPrice)))
	b.WriteString(fmt.Sprintf("- max_price: %s\n", floatOrAny(prefs.MaxPrice)))
	b.WriteString(fmt.Sprintf("- locality: %s\n", stringOrAny(prefs.Locality)))
	b.WriteString(fmt.Sprintf("- min_rating: %s\n", floatOrAny(prefs.MinRating)))
	b.WriteString(fmt.Sprintf("- desired_cuisines: %s\n", cuisinesOrAny(prefs.DesiredCuisines)))

	b.WriteString("\nCandidate restaurants:\n")
	for i, c := range candidates {
		rec := c.Record
		b.WriteString(fmt.Sprintf("%d: name=%s | locality=%s | rating=%.1f | price_for_two=%.0f | votes=%d | cuisines=%s\n",
			i, rec.Name, rec.Locality, rec.Rating, rec.PriceForTwo, rec.Votes, rec.Cuisines))
	}

	b.WriteString(fmt.Sprintf("\nPick up to %d candidates that best match the preferences.\n", maxResults))
	b.WriteString("Respond with a JSON object of this exact shape:\n")
	b.WriteString(`{"recommendations": [{"candidate_index": <int>, "reason": "<short explanation>"}]}`)
	return b.String()
}

func floatOrAny(v *float64) string {
	if v == nil {
		return anyValue
	}
	return fmt.Sprintf("%g", *v)
}

func stringOrAny(v string) string {
	if strings.TrimSpace(v) == "" {
		return anyValue
	}
	return v
}

func cuisinesOrAny(v []string) string {
	cleaned := make([]string, 0, len(v))
	for _, c := range v {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return anyValue
	}
	return strings.Join(cleaned, ", ")
}
