package result

// DocumentResponse is the outward shape of a match.
type DocumentResponse struct {
	Text  string   `json:"text"`
	Score *float64 `json:"score"`
}

// Project maps matches 1:1 to responses, preserving order.
func Project(matches []ScoredMatch) []DocumentResponse {
	out := make([]DocumentResponse, len(matches))
	for i := range matches {
		out[i] = DocumentResponse{
			Text:  matches[i].text,
			Score: matches[i].score,
		}
	}
	return out
}
