// Package textutil holds small text helpers shared by the ingestion pipeline
// and the conversation memory budget accounting.
package textutil

// ApproxTokens is a cheap token estimator (~4 chars ≈ 1 token).
// Replace with a real tokenizer later to improve accuracy.
func ApproxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
