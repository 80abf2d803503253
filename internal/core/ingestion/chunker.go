package ingestion

import "strings"

// SplitWords splits text into overlapping word-window chunks. size is the
// number of words per chunk, overlap the number of trailing words re-used as
// the head of the next chunk. Deterministic: the same text and parameters
// always produce the same chunk sequence.
func SplitWords(text string, size, overlap int) []string {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	step := size - overlap
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(words) {
			break
		}
	}
	return chunks
}
