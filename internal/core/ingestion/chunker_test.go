package ingestion

import (
	"strings"
	"testing"
)

func TestSplitWords_Deterministic(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 100)

	a := SplitWords(text, 50, 5)
	b := SplitWords(text, 50, 5)

	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitWords_Overlap(t *testing.T) {
	words := make([]string, 120)
	for i := range words {
		words[i] = "w" + string(rune('a'+i%26))
	}
	chunks := SplitWords(strings.Join(words, " "), 50, 10)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// The tail of chunk n must reappear at the head of chunk n+1.
	tail := strings.Join(strings.Fields(chunks[0])[40:], " ")
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("chunk 1 should start with the last 10 words of chunk 0")
	}
}

func TestSplitWords_Empty(t *testing.T) {
	if got := SplitWords("   \n\t ", 50, 5); got != nil {
		t.Errorf("whitespace-only input should yield no chunks, got %v", got)
	}
}

func TestSplitWords_ShortInput(t *testing.T) {
	chunks := SplitWords("one two three", 500, 50)
	if len(chunks) != 1 || chunks[0] != "one two three" {
		t.Errorf("short input should be a single chunk, got %v", chunks)
	}
}

func TestChunkID_Stable(t *testing.T) {
	if got := ChunkID(0, 0); got != "doc_0_chunk_0" {
		t.Errorf("ChunkID(0,0) = %q", got)
	}
	if got := ChunkID(3, 12); got != "doc_3_chunk_12" {
		t.Errorf("ChunkID(3,12) = %q", got)
	}
}

func TestDocumentName(t *testing.T) {
	cases := map[string]string{
		"quarterly_financial_report.md": "Quarterly Financial Report",
		"employee_handbook.md":          "Employee Handbook",
		"hr_data.csv":                   "Hr Data",
	}
	for in, want := range cases {
		if got := DocumentName(in); got != want {
			t.Errorf("DocumentName(%q) = %q, want %q", in, got, want)
		}
	}
}
