package pipeline

import "strings"

// NoNewsSentinel is posted when a consolidated fetch finds nothing new.
const NoNewsSentinel = "📰 No fresh news for the tracked symbols."

// Chunk splits s into pieces of at most budget runes, preserving order.
// Splits are purely positional: a multi-line news block may be cut
// mid-block. Known limitation, kept from the original behavior.
// A non-positive budget means no splitting.
func Chunk(s string, budget int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	if budget <= 0 || len(runes) <= budget {
		return []string{s}
	}

	var chunks []string
	for start := 0; start < len(runes); start += budget {
		end := start + budget
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Join combines per-symbol blocks with a blank-line separator. An empty
// result substitutes the no-news sentinel so callers never send nothing.
func Join(blocks []string) string {
	var nonEmpty []string
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			nonEmpty = append(nonEmpty, b)
		}
	}
	if len(nonEmpty) == 0 {
		return NoNewsSentinel
	}
	return strings.Join(nonEmpty, "\n\n")
}
