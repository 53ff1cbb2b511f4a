// internal/search/context.go
package search

import "strings"

// ExcerptChars bounds the per-document excerpt length in ExtractContext.
const ExcerptChars = 800

const ellipsis = "..."

// ExtractContext formats ranked results as a human-readable block for
// downstream prompt construction: each result's title followed by the first
// ExcerptChars characters of its content. Truncation happens document by
// document, never splitting a title from its excerpt, except when the
// overall maxLength budget is hit mid-block, in which case the block is cut
// and marked with an ellipsis.
func ExtractContext(results []Result, maxLength int) string {
	if maxLength <= 0 || len(results) == 0 {
		return ""
	}

	var b strings.Builder
	truncated := false
	for _, r := range results {
		title := r.Document.Metadata.Title
		if title == "" {
			title = r.Document.FileName
		}

		excerpt := r.Document.Content
		if len(excerpt) > ExcerptChars {
			excerpt = excerpt[:ExcerptChars] + ellipsis
		}

		block := "## " + title + "\n" + excerpt + "\n\n"
		if b.Len()+len(block) > maxLength {
			truncated = true
			if remaining := maxLength - b.Len() - len(ellipsis); remaining > 0 {
				b.WriteString(block[:remaining])
			}
			break
		}
		b.WriteString(block)
	}

	out := strings.TrimRight(b.String(), "\n")
	if truncated {
		if cut := maxLength - len(ellipsis); cut >= 0 && len(out) > cut {
			out = out[:cut]
		}
		out = strings.TrimRight(out, "\n") + ellipsis
	}
	return out
}
