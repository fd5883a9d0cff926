package ollama

import (
	"fmt"
	"strings"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

func buildAnswerPrompt(question string, documents []domain.RetrievalDocument) string {
	var contextBuilder strings.Builder
	idx := 0
	for _, doc := range documents {
		if !doc.IsContent() {
			continue
		}
		idx++
		contextBuilder.WriteString(fmt.Sprintf(
			"[%d] type=%s category=%s relevance=%.2f\n%s\n\n",
			idx,
			doc.Type,
			doc.Category,
			doc.RelevanceScore,
			renderDocument(doc),
		))
	}
	if idx == 0 {
		contextBuilder.WriteString("(no matching games or lessons were found)\n")
	}

	return fmt.Sprintf(`You are a chess assistant. Answer the user question only from the
retrieved games and lessons below. Use standard chess notation. If the
context is insufficient, say it directly.

Question:
%s

Context:
%s
`, question, contextBuilder.String())
}

func renderDocument(doc domain.RetrievalDocument) string {
	if doc.Type == domain.DocumentLesson {
		title := doc.ContentString("title")
		text := doc.ContentString("text")
		if title == "" {
			return text
		}
		return title + "\n" + text
	}

	var parts []string
	for _, key := range []string{"white", "black", "result", "eco", "opening", "event", "date", "final_fen", "moves"} {
		if value := doc.ContentString(key); value != "" {
			parts = append(parts, key+"="+value)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%v", doc.Content)
	}
	return strings.Join(parts, " ")
}
