package freshness

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a curriculum editor for an AI-literacy course. You track what is changing in machine learning practice and keep lessons current. When asked for a list, respond with a JSON array only, no prose and no code fences.`

func buildTrendingMessage(domain string, limit int) string {
	return fmt.Sprintf(`Domain: %s

Instructions:
List up to %d topics in this domain that learners are asking about right now.
Each element: {"name": string, "summary": one sentence, "priority": "high"|"medium"|"low", "score": number between 0 and 1}.`, domain, limit)
}

func buildOutdatedMessage(items []Item) string {
	var b strings.Builder
	b.WriteString("Existing lessons:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- id=%s title=%q", it.ID, it.Title)
		if it.LastUpdated != "" {
			fmt.Fprintf(&b, " updated=%s", it.LastUpdated)
		}
		if it.Summary != "" {
			fmt.Fprintf(&b, "\n  %s", it.Summary)
		}
		b.WriteString("\n")
	}
	b.WriteString(`
Instructions:
Return only the lessons whose content is outdated.
Each element: {"item_id": string, "reason": string, "severity": "high"|"medium"|"low", "suggestion": string}.
Return [] when nothing is outdated.`)
	return b.String()
}

func buildOutlineMessage(topic, audience string) string {
	return fmt.Sprintf(`Topic: %s
Audience: %s

Instructions:
Draft a lesson outline with a title, 2-4 objectives and 3-6 section headings.`, topic, audience)
}
