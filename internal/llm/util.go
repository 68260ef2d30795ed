// Package llm - util.go provides shared helpers for model response text.
package llm

import "strings"

const fence = "```"

// CleanJSONBlock removes a single markdown code fence around a response.
// Models often wrap JSON in ```json ... ``` blocks even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, fence) {
		return text
	}

	body := strings.TrimPrefix(text, fence)

	// Drop a language tag such as "json" or "JSON" on the opening line
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		tag := strings.TrimSpace(body[:idx])
		if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			body = body[idx+1:]
		}
	} else if strings.HasPrefix(strings.ToLower(body), "json") {
		body = body[len("json"):]
	}

	if idx := strings.LastIndex(body, fence); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// PreviewLines returns at most n non-empty lines of text, for error messages.
func PreviewLines(text string, n int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return strings.Join(out, " | ")
}
