package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseResponse turns a raw model reply into an AnalysisResult. The primary
// path expects a JSON object; some models wrap it in code fences or fall back
// to the markdown section layout, so both are handled before giving up.
func ParseResponse(raw string) (*AnalysisResult, error) {
	content := cleanJSONResponse(raw)

	var result AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err == nil && result.Summary != "" {
		normalize(&result)
		return &result, nil
	}

	if result, ok := parseSections(raw); ok {
		return result, nil
	}

	return nil, fmt.Errorf("provider response is not in a recognized format: %q", truncate(raw, 200))
}

// cleanJSONResponse strips markdown code fences and surrounding prose so the
// payload can be unmarshalled even when the model decorates its output.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Some models prepend a sentence before the object. Cut to the outermost braces.
	if start := strings.Index(content, "{"); start > 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			content = content[start : end+1]
		}
	}

	return content
}

// parseSections handles the markdown layout ("**Summary:**" headings with
// bulleted lists) that earlier prompt revisions produced.
func parseSections(text string) (*AnalysisResult, bool) {
	result := &AnalysisResult{}
	section := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "**Summary:**"):
			section = "summary"
		case strings.Contains(line, "**Highlights:**"):
			section = "highlights"
		case strings.Contains(line, "**What To Do:**"):
			section = "what_to_do"
		case strings.Contains(line, "**Important Dates:**"):
			section = "important_dates"
		case strings.Contains(line, "**Email Prompt:**"):
			section = "email_prompt"
		case strings.HasPrefix(line, "- "):
			item := strings.TrimSpace(line[2:])
			switch section {
			case "highlights":
				result.Highlights = append(result.Highlights, item)
			case "what_to_do":
				result.WhatToDo = append(result.WhatToDo, item)
			case "important_dates":
				result.ImportantDates = append(result.ImportantDates, item)
			}
		case strings.HasPrefix(line, "**"):
			section = ""
		default:
			switch section {
			case "summary":
				if result.Summary != "" {
					result.Summary += " "
				}
				result.Summary += line
			case "email_prompt":
				result.EmailPrompt = line
			}
		}
	}

	if result.Summary == "" {
		return nil, false
	}
	normalize(result)
	return result, true
}

func normalize(r *AnalysisResult) {
	if r.Highlights == nil {
		r.Highlights = []string{}
	}
	if r.WhatToDo == nil {
		r.WhatToDo = []string{}
	}
	if r.ImportantDates == nil {
		r.ImportantDates = []string{}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
