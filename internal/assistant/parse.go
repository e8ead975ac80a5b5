package assistant

import (
	"strings"

	"github.com/bytedance/sonic"
)

type SuggestedTask struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Priority    string `json:"priority,omitempty"`
	Description string `json:"description,omitempty"`
}

type Reply struct {
	Message string          `json:"message"`
	Tasks   []SuggestedTask `json:"tasks"`
}

// ParseReply extracts the task list the assistant may embed in its text,
// either as a fenced json block or a bare JSON object. When nothing parses the
// whole text is the message.
func ParseReply(text string) Reply {
	trimmed := strings.TrimSpace(text)

	if body, rest, ok := fencedBlock(trimmed); ok {
		if r, ok := decodeReply(body); ok {
			if r.Message == "" {
				r.Message = rest
			}
			return r
		}
	}

	if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start >= 0 && end > start {
		if r, ok := decodeReply(trimmed[start : end+1]); ok {
			if r.Message == "" {
				r.Message = strings.TrimSpace(trimmed[:start] + " " + trimmed[end+1:])
			}
			return r
		}
	}

	return Reply{Message: trimmed}
}

// fencedBlock returns the body of the first ``` block and the text around it.
func fencedBlock(text string) (body, rest string, ok bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", "", false
	}
	after := text[open+3:]
	nl := strings.Index(after, "\n")
	if nl < 0 {
		return "", "", false
	}
	lang := strings.TrimSpace(after[:nl])
	if lang != "" && !strings.EqualFold(lang, "json") {
		return "", "", false
	}
	inner := after[nl+1:]
	closing := strings.Index(inner, "```")
	if closing < 0 {
		return "", "", false
	}
	body = strings.TrimSpace(inner[:closing])
	rest = strings.TrimSpace(strings.TrimSpace(text[:open]) + " " + strings.TrimSpace(inner[closing+3:]))
	return body, rest, true
}

func decodeReply(raw string) (Reply, bool) {
	var r Reply
	if err := sonic.UnmarshalString(raw, &r); err != nil {
		return Reply{}, false
	}
	tasks := r.Tasks[:0]
	for _, t := range r.Tasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title != "" {
			tasks = append(tasks, t)
		}
	}
	r.Tasks = tasks
	r.Message = strings.TrimSpace(r.Message)
	return r, r.Message != "" || len(r.Tasks) > 0
}
