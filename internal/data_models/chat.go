package dto

import model "taskflow.com/taskflow/pkg/models"

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	CreateTasks bool          `json:"create_tasks"`
}

// ChatTask is a task the assistant surfaced. Task is set when it refers to an
// existing task or was created from the suggestion.
type ChatTask struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Priority    string      `json:"priority,omitempty"`
	Description string      `json:"description,omitempty"`
	Task        *model.Task `json:"task,omitempty"`
}

type ChatResponse struct {
	Messages    []ChatMessage `json:"messages"`
	Tasks       []ChatTask    `json:"tasks"`
	Unavailable bool          `json:"unavailable,omitempty"`
}
