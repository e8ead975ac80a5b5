package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"taskflow.com/taskflow/internal/assistant"
	dto "taskflow.com/taskflow/internal/data_models"
	model "taskflow.com/taskflow/pkg/models"
)

const AssistantUnavailableMessage = "Sorry, I couldn't reach the assistant right now. Please try again."

// Assistant completes a conversation given a system prompt.
type Assistant interface {
	Complete(ctx context.Context, system string, messages []assistant.Message) (string, error)
}

type ChatService struct {
	assistant Assistant
	teams     *TeamService
	tasks     *TaskService
	logger    *log.Entry
}

func NewChatService(a Assistant, teams *TeamService, tasks *TaskService, logger *log.Logger) *ChatService {
	return &ChatService{
		assistant: a,
		teams:     teams,
		tasks:     tasks,
		logger:    logger.WithField("component", "services.chat"),
	}
}

// Send appends the assistant's answer to the conversation. An unreachable
// assistant yields the canned apology instead of an error.
func (s *ChatService) Send(ctx context.Context, teamID string, req dto.ChatRequest) (*dto.ChatResponse, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListTasks(ctx, teamID)
	if err != nil {
		return nil, err
	}

	history := make([]assistant.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, assistant.Message{Role: m.Role, Content: m.Content})
	}

	resp := &dto.ChatResponse{
		Messages: append([]dto.ChatMessage(nil), req.Messages...),
		Tasks:    []dto.ChatTask{},
	}

	text, err := s.assistant.Complete(ctx, SystemPrompt(team, tasks), history)
	if err != nil {
		s.logger.WithError(err).WithField("team_id", teamID).Error("assistant request failed")
		resp.Messages = append(resp.Messages, dto.ChatMessage{Role: "assistant", Content: AssistantUnavailableMessage})
		resp.Unavailable = true
		return resp, nil
	}

	reply := assistant.ParseReply(text)
	resp.Messages = append(resp.Messages, dto.ChatMessage{Role: "assistant", Content: reply.Message})
	resp.Tasks = s.resolve(ctx, team, tasks, reply.Tasks, req.CreateTasks)
	return resp, nil
}

// resolve matches surfaced tasks against the team's tasks, by id first and
// then by title. Unmatched suggestions are created when create is set.
func (s *ChatService) resolve(ctx context.Context, team *model.Team, known []model.Task, surfaced []assistant.SuggestedTask, create bool) []dto.ChatTask {
	byID := make(map[string]*model.Task, len(known))
	byTitle := make(map[string]*model.Task, len(known))
	for i := range known {
		byID[known[i].ID] = &known[i]
		byTitle[strings.ToLower(known[i].Title)] = &known[i]
	}

	out := make([]dto.ChatTask, 0, len(surfaced))
	for _, st := range surfaced {
		ct := dto.ChatTask{ID: st.ID, Title: st.Title, Priority: st.Priority, Description: st.Description}
		if t, ok := byID[st.ID]; ok && st.ID != "" {
			ct.Task = t
		} else if t, ok := byTitle[strings.ToLower(st.Title)]; ok {
			ct.Task = t
			ct.ID = t.ID
		} else if create {
			created, err := s.tasks.CreateTask(ctx, team.ID, dto.CreateTaskRequest{
				Title:       st.Title,
				Description: st.Description,
				Priority:    strings.ToLower(st.Priority),
				Tags:        []string{"assistant"},
			})
			if err != nil {
				s.logger.WithError(err).WithField("title", st.Title).Warn("could not create suggested task")
			} else {
				ct.Task = created
				ct.ID = created.ID
			}
		}
		out = append(out, ct)
	}
	return out
}

// SystemPrompt describes the board to the assistant.
func SystemPrompt(team *model.Team, tasks []model.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the TaskFlow assistant for the %q team.\n", team.Name)
	b.WriteString("Columns:")
	for _, c := range team.Columns {
		fmt.Fprintf(&b, " %s (%s);", c.Name, c.ID)
	}
	b.WriteString("\nCurrent tasks:\n")
	if len(tasks) == 0 {
		b.WriteString("- none\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&b, "- [%s] %s (priority %s, column %s)", t.ID, t.Title, t.Priority, t.ColumnID)
		if t.DueAt != nil {
			fmt.Fprintf(&b, " due %s", t.DueAt.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	b.WriteString("When you mention or suggest tasks, answer with a ```json block shaped like ")
	b.WriteString(`{"message": "...", "tasks": [{"id": "existing id if any", "title": "...", "priority": "low|medium|high|urgent", "description": "..."}]}`)
	b.WriteString(". Otherwise answer in plain text.")
	return b.String()
}
