package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taskflow.com/taskflow/internal/assistant"
	dto "taskflow.com/taskflow/internal/data_models"
	"taskflow.com/taskflow/pkg/constants"
)

type fakeAssistant struct {
	reply  string
	err    error
	system string
	calls  int
}

func (f *fakeAssistant) Complete(_ context.Context, system string, _ []assistant.Message) (string, error) {
	f.calls++
	f.system = system
	return f.reply, f.err
}

func TestChatService_PlainReply(t *testing.T) {
	s := newTestServices(t)
	team := s.createTeam(t, "Web", constants.TeamGeneral)
	s.createTask(t, team.ID, "Fix login", "todo")
	a := &fakeAssistant{reply: "All good, nothing urgent."}
	chat := NewChatService(a, s.teams, s.tasks, s.logger)

	resp, err := chat.Send(context.Background(), team.ID, dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "anything urgent?"}},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(resp.Messages) != 2 || resp.Messages[1].Content != "All good, nothing urgent." {
		t.Fatalf("unexpected conversation %+v", resp.Messages)
	}
	if !strings.Contains(a.system, "Fix login") || !strings.Contains(a.system, `"Web"`) {
		t.Fatalf("system prompt lacks board context: %s", a.system)
	}
}

func TestChatService_ResolvesSurfacedTasks(t *testing.T) {
	s := newTestServices(t)
	team := s.createTeam(t, "Web", constants.TeamGeneral)
	known := s.createTask(t, team.ID, "Fix login", "todo")
	byTitle := s.createTask(t, team.ID, "Write release notes", "todo")
	a := &fakeAssistant{reply: "```json\n{\"message\":\"Focus on these\",\"tasks\":[" +
		"{\"id\":\"" + known.ID + "\",\"title\":\"Fix login\"}," +
		"{\"title\":\"write release notes\"}," +
		"{\"title\":\"Add rate limits\",\"priority\":\"High\"}]}\n```"}
	chat := NewChatService(a, s.teams, s.tasks, s.logger)

	resp, err := chat.Send(context.Background(), team.ID, dto.ChatRequest{
		Messages:    []dto.ChatMessage{{Role: "user", Content: "what next?"}},
		CreateTasks: true,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.Messages[1].Content != "Focus on these" {
		t.Fatalf("unexpected message %q", resp.Messages[1].Content)
	}
	if len(resp.Tasks) != 3 {
		t.Fatalf("expected 3 surfaced tasks, got %d", len(resp.Tasks))
	}
	if resp.Tasks[0].Task == nil || resp.Tasks[0].Task.ID != known.ID {
		t.Fatal("id reference not resolved")
	}
	if resp.Tasks[1].ID != byTitle.ID {
		t.Fatal("title reference not resolved")
	}
	created := resp.Tasks[2].Task
	if created == nil || created.Priority != constants.PriorityHigh || created.TeamID != team.ID {
		t.Fatalf("suggestion not created: %+v", created)
	}

	tasks, _ := s.tasks.ListTasks(context.Background(), team.ID)
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks on the board, got %d", len(tasks))
	}
}

func TestChatService_AssistantFailureAppendsCannedMessage(t *testing.T) {
	s := newTestServices(t)
	team := s.createTeam(t, "Web", constants.TeamGeneral)
	chat := NewChatService(&fakeAssistant{err: errors.New("timeout")}, s.teams, s.tasks, s.logger)

	resp, err := chat.Send(context.Background(), team.ID, dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("assistant failures must not surface as errors: %v", err)
	}
	if !resp.Unavailable {
		t.Fatal("expected the response to be flagged unavailable")
	}
	last := resp.Messages[len(resp.Messages)-1]
	if last.Role != "assistant" || last.Content != AssistantUnavailableMessage {
		t.Fatalf("unexpected last message %+v", last)
	}
}
