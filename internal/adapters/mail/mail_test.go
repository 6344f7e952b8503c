package mail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func TestSendEmailTaskRoundTrip(t *testing.T) {
	msg := Message{To: "a@example.com", Subject: "Hello", HTML: "<p>hi</p>"}
	task, err := NewSendEmailTask(msg)
	if err != nil {
		t.Fatalf("NewSendEmailTask: %v", err)
	}
	if task.Type() != TaskSendEmail {
		t.Errorf("type = %q", task.Type())
	}

	rec := &recordingSender{}
	if err := NewServeMux(rec).ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if len(rec.sent) != 1 || rec.sent[0] != msg {
		t.Errorf("sent = %+v", rec.sent)
	}
}

func TestServeMuxSkipsBadPayload(t *testing.T) {
	rec := &recordingSender{}
	err := NewServeMux(rec).ProcessTask(context.Background(), asynq.NewTask(TaskSendEmail, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("err = %v, want SkipRetry", err)
	}
	if len(rec.sent) != 0 {
		t.Errorf("sent = %+v", rec.sent)
	}
}

func TestMessageWithoutRecipient(t *testing.T) {
	if _, err := NewSendEmailTask(Message{Subject: "x"}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}
	if err := (LogSender{}).Send(context.Background(), Message{}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("LogSender err = %v", err)
	}
}
