package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// fakeSender records send attempts and fails selected recipients.
type fakeSender struct {
	sent     []int64
	failWith map[int64]error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	chatID := params.ChatID.(int64)
	f.sent = append(f.sent, chatID)
	if err, ok := f.failWith[chatID]; ok {
		return nil, err
	}
	return &models.Message{}, nil
}

func TestBroadcastSkipsBlockedRecipient(t *testing.T) {
	sender := &fakeSender{failWith: map[int64]error{
		2: errors.New("forbidden, bot was blocked by the user"),
	}}
	n := newNotifier(sender, time.Millisecond)

	err := n.Broadcast(context.Background(), []int64{1, 2, 3}, "hello")
	if err != nil {
		t.Fatalf("Broadcast returned %v, blocked recipients must be swallowed", err)
	}

	if len(sender.sent) != 3 {
		t.Errorf("attempted %d deliveries, want 3", len(sender.sent))
	}
	if sender.sent[0] != 1 || sender.sent[2] != 3 {
		t.Errorf("recipients 1 and 3 must still be served, got %v", sender.sent)
	}
}

func TestBroadcastSurfacesUnexpectedFailure(t *testing.T) {
	sender := &fakeSender{failWith: map[int64]error{
		2: errors.New("bad gateway"),
	}}
	n := newNotifier(sender, time.Millisecond)

	err := n.Broadcast(context.Background(), []int64{1, 2, 3}, "hello")
	if err == nil {
		t.Fatal("expected an error for an unexpected delivery failure")
	}

	// The failure is reported only after the loop finished.
	if len(sender.sent) != 3 {
		t.Errorf("attempted %d deliveries, want 3", len(sender.sent))
	}
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	sender := &fakeSender{}
	n := newNotifier(sender, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Broadcast(ctx, []int64{1, 2, 3}, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Broadcast error = %v, want context.Canceled", err)
	}
	if len(sender.sent) > 1 {
		t.Errorf("sent %d messages after cancellation", len(sender.sent))
	}
}

func TestIsBlockedByRecipient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"blocked", errors.New("forbidden, bot was blocked by the user"), true},
		{"deactivated", errors.New("Forbidden: user is deactivated"), true},
		{"rate limit", errors.New("too many requests"), false},
		{"network", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBlockedByRecipient(tt.err); got != tt.want {
				t.Errorf("isBlockedByRecipient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
