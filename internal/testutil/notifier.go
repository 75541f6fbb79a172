package testutil

import (
	"context"
	"sync"
)

type Notification struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// RecordingNotifier keeps every push it is asked to send.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, token, title, body string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{Token: token, Title: title, Body: body, Data: data})
	return nil
}

func (n *RecordingNotifier) Tokens() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Sent))
	for _, s := range n.Sent {
		out = append(out, s.Token)
	}
	return out
}
