package dispatch

import (
	"context"
	"testing"

	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

type stubHandler struct {
	intents []string
	reply   *Reply
	called  int
}

func (s *stubHandler) Intents() []string { return s.intents }

func (s *stubHandler) Handle(_ context.Context, _ *Turn) *Reply {
	s.called++
	return s.reply
}

func newTestRegistry() *Registry {
	return NewRegistry(logger.New("error"), nil)
}

func newTurn(intent string) *Turn {
	return &Turn{
		Intent:    intent,
		Query:     &QueryResult{},
		Session:   "projects/p/agent/sessions/abc",
		SessionID: "abc",
	}
}

func TestRegistryDispatch(t *testing.T) {
	reg := newTestRegistry()
	h := &stubHandler{
		intents: []string{"GetLatestAnnouncement"},
		reply:   TextReply("events"),
	}
	reg.Register(h)

	reply := reg.Dispatch(context.Background(), newTurn("GetLatestAnnouncement"))
	if reply.Text != "events" {
		t.Errorf("expected handler reply, got %q", reply.Text)
	}
	if h.called != 1 {
		t.Errorf("expected handler called once, got %d", h.called)
	}
}

func TestRegistryUnhandledIntent(t *testing.T) {
	reg := newTestRegistry()

	reply := reg.Dispatch(context.Background(), newTurn("SomethingElse"))
	if reply.Text != UnhandledReplyText {
		t.Errorf("expected unhandled reply, got %q", reply.Text)
	}
}

func TestRegistryNilHandlerReply(t *testing.T) {
	reg := newTestRegistry()
	reg.Register(&stubHandler{intents: []string{"Broken"}, reply: nil})

	reply := reg.Dispatch(context.Background(), newTurn("Broken"))
	if reply == nil || reply.Text != UnhandledReplyText {
		t.Errorf("nil handler reply must degrade to unhandled text, got %+v", reply)
	}
}

func TestRegistryMultiIntentHandler(t *testing.T) {
	reg := newTestRegistry()
	h := &stubHandler{
		intents: []string{"ViewAvailableSlots", "ConfirmSlotBooking"},
		reply:   TextReply("ok"),
	}
	reg.Register(h)

	reg.Dispatch(context.Background(), newTurn("ViewAvailableSlots"))
	reg.Dispatch(context.Background(), newTurn("ConfirmSlotBooking"))
	if h.called != 2 {
		t.Errorf("expected handler to own both intents, called %d times", h.called)
	}
}
