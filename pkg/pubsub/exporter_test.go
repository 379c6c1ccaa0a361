package pubsub

import (
	"context"
	"errors"
	"sync"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/storefront-backend/pkg/config"
)

type fakeResult struct {
	id  string
	err error
}

func (r fakeResult) Get(context.Context) (string, error) { return r.id, r.err }

type fakePublisher struct {
	mu       sync.Mutex
	messages []*pubsub.Message
	err      error
	stopped  bool
}

func (f *fakePublisher) Publish(_ context.Context, msg *pubsub.Message) publishResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return fakeResult{id: "msg-1", err: f.err}
}

func (f *fakePublisher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func TestExporterSetsAttributes(t *testing.T) {
	pub := &fakePublisher{}
	exp := newExporter(pub, nil)

	exp.Export(context.Background(), "order-update", "user:42", []byte(`{"message":"hi"}`))
	if err := exp.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Attributes[AttrEventName] != "order-update" || msg.Attributes[AttrRoom] != "user:42" {
		t.Fatalf("unexpected attributes %v", msg.Attributes)
	}
	if string(msg.Data) != `{"message":"hi"}` {
		t.Fatalf("unexpected data %s", msg.Data)
	}
	if !pub.stopped {
		t.Fatal("expected publisher to be stopped on close")
	}
}

func TestExporterSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("unavailable")}
	exp := newExporter(pub, nil)
	exp.Export(context.Background(), "stock-update", "admin", []byte(`{}`))
	if err := exp.Close(); err != nil {
		t.Fatalf("close should not surface publish errors: %v", err)
	}
}

func TestNilExporterIsNoop(t *testing.T) {
	var exp *Exporter
	exp.Export(context.Background(), "order-update", "admin", nil)
	if err := exp.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestTopicResourceName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"order-events", "projects/shop/topics/order-events"},
		{" projects/other/topics/orders ", "projects/other/topics/orders"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := topicResourceName("shop", tc.in); got != tc.want {
			t.Fatalf("topicResourceName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := topicResourceName("", "orders"); got != "" {
		t.Fatalf("expected empty name without project, got %q", got)
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, config.GCPConfig{}, config.PubSubConfig{OrderEventsTopic: "t"}, nil); !errors.Is(err, errProjectIDRequired) {
		t.Fatalf("expected project id error, got %v", err)
	}
	if _, err := NewClient(ctx, config.GCPConfig{ProjectID: "p"}, config.PubSubConfig{}, nil); !errors.Is(err, errTopicRequired) {
		t.Fatalf("expected topic error, got %v", err)
	}
}
