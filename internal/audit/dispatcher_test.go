package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type gateSink struct {
	gate chan struct{}
	mu   sync.Mutex
	seen []Event
}

func (s *gateSink) Emit(_ context.Context, e Event) {
	<-s.gate
	s.mu.Lock()
	s.seen = append(s.seen, e)
	s.mu.Unlock()
}

func TestDispatcherDisabledReturnsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	// nil receivers are safe
	d.Emit(context.Background(), Event{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops on nil dispatcher")
	}
}

func TestDispatcherDropIfFullCountsDrops(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// first event is taken by the worker and blocks in the sink; second fills the buffer.
	d.Emit(context.Background(), Event{EventType: "a"})
	time.Sleep(20 * time.Millisecond)
	d.Emit(context.Background(), Event{EventType: "b"})
	d.Emit(context.Background(), Event{EventType: "c"})

	if got := d.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}

	close(sink.gate)
	d.Close()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.seen) != 2 {
		t.Fatalf("expected 2 delivered events, got %d", len(sink.seen))
	}
}

func TestDispatcherCloseDrainsBuffer(t *testing.T) {
	ch := NewChannelSink(8)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, ch)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "sign_out"})
	}
	d.Close()

	if got := len(ch.Events()); got != 5 {
		t.Fatalf("expected 5 drained events, got %d", got)
	}

	// emits after close are ignored
	d.Emit(context.Background(), Event{EventType: "late"})
	if got := len(ch.Events()); got != 5 {
		t.Fatalf("expected no delivery after close, got %d", got)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{EventType: "sign_in_success", UserID: "1", Success: true})
	sink.Emit(context.Background(), Event{EventType: "sign_out", TraceID: "tr-1"})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var e Event
	if err := json.Unmarshal(lines[1], &e); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if e.EventType != "sign_out" || e.TraceID != "tr-1" {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestDispatcherStampsTimestampAndCountsDelivery(t *testing.T) {
	ch := NewChannelSink(2)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 2}, ch)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	d.Emit(context.Background(), Event{EventType: "restore_anonymous"})
	d.Close()

	e := <-ch.Events()
	if !e.Timestamp.Equal(fixed) {
		t.Fatalf("expected stamped timestamp %v, got %v", fixed, e.Timestamp)
	}
	if d.Delivered() != 1 {
		t.Fatalf("expected 1 delivered, got %d", d.Delivered())
	}
}

func TestLoggerSinkLevelsByOutcome(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLoggerSink(zerolog.New(&buf))

	sink.Emit(context.Background(), Event{EventType: "sign_in_success", UserID: "1", Success: true})
	sink.Emit(context.Background(), Event{
		EventType: "storage_degraded",
		Error:     "storage",
		Metadata:  map[string]string{"op": "sign_out"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}

	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if first["level"] != "info" || first["event"] != "sign_in_success" || first["user_id"] != "1" {
		t.Fatalf("unexpected success entry %v", first)
	}
	if second["level"] != "warn" || second["code"] != "storage" || second["op"] != "sign_out" {
		t.Fatalf("unexpected failure entry %v", second)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	a := NewChannelSink(1)
	b := NewChannelSink(1)
	MultiSink{a, nil, b}.Emit(context.Background(), Event{EventType: "sign_out"})

	if (<-a.Events()).EventType != "sign_out" || (<-b.Events()).EventType != "sign_out" {
		t.Fatal("expected both sinks to receive the event")
	}
}
