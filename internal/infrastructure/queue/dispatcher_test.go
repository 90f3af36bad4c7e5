package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubeworks/media-api/internal/core/ports"
)

type recordingProcessor struct {
	mu     sync.Mutex
	events []ports.ViewEvent
	done   chan struct{}
	want   int
}

func newRecordingProcessor(want int) *recordingProcessor {
	return &recordingProcessor{done: make(chan struct{}), want: want}
}

func (p *recordingProcessor) ProcessView(_ context.Context, event ports.ViewEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	if len(p.events) == p.want {
		close(p.done)
	}
	return nil
}

func (p *recordingProcessor) wait(t *testing.T) []ports.ViewEvent {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d events", p.want)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.ViewEvent(nil), p.events...)
}

func TestDispatcher_ProcessesAllEvents(t *testing.T) {
	proc := newRecordingProcessor(6)
	d := NewDispatcher(3, proc, zerolog.Nop())

	d.Start(context.Background())
	defer d.Stop()

	for _, videoID := range []string{"v1", "v2", "v3", "v1", "v2", "v3"} {
		d.Enqueue(ports.ViewEvent{VideoID: videoID, ViewerID: "viewer"})
	}

	events := proc.wait(t)

	counts := map[string]int{}
	for _, event := range events {
		counts[event.VideoID]++
	}
	for _, videoID := range []string{"v1", "v2", "v3"} {
		if counts[videoID] != 2 {
			t.Fatalf("video %s processed %d times, want 2", videoID, counts[videoID])
		}
	}
}

func TestDispatcher_PerVideoOrdering(t *testing.T) {
	const perVideo = 20
	proc := newRecordingProcessor(2 * perVideo)
	d := NewDispatcher(4, proc, zerolog.Nop())

	d.Start(context.Background())
	defer d.Stop()

	// Interleave viewers across two videos; within a video the viewer
	// sequence must be preserved because a single worker owns it.
	viewers := make([]string, perVideo)
	for i := range viewers {
		viewers[i] = string(rune('a' + i))
	}
	for _, viewer := range viewers {
		d.Enqueue(ports.ViewEvent{VideoID: "v1", ViewerID: viewer})
		d.Enqueue(ports.ViewEvent{VideoID: "v2", ViewerID: viewer})
	}

	events := proc.wait(t)

	seen := map[string][]string{}
	for _, event := range events {
		seen[event.VideoID] = append(seen[event.VideoID], event.ViewerID)
	}
	for _, videoID := range []string{"v1", "v2"} {
		got := seen[videoID]
		if len(got) != perVideo {
			t.Fatalf("video %s: %d events, want %d", videoID, len(got), perVideo)
		}
		for i, viewer := range got {
			if viewer != viewers[i] {
				t.Fatalf("video %s: event %d from %q, want %q", videoID, i, viewer, viewers[i])
			}
		}
	}
}

func TestDispatcher_StopDrainsBufferedEvents(t *testing.T) {
	const total = 12
	proc := newRecordingProcessor(total)
	d := NewDispatcher(2, proc, zerolog.Nop())

	// Load the buffers before any worker runs, then start with an already
	// cancelled context: Stop must still hand every event to the processor.
	for i := 0; i < total; i++ {
		d.Enqueue(ports.ViewEvent{VideoID: "v" + string(rune('a'+i)), ViewerID: "viewer"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Stop()

	proc.mu.Lock()
	got := len(proc.events)
	proc.mu.Unlock()
	if got != total {
		t.Fatalf("processed %d events after Stop, want %d", got, total)
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(4, newRecordingProcessor(0), zerolog.Nop())

	for _, videoID := range []string{"v1", "abcdef", ""} {
		first := d.shardIndex(videoID)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(videoID); got != first {
				t.Fatalf("shard for %q changed: %d then %d", videoID, first, got)
			}
		}
		if first < 0 || first >= len(d.workers) {
			t.Fatalf("shard %d out of range for %q", first, videoID)
		}
	}
}
