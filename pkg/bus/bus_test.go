package bus

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestClassifyPriorityOrder(t *testing.T) {
	voice := &Attachment{FileID: "v1", MIMEType: "audio/ogg"}
	audio := &Attachment{FileID: "a1", MIMEType: "audio/mpeg"}
	doc := &Attachment{FileID: "d1", Filename: "report.pdf"}

	cases := []struct {
		name string
		msg  InboundMessage
		want Kind
	}{
		{"voice wins over everything", InboundMessage{Voice: voice, Audio: audio, Document: doc, Text: "hi", Caption: "c"}, KindVoice},
		{"audio wins over document", InboundMessage{Audio: audio, Document: doc, Text: "hi"}, KindAudio},
		{"document with caption", InboundMessage{Document: doc, Caption: "summarize"}, KindDocumentCaption},
		{"document caption is trimmed", InboundMessage{Document: doc, Caption: "   "}, KindDocument},
		{"document wins over text", InboundMessage{Document: doc, Text: "hi"}, KindDocument},
		{"plain text", InboundMessage{Text: "hi"}, KindText},
		{"blank text is unsupported", InboundMessage{Text: "   "}, KindUnsupported},
		{"empty message is unsupported", InboundMessage{}, KindUnsupported},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.msg); got != tc.want {
				t.Fatalf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPublishEventReachesSubscriber(t *testing.T) {
	mb := NewMessageBus()
	t.Cleanup(mb.Close)

	events, unsubscribe := mb.SubscribeEvents(context.Background(), 1)
	t.Cleanup(unsubscribe)

	if ok := mb.PublishEvent(context.Background(), Event{Type: EventMessageProcessed, Kind: string(KindText)}); !ok {
		t.Fatal("expected publish to succeed")
	}

	select {
	case event := <-events:
		if event.Type != EventMessageProcessed {
			t.Fatalf("event type = %q, want %q", event.Type, EventMessageProcessed)
		}
		if event.At.IsZero() {
			t.Fatal("expected event timestamp to be stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishEventDropsWhenSubscriberFull(t *testing.T) {
	mb := NewMessageBus()
	t.Cleanup(mb.Close)

	events, unsubscribe := mb.SubscribeEvents(context.Background(), 1)
	t.Cleanup(unsubscribe)

	mb.PublishEvent(context.Background(), Event{Type: EventMessageReceived})
	// Buffer is full; the second publish must not block.
	done := make(chan struct{})
	go func() {
		mb.PublishEvent(context.Background(), Event{Type: EventMessageReceived})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	<-events
}

func TestCloseStopsEventPublishing(t *testing.T) {
	mb := NewMessageBus()
	mb.Close()

	if ok := mb.PublishEvent(context.Background(), Event{Type: EventMessageReceived}); ok {
		t.Fatal("expected publish to fail after close")
	}

	events, unsubscribe := mb.SubscribeEvents(context.Background(), 1)
	t.Cleanup(unsubscribe)
	if _, ok := <-events; ok {
		t.Fatal("expected subscription channel to be closed")
	}
}

func TestPublishEventCanceledContext(t *testing.T) {
	mb := NewMessageBus()
	t.Cleanup(mb.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if ok := mb.PublishEvent(ctx, Event{Type: EventMessageReceived}); ok {
		t.Fatal("expected publish to fail on canceled context")
	}
}

// Publishing must stay safe while subscribers unsubscribe and the bus shuts
// down; a send racing a channel close would panic the publisher.
func TestPublishEventDuringShutdown(t *testing.T) {
	mb := NewMessageBus()

	ctx := context.Background()
	for i := 0; i < 8; i++ {
		_, unsubscribe := mb.SubscribeEvents(ctx, 1)
		defer unsubscribe()
	}

	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 1000; j++ {
				mb.PublishEvent(ctx, Event{Type: EventMessageReceived})
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		mb.Close()
	}()

	close(start)
	wg.Wait()
}
