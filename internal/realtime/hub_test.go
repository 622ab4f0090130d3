package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func testHub() *Hub {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewHub(nil, log)
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	hub := testHub()
	defer hub.Close()

	sub := hub.Subscribe(SessionChannel("abc"))
	defer sub.Close()

	hub.Publish(context.Background(), SessionChannel("abc"), EventCartUpdated, map[string]int{"total_quantity": 3})

	select {
	case evt := <-sub.C:
		if evt.Name != EventCartUpdated {
			t.Errorf("event name = %s, want %s", evt.Name, EventCartUpdated)
		}
		if evt.Channel != "session:abc" {
			t.Errorf("channel = %s, want session:abc", evt.Channel)
		}
		var payload map[string]int
		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			t.Fatalf("payload did not unmarshal: %v", err)
		}
		if payload["total_quantity"] != 3 {
			t.Errorf("payload = %v", payload)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestPublishIsScopedToChannel(t *testing.T) {
	hub := testHub()
	defer hub.Close()

	other := hub.Subscribe(SessionChannel("other"))
	defer other.Close()

	hub.Publish(context.Background(), SessionChannel("abc"), EventCartUpdated, nil)

	select {
	case evt := <-other.C:
		t.Errorf("unexpected event on other channel: %+v", evt)
	default:
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := testHub()
	defer hub.Close()

	sub := hub.Subscribe(StoreChannel(1))
	defer sub.Close()

	// Publish past the buffer; the overflow must be dropped, not block.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(context.Background(), StoreChannel(1), EventTableStatusChanged, i)
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBuffer {
		t.Errorf("received %d events, want %d buffered", received, subscriberBuffer)
	}
}

func TestCloseTerminatesSubscriptions(t *testing.T) {
	hub := testHub()
	sub := hub.Subscribe(SessionChannel("abc"))

	hub.Close()

	if _, ok := <-sub.C; ok {
		t.Error("subscription channel should be closed after hub close")
	}

	// Publishing after close must not panic.
	hub.Publish(context.Background(), SessionChannel("abc"), EventCartUpdated, nil)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := testHub()
	defer hub.Close()

	sub := hub.Subscribe(SessionChannel("abc"))
	sub.Close()

	hub.Publish(context.Background(), SessionChannel("abc"), EventCartUpdated, nil)

	if _, ok := <-sub.C; ok {
		t.Error("closed subscription should not receive events")
	}
}
