package notifications

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Publisher delivers a fired notification, e.g. over MQTT.
type Publisher interface {
	Publish(topic string, payload string) error
}

// TimerNotifier keeps one timer per notification id and publishes the
// notification when its timer fires. Scheduling an id again replaces it.
type TimerNotifier struct {
	publisher Publisher
	topic     string
	now       func() time.Time

	mu      sync.Mutex
	timers  map[int]*time.Timer
	onFired func(id int)
}

func NewTimerNotifier(publisher Publisher, topic string) *TimerNotifier {
	return &TimerNotifier{
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
		timers:    make(map[int]*time.Timer),
	}
}

// OnFired registers a callback run after a notification is delivered.
func (n *TimerNotifier) OnFired(fn func(id int)) {
	n.mu.Lock()
	n.onFired = fn
	n.mu.Unlock()
}

func (n *TimerNotifier) Schedule(_ context.Context, notif Notification) error {
	payload, err := json.Marshal(notif)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[notif.ID]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(notif.FireAt.Sub(n.now()), func() {
		n.mu.Lock()
		current, ok := n.timers[notif.ID]
		if !ok || current != timer {
			n.mu.Unlock()
			return
		}
		delete(n.timers, notif.ID)
		onFired := n.onFired
		n.mu.Unlock()

		if err := n.publisher.Publish(n.topic, string(payload)); err != nil {
			log.Printf("❌ [Notifier] failed to publish notification %d: %v", notif.ID, err)
		} else {
			log.Printf("📤 [Notifier] delivered notification %d (%s)", notif.ID, notif.Kind)
		}
		if onFired != nil {
			onFired(notif.ID)
		}
	})
	n.timers[notif.ID] = timer
	return nil
}

// Cancel stops the timer for id. Unknown ids are ignored.
func (n *TimerNotifier) Cancel(id int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	return nil
}

// Pending returns how many notifications are waiting to fire.
func (n *TimerNotifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.timers)
}

// Stop cancels every pending notification.
func (n *TimerNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
}
