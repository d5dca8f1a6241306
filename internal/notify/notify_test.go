package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"farmtech_irrigation/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type tokenStub struct {
	err     error
	timeout bool
}

func (t *tokenStub) Wait() bool                     { return true }
func (t *tokenStub) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *tokenStub) Error() error                   { return t.err }
func (t *tokenStub) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	payload []byte
}

type publisherStub struct {
	msgs   []published
	failOn map[int]error
	calls  int
}

func (p *publisherStub) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	p.calls++
	if err, ok := p.failOn[p.calls]; ok {
		return &tokenStub{err: err}
	}
	p.msgs = append(p.msgs, published{topic: topic, payload: payload.([]byte)})
	return &tokenStub{}
}

func sampleAlert() models.Alert {
	id := "DHT22_01"
	return models.Alert{
		ID: "a-1", Title: "Critical moisture", Message: "Moisture very low: 25.0%",
		Severity: models.SeverityCritical, SensorID: &id,
		OccurredAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func contacts(n int) []models.Contact {
	out := make([]models.Contact, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Contact{ID: i + 1, Name: "c", Email: string(rune('a'+i)) + "@farm.test", Active: true})
	}
	return out
}

func TestLogDispatcher_CountsContacts(t *testing.T) {
	d := NewLogDispatcher(nil)
	n, err := d.Notify(context.Background(), sampleAlert(), contacts(3))
	if err != nil || n != 3 {
		t.Fatalf("Notify = %d, %v", n, err)
	}
	n, err = d.Notify(context.Background(), sampleAlert(), nil)
	if err != nil || n != 0 {
		t.Fatalf("empty contacts: Notify = %d, %v", n, err)
	}
}

func TestLogDispatcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := NewLogDispatcher(nil).Notify(ctx, sampleAlert(), contacts(2))
	var de *DispatchError
	if !errors.As(err, &de) || n != 0 || de.Delivered != 0 {
		t.Fatalf("expected DispatchError with 0 delivered, got %d, %v", n, err)
	}
}

func TestMQTTDispatcher_PublishesPerContact(t *testing.T) {
	pub := &publisherStub{}
	d := NewMQTTDispatcher(pub, "farmtech/alerts", nil)

	n, err := d.Notify(context.Background(), sampleAlert(), contacts(2))
	if err != nil || n != 2 {
		t.Fatalf("Notify = %d, %v", n, err)
	}
	if len(pub.msgs) != 2 {
		t.Fatalf("published %d messages", len(pub.msgs))
	}
	if pub.msgs[0].topic != "farmtech/alerts/crítico" {
		t.Fatalf("topic: %q", pub.msgs[0].topic)
	}
	var m message
	if err := json.Unmarshal(pub.msgs[1].payload, &m); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if m.AlertID != "a-1" || m.Email != "b@farm.test" || m.SensorID == nil || *m.SensorID != "DHT22_01" {
		t.Fatalf("payload fields: %+v", m)
	}
}

func TestMQTTDispatcher_EmptyContacts(t *testing.T) {
	pub := &publisherStub{}
	n, err := NewMQTTDispatcher(pub, "p", nil).Notify(context.Background(), sampleAlert(), nil)
	if err != nil || n != 0 || pub.calls != 0 {
		t.Fatalf("Notify = %d, %v, calls %d", n, err, pub.calls)
	}
}

func TestMQTTDispatcher_PartialFailure(t *testing.T) {
	boom := errors.New("broker said no")
	pub := &publisherStub{failOn: map[int]error{2: boom}}
	d := NewMQTTDispatcher(pub, "p", nil)

	n, err := d.Notify(context.Background(), sampleAlert(), contacts(3))
	if n != 2 {
		t.Fatalf("delivered %d, want 2", n)
	}
	var de *DispatchError
	if !errors.As(err, &de) || de.Delivered != 2 {
		t.Fatalf("expected DispatchError{Delivered: 2}, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause not wrapped: %v", err)
	}
}

func TestMQTTDispatcher_Timeout(t *testing.T) {
	d := NewMQTTDispatcher(timeoutPublisher{}, "p", nil)
	n, err := d.Notify(context.Background(), sampleAlert(), contacts(1))
	if n != 0 || !errors.Is(err, ErrPublishTimeout) {
		t.Fatalf("Notify = %d, %v", n, err)
	}
}

type timeoutPublisher struct{}

func (timeoutPublisher) Publish(string, byte, bool, interface{}) mqtt.Token {
	return &tokenStub{timeout: true}
}

func TestMQTTDispatcher_BreakerOpensAfterFailures(t *testing.T) {
	boom := errors.New("down")
	pub := &publisherStub{failOn: map[int]error{1: boom, 2: boom, 3: boom}}
	d := NewMQTTDispatcher(pub, "p", nil)

	n, err := d.Notify(context.Background(), sampleAlert(), contacts(5))
	if n != 0 || err == nil {
		t.Fatalf("Notify = %d, %v", n, err)
	}
	// contacts 4 and 5 are rejected by the open breaker without publishing
	if pub.calls != breakerFailures {
		t.Fatalf("publisher called %d times, want %d", pub.calls, breakerFailures)
	}
}
