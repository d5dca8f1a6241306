package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"farmtech_irrigation/internal/config"
	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/models"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sony/gobreaker"
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

const (
	defaultPublishTimeout = 3 * time.Second
	breakerFailures       = 3
	breakerOpen           = 30 * time.Second
	breakerInterval       = time.Minute
)

// Publisher is the part of mqtt.Client the dispatcher needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type message struct {
	AlertID    string    `json:"alert_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	SensorID   *string   `json:"sensor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Name       string    `json:"contact_name"`
	Email      string    `json:"contact_email"`
	Phone      string    `json:"contact_phone,omitempty"`
}

// MQTTDispatcher publishes one message per contact to <prefix>/<severity>.
// Publishes go through a circuit breaker so a dead broker fails fast.
type MQTTDispatcher struct {
	pub     Publisher
	prefix  string
	qos     byte
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
	log     *logger.Logger
}

func NewMQTTDispatcher(pub Publisher, topicPrefix string, log *logger.Logger) *MQTTDispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &MQTTDispatcher{
		pub:     pub,
		prefix:  topicPrefix,
		qos:     1,
		timeout: defaultPublishTimeout,
		cb:      newBreaker("mqtt-notify", log),
		log:     log,
	}
}

func newBreaker(name string, log *logger.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: breakerInterval,
		Timeout:  breakerOpen,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("breaker_state_changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Topic returns the topic alerts of severity s are published to.
func (d *MQTTDispatcher) Topic(s models.Severity) string {
	return d.prefix + "/" + string(s)
}

func (d *MQTTDispatcher) Notify(ctx context.Context, a models.Alert, contacts []models.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}
	topic := d.Topic(a.Severity)
	sent := 0
	var errs []error
	for _, c := range contacts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		payload, err := json.Marshal(message{
			AlertID:    a.ID,
			Title:      a.Title,
			Message:    a.Message,
			Severity:   string(a.Severity),
			SensorID:   a.SensorID,
			OccurredAt: a.OccurredAt,
			Name:       c.Name,
			Email:      c.Email,
			Phone:      c.Phone,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = d.cb.Execute(func() (interface{}, error) {
			tok := d.pub.Publish(topic, d.qos, false, payload)
			if !tok.WaitTimeout(d.timeout) {
				return nil, ErrPublishTimeout
			}
			return nil, tok.Error()
		})
		if err != nil {
			d.log.Warnw("mqtt_publish_failed", "topic", topic, "alert_id", a.ID, "email", c.Email, "err", err)
			errs = append(errs, fmt.Errorf("contact %s: %w", c.Email, err))
			continue
		}
		sent++
	}
	if len(errs) > 0 {
		return sent, &DispatchError{Delivered: sent, Err: errors.Join(errs...)}
	}
	return sent, nil
}

// Connect dials the broker, retrying with exponential back-off. The client
// is disconnected when ctx is cancelled.
func Connect(ctx context.Context, cfg config.MQTT, log *logger.Logger) (mqtt.Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	addr := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(addr)
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		tok := client.Connect()
		tok.Wait()
		if err := tok.Error(); err != nil {
			log.Warnw("mqtt_connect_failed", "addr", addr, "err", err)
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, 4), ctx))
	if err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", addr, err)
	}
	log.Infow("mqtt_connected", "addr", addr)

	go func() {
		<-ctx.Done()
		client.Disconnect(250)
	}()
	return client, nil
}
