package notify

import (
	"context"

	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/models"
)

// LogDispatcher writes one structured entry per contact instead of sending
// mail. It is the default driver.
type LogDispatcher struct {
	log *logger.Logger
}

func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Notify(ctx context.Context, a models.Alert, contacts []models.Contact) (int, error) {
	sent := 0
	for _, c := range contacts {
		if err := ctx.Err(); err != nil {
			return sent, &DispatchError{Delivered: sent, Err: err}
		}
		d.log.Infow("alert_notification",
			"alert_id", a.ID,
			"severity", string(a.Severity),
			"title", a.Title,
			"message", a.Message,
			"contact", c.Name,
			"email", c.Email,
			"phone", c.Phone,
		)
		sent++
	}
	return sent, nil
}
