package notify

import (
	"context"
	"fmt"

	"farmtech_irrigation/internal/models"
)

// Dispatcher delivers an alert to the given contacts and returns how many
// were reached. The count never exceeds len(contacts); an empty list is 0
// with no error.
type Dispatcher interface {
	Notify(ctx context.Context, alert models.Alert, contacts []models.Contact) (int, error)
}

// DispatchError reports a partial or total delivery failure.
type DispatchError struct {
	Delivered int
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch: %d delivered: %v", e.Delivered, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
