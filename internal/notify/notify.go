// Package notify dispatches SOS alerts to people and systems outside the
// portal.
package notify

import (
	"context"
	"errors"

	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

// Notifier sends one SOS alert to the given email recipients.
type Notifier interface {
	NotifySOS(ctx context.Context, alert *models.SOSAlert, recipients []string) error
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifySOS(ctx context.Context, alert *models.SOSAlert, recipients []string) error {
	var errList []error
	for _, n := range m {
		if err := n.NotifySOS(ctx, alert, recipients); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// Nop drops every alert.
type Nop struct{}

func (Nop) NotifySOS(context.Context, *models.SOSAlert, []string) error { return nil }
