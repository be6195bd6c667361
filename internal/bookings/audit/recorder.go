// Package audit builds the progress-history entries embedded in every
// booking document. Entries ride along in the same write as the booking
// itself, so a persisted state change always carries its trail entry.
package audit

import (
	"time"

	"github.com/google/uuid"

	"travelwindow/pkg/model"
)

// Actions recorded on the progress trail.
const (
	ActionCreated            = "created"
	ActionUpdated            = "updated"
	ActionSubmitted          = "submitted"
	ActionVerifiedByAccount  = "verified_by_account"
	ActionVerifiedByAdmin    = "verified_by_admin"
	ActionDateChanged        = "date_changed"
	ActionFlightChanged      = "flight_changed"
	ActionSeatBooked         = "seat_booked"
	ActionCancelled          = "cancelled"
	ActionRefundProcessed    = "refund_processed"
	ActionCancellationRevert = "cancellation_reverted"
	ActionAssigned           = "assigned"
)

// NewEntry builds a trail entry stamped with a fresh id and the current
// time. Changes may be nil when the action carries no field diff.
func NewEntry(action string, actor model.Actor, changes map[string]any, remarks string) model.ProgressHistoryEntry {
	return model.ProgressHistoryEntry{
		ID:              uuid.NewString(),
		Action:          action,
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		Timestamp:       time.Now().UTC(),
		Changes:         changes,
		Remarks:         remarks,
	}
}

// Record prepends an entry so the trail reads most recent first.
func Record(b *model.Booking, action string, actor model.Actor, changes map[string]any, remarks string) {
	entry := NewEntry(action, actor, changes, remarks)
	b.ProgressHistory = append([]model.ProgressHistoryEntry{entry}, b.ProgressHistory...)
}
