package domain

import "context"

// Store is the durable storage contract for events and registrations.
// Every capacity-relevant mutation runs through WithinTx so that admission
// decisions and their writes share one atomic transaction.
type Store interface {
	// ListEventsWithCounts returns all events annotated with confirmed
	// counts and spots, ordered by start time ascending (ties by id).
	ListEventsWithCounts(ctx context.Context) ([]*EventWithCounts, error)
	// WithinTx runs fn inside a single transaction. The transaction is
	// rolled back when fn returns an error and committed otherwise; row
	// locks taken by fn are held until then.
	WithinTx(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx exposes the per-transaction operations the engines need. The
// *ForUpdate methods acquire exclusive row locks scoped to the transaction,
// serializing concurrent admissions against the same event.
type StoreTx interface {
	// GetEventForUpdate loads the event and locks its row until commit.
	GetEventForUpdate(ctx context.Context, eventID int64) (*Event, error)
	// GetRegistrationForUpdate loads the registration and locks its row.
	GetRegistrationForUpdate(ctx context.Context, id int64) (*Registration, error)
	// RegistrationExists reports whether a row exists for (event, email).
	RegistrationExists(ctx context.Context, eventID int64, email string) (bool, error)
	// ConfirmedCountForEvent counts CONFIRMED rows for the event.
	ConfirmedCountForEvent(ctx context.Context, eventID int64) (int, error)
	// ConfirmedCountForEmail counts CONFIRMED rows for the email across
	// all events.
	ConfirmedCountForEmail(ctx context.Context, email string) (int, error)
	// CreateRegistration inserts reg and sets its generated ID.
	CreateRegistration(ctx context.Context, reg *Registration) error
	// DeleteRegistration hard-deletes the row; ErrNotFound when absent.
	DeleteRegistration(ctx context.Context, id int64) error
	// WaitlistedByEmailForUpdate returns the email's WAITLIST rows across
	// all events ordered by created_at ascending (ties by id), locking
	// each row.
	WaitlistedByEmailForUpdate(ctx context.Context, email string) ([]*Registration, error)
	// SetRegistrationStatus updates the status of one registration.
	SetRegistrationStatus(ctx context.Context, id int64, status RegistrationStatus) error
}
