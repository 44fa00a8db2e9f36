package customer

import "context"

// Store defines the persistence contract for customer records.
// The collection is indexed for two access patterns: exact-match lookup
// by external user id and exact-match lookup by billing customer id.
// Both lookups return at most one record; duplicates are a tolerated
// anomaly resolved as first-match, not an error.
type Store interface {
	// GetByUserID returns the record for an external user id.
	// Returns ErrCustomerNotFound if no record matches.
	GetByUserID(ctx context.Context, userID string) (*Customer, error)

	// GetByPolarCustomerID returns the record linked to a billing customer id.
	// Returns ErrCustomerNotFound if no record matches.
	GetByPolarCustomerID(ctx context.Context, polarCustomerID string) (*Customer, error)

	// Insert stores a new record. Returns ErrCustomerAlreadyExists when a
	// record with the same user id is already present.
	Insert(ctx context.Context, c *Customer) error

	// UpdateByUserID patches only the supplied fields and stamps UpdatedAt.
	// Returns the updated record, or ErrCustomerNotFound if no record matches.
	UpdateByUserID(ctx context.Context, userID string, upd Update) (*Customer, error)

	// UpdateByPolarCustomerID patches only the supplied fields and stamps
	// UpdatedAt. Returns ErrCustomerNotFound if no record matches.
	UpdateByPolarCustomerID(ctx context.Context, polarCustomerID string, upd Update) (*Customer, error)

	// UpsertByUserID patches an existing record or inserts a new one with
	// Membership defaulted to free when the update does not set it.
	// The implementation must execute this as a single atomic
	// read-modify-write so concurrent upserts for the same new user id
	// cannot both insert.
	UpsertByUserID(ctx context.Context, userID string, upd Update) (*Customer, error)
}
