package customer

import (
	"context"
	"errors"
	"log/slog"
)

// Service defines the customer access API exposed to server-side callers.
// Every operation is a plain request/response pair; mutations stamp
// UpdatedAt and never cascade into further side effects.
type Service interface {
	// GetByUserID returns the customer record for an external user id.
	GetByUserID(ctx context.Context, userID string) (*Customer, error)

	// GetByUserIDSafe is a convenience wrapper for page-facing callers.
	// It returns nil on any failure so an unavailable store degrades to
	// "no membership known" instead of crashing a render.
	GetByUserIDSafe(ctx context.Context, userID string) *Customer

	// GetByPolarCustomerID returns the record linked to a billing customer id.
	GetByPolarCustomerID(ctx context.Context, polarCustomerID string) (*Customer, error)

	// Create provisions a new record. An empty membership defaults to free.
	// Returns ErrCustomerAlreadyExists if the identity already has a record.
	Create(ctx context.Context, userID string, membership Membership) (*Customer, error)

	// UpdateByUserID patches only the supplied fields.
	// Returns ErrCustomerNotFound if no record matches.
	UpdateByUserID(ctx context.Context, userID string, upd Update) (*Customer, error)

	// UpdateByPolarCustomerID patches only the supplied fields.
	// Returns ErrCustomerNotFound if no record matches.
	UpdateByPolarCustomerID(ctx context.Context, polarCustomerID string, upd Update) (*Customer, error)

	// UpsertByUserID patches an existing record or inserts a new one.
	// This is the only operation safe for idempotent, identity-first
	// reconciliation; the webhook path must use it.
	UpsertByUserID(ctx context.Context, userID string, upd Update) (*Customer, error)

	// BillingData aggregates the customer record with the account email
	// resolved from the identity provider. All failures are soft: an
	// unreachable store yields a nil Customer, a failing resolver yields
	// empty emails.
	BillingData(ctx context.Context, userID string, resolve EmailResolver) BillingData
}

// EmailResolver resolves the account email for an external user identity.
// The identity provider is an external capability, so the concrete
// implementation is injected by the caller.
type EmailResolver func(ctx context.Context, userID string) (string, error)

// BillingData is the composite read used by billing settings pages.
// BillingEmail is only populated once the identity is linked to a
// billing customer.
type BillingData struct {
	Customer     *Customer
	AccountEmail string
	BillingEmail string
}

type service struct {
	store Store
	log   *slog.Logger
}

// NewService creates the customer access API on top of a Store.
// Panics on nil store to fail fast during initialization.
func NewService(store Store, log *slog.Logger) Service {
	if store == nil {
		panic("customer: store is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &service{store: store, log: log}
}

func (s *service) GetByUserID(ctx context.Context, userID string) (*Customer, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	return s.store.GetByUserID(ctx, userID)
}

func (s *service) GetByUserIDSafe(ctx context.Context, userID string) *Customer {
	c, err := s.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrCustomerNotFound) {
			s.log.WarnContext(ctx, "customer lookup failed",
				slog.String("user_id", userID), slog.Any("error", err))
		}
		return nil
	}
	return c
}

func (s *service) GetByPolarCustomerID(ctx context.Context, polarCustomerID string) (*Customer, error) {
	if polarCustomerID == "" {
		return nil, ErrMissingCustomerID
	}
	return s.store.GetByPolarCustomerID(ctx, polarCustomerID)
}

func (s *service) Create(ctx context.Context, userID string, membership Membership) (*Customer, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if membership == "" {
		membership = MembershipFree
	}
	if !membership.Valid() {
		return nil, ErrInvalidMembership
	}

	now := storeNow()
	c := &Customer{
		UserID:     userID,
		Membership: membership,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if err := validateUpdate(upd); err != nil {
		return nil, err
	}
	return s.store.UpdateByUserID(ctx, userID, upd)
}

func (s *service) UpdateByPolarCustomerID(ctx context.Context, polarCustomerID string, upd Update) (*Customer, error) {
	if polarCustomerID == "" {
		return nil, ErrMissingCustomerID
	}
	if err := validateUpdate(upd); err != nil {
		return nil, err
	}
	return s.store.UpdateByPolarCustomerID(ctx, polarCustomerID, upd)
}

func (s *service) UpsertByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if err := validateUpdate(upd); err != nil {
		return nil, err
	}
	return s.store.UpsertByUserID(ctx, userID, upd)
}

func (s *service) BillingData(ctx context.Context, userID string, resolve EmailResolver) BillingData {
	data := BillingData{
		Customer: s.GetByUserIDSafe(ctx, userID),
	}

	if resolve != nil {
		email, err := resolve(ctx, userID)
		if err != nil {
			s.log.WarnContext(ctx, "account email lookup failed",
				slog.String("user_id", userID), slog.Any("error", err))
		} else {
			data.AccountEmail = email
			if data.Customer != nil && data.Customer.PolarCustomerID != "" {
				data.BillingEmail = email
			}
		}
	}
	return data
}

func validateUpdate(upd Update) error {
	if upd.Membership != nil && !upd.Membership.Valid() {
		return ErrInvalidMembership
	}
	return nil
}
