package customer

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore is an in-memory Store for tests and local development.
// It reproduces the store contract exactly: unique user ids, atomic
// upserts, first-match lookups and patch-only-supplied-fields updates.
type MemoryStore struct {
	mu      sync.Mutex
	records []*Customer
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) GetByUserID(ctx context.Context, userID string) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.records {
		if c.UserID == userID {
			return clone(c), nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *MemoryStore) GetByPolarCustomerID(ctx context.Context, polarCustomerID string) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.records {
		if c.PolarCustomerID != "" && c.PolarCustomerID == polarCustomerID {
			return clone(c), nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *MemoryStore) Insert(ctx context.Context, c *Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.UserID == c.UserID {
			return ErrCustomerAlreadyExists
		}
	}
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	s.records = append(s.records, clone(c))
	return nil
}

func (s *MemoryStore) UpdateByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.records {
		if c.UserID == userID {
			applyUpdate(c, upd)
			return clone(c), nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *MemoryStore) UpdateByPolarCustomerID(ctx context.Context, polarCustomerID string, upd Update) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.records {
		if c.PolarCustomerID != "" && c.PolarCustomerID == polarCustomerID {
			applyUpdate(c, upd)
			return clone(c), nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *MemoryStore) UpsertByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.records {
		if c.UserID == userID {
			applyUpdate(c, upd)
			return clone(c), nil
		}
	}

	now := storeNow()
	c := &Customer{
		ID:         bson.NewObjectID(),
		UserID:     userID,
		Membership: MembershipFree,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	applyUpdate(c, upd)
	s.records = append(s.records, c)
	return clone(c), nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func applyUpdate(c *Customer, upd Update) {
	if upd.Membership != nil {
		c.Membership = *upd.Membership
	}
	if upd.PolarCustomerID != nil {
		c.PolarCustomerID = *upd.PolarCustomerID
	}
	if upd.PolarSubscriptionID != nil {
		c.PolarSubscriptionID = *upd.PolarSubscriptionID
	}
	c.UpdatedAt = storeNow()
}

func clone(c *Customer) *Customer {
	dup := *c
	return &dup
}
