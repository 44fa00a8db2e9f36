package customer

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Membership is the subscription tier a customer holds.
type Membership string

const (
	MembershipFree Membership = "free"
	MembershipPro  Membership = "pro"
)

// Valid reports whether m is a known membership tier.
func (m Membership) Valid() bool {
	switch m {
	case MembershipFree, MembershipPro:
		return true
	}
	return false
}

// Customer links an external identity to the billing provider's customer
// and subscription records, and mirrors the membership tier locally so
// page renders never depend on the billing provider being reachable.
//
// UserID is the stable identifier issued by the identity provider and is
// unique per customer. PolarCustomerID is set once a checkout links the
// identity to a billing customer; PolarSubscriptionID is set while a
// subscription is known.
type Customer struct {
	ID                  bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              string        `bson:"userId" json:"userId"`
	Membership          Membership    `bson:"membership" json:"membership"`
	PolarCustomerID     string        `bson:"polarCustomerId,omitempty" json:"polarCustomerId,omitempty"`
	PolarSubscriptionID string        `bson:"polarSubscriptionId,omitempty" json:"polarSubscriptionId,omitempty"`
	CreatedAt           time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// IsPro reports whether the customer currently holds the paid tier.
func (c *Customer) IsPro() bool {
	return c.Membership == MembershipPro
}

// Update carries the patchable customer fields. Nil pointers leave the
// stored value untouched, so a cancellation that only downgrades the
// membership does not clear the linked subscription id.
type Update struct {
	Membership          *Membership
	PolarCustomerID     *string
	PolarSubscriptionID *string
}

// IsZero reports whether the update patches nothing.
func (u Update) IsZero() bool {
	return u.Membership == nil && u.PolarCustomerID == nil && u.PolarSubscriptionID == nil
}
