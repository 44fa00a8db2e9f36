// Package customer maintains the local mirror of billing membership for
// externally authenticated users.
//
// Each record links one stable external user id to the billing
// provider's customer and subscription ids and carries the current
// membership tier (free or pro). Records are created lazily, either by
// an explicit free-tier provisioning call or implicitly the first time
// a webhook reports a subscription for an unseen identity, and are
// never deleted: cancellation downgrades the tier in place.
//
// # Components
//
//   - Customer / Update: the record and its partial-patch shape
//   - Store: persistence contract; MongoStore is the MongoDB implementation
//   - Service: the access API with validation and soft read paths
//   - CachedService: optional Redis read cache around a Service
//
// The only concurrency-safe reconciliation primitive is UpsertByUserID,
// which MongoStore executes as a single atomic FindOneAndUpdate. The
// unique index on userId guarantees that two concurrent upserts for the
// same new identity produce exactly one record.
//
// # Usage
//
//	store := customer.NewMongoStore(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		log.Fatal(err)
//	}
//	svc := customer.NewService(store, logger)
//
//	pro := customer.MembershipPro
//	c, err := svc.UpsertByUserID(ctx, userID, customer.Update{
//		Membership:      &pro,
//		PolarCustomerID: &polarCustomerID,
//	})
package customer
