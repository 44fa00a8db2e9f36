// Package bridge is the HTTP surface of the billing bridge.
//
// It exposes four concerns on one router:
//
//   - POST /webhooks/billing: signed billing provider events, verified
//     and reconciled into the customer store via a Syncer
//   - POST /updateCustomer: the internal sync endpoint the webhook
//     handler uses when it runs in a separate execution context
//   - GET /checkout: hosted checkout creation for the signed-in caller
//   - GET /billing, /customers/*: read and provisioning endpoints for
//     server-side callers
//
// Reconciliation tolerates at-least-once, out-of-order webhook
// delivery: every mutation goes through the store's atomic upsert with
// last-write-wins semantics, and unattributable events are acknowledged
// and dropped rather than retried.
package bridge
