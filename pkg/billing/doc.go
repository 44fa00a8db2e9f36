// Package billing abstracts the payment provider behind a minimal
// interface: create a hosted checkout session, and authenticate and
// normalize incoming webhook events.
//
// Two implementations are provided. PolarProvider talks to the Polar
// REST API and verifies webhook deliveries per the Standard Webhooks
// specification. PaddleProvider wraps the official Paddle SDK and maps
// Paddle's event names onto the same normalized set, so the ingestion
// layer never branches on provider-specific types.
//
// Webhook payloads are decoded against known event shapes per event
// type. Unrecognized event types and malformed payload shapes fail
// closed to EventIgnored; only a failed signature check is an error.
//
// The Catalog type maps provider product ids to membership tiers and
// gates checkout creation on known products.
package billing
