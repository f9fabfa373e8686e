// Package transit holds the domain model shared by the alert source, the
// cancellation resolver and the feed formatter.
//
// Every type here is a plain value. Nothing is cached or persisted between
// runs: each feed is recomputed from the alerts that are active right now.
package transit
