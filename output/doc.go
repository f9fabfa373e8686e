// Package output persists encoded feeds.
//
// A Writer stores named files either in a local directory (LocalWriter) or in
// a Google Cloud Storage bucket under a prefix (GCSWriter). NewWriter picks
// the bucket when one is configured and local disk otherwise; there is no
// fallback from one to the other.
//
// Publish writes the feed files in order and stops at the first failure,
// returning a *WriteError that names the target.
package output
