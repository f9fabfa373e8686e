// Package config loads and validates the application configuration.
//
// Values come from three layers, later ones winning:
//   - Defaults()
//   - a yaml file (config.yml unless another path is given)
//   - environment variables, after loading .env when present
//
// The result is validated with struct tags and returned as a value; there is
// no package-level state.
//
// Example config.yml:
//
//	api:
//	  baseURL: https://api-v3.mbta.com
//	  timeoutMS: 30000
//	output:
//	  bucket: my-feeds
//	  prefix: mbta
//	converter:
//	  timezone: America/New_York
//	  mergePolicy: latest
package config
