// Package config loads runtime settings for the calendar aggregator.
//
// Settings are layered, later sources overriding earlier ones:
//
//  1. built-in defaults (Default)
//  2. an optional YAML file
//  3. variables from an optional .env file
//  4. CALAGG_* process environment variables
//
// Command-line flags are applied on top by the cli package.
package config
