// Package config loads environment variables into typed configuration
// structs, reading an optional .env file first so local runs and containers
// behave the same.
package config
