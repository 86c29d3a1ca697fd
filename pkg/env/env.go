// Package env reads raw process environment values. It exists so the logger
// can read LOG_FORMAT without importing config, which itself logs.
package env

import "os"

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
