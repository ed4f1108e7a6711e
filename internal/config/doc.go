// Package config defines the controller settings and helpers to load,
// validate and save them in YAML format.
//
// Validate fills every unset timing, pin and address with the defaults of
// the stock mechanism, so a minimal file only names what differs.
package config
