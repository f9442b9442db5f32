// Package bundle keeps captured state directories under a common root so
// they can be listed, compared and pruned.
package bundle

import "time"

// Summary is a lightweight view for listing bundles.
type Summary struct {
	Name     string    `json:"name"`
	Hash     string    `json:"hash"`
	User     string    `json:"user,omitempty"`
	Captured time.Time `json:"captured"`
	Path     string    `json:"path"`
}
