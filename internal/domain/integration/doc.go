// Package integration defines the port interfaces between the canonical
// order model and the external marketplace platforms. Concrete adapters
// live in the infrastructure layer; this package only carries the
// platform-agnostic contracts (Ports & Adapters).
package integration
