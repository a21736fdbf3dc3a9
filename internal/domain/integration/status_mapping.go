package integration

import (
	"fmt"
	"strings"

	"github.com/orderdesk/backend/internal/domain/order"
)

// StatusMapping is a data-driven translation table from one platform's
// status vocabulary to the canonical lifecycle. Keeping the tables as data
// rather than per-adapter code makes each platform's mapping testable in
// isolation.
type StatusMapping struct {
	platform order.Platform
	table    map[string]order.Status
}

// NewStatusMapping builds a mapping table for a platform
func NewStatusMapping(platform order.Platform, table map[string]order.Status) StatusMapping {
	normalized := make(map[string]order.Status, len(table))
	for src, dst := range table {
		normalized[strings.ToLower(src)] = dst
	}
	return StatusMapping{platform: platform, table: normalized}
}

// Platform returns the platform this mapping belongs to
func (m StatusMapping) Platform() order.Platform {
	return m.platform
}

// Resolve translates a source status. In lenient mode an unmapped source
// status falls back to pending, mirroring the upstream behavior; in strict
// mode it is rejected with ErrUnmappedSourceStatus.
func (m StatusMapping) Resolve(source string, strict bool) (order.Status, error) {
	if mapped, ok := m.table[strings.ToLower(strings.TrimSpace(source))]; ok {
		return mapped, nil
	}
	if strict {
		return "", fmt.Errorf("%w: %s status %q", ErrUnmappedSourceStatus, m.platform, source)
	}
	return order.StatusPending, nil
}

// Known reports whether the source status has an explicit mapping
func (m StatusMapping) Known(source string) bool {
	_, ok := m.table[strings.ToLower(strings.TrimSpace(source))]
	return ok
}
