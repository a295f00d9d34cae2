package domain

import (
	"sort"

	m "stitch.dev/pkg/stitch/internal/model"
)

// hierarchyEntry is the tagged state of one qualified name: either resolved
// with its descriptor, or a pending placeholder meaning "known to be
// required, not yet supplied".
type hierarchyEntry struct {
	resolved   bool
	descriptor *m.StructureDescriptor
}

// Hierarchy tracks which structures a given structure transitively depends
// on and answers when that dependency set is fully resolved. All operations
// are total; there is no failure path.
//
// The Hierarchy has no internal locking. Callers sharing one instance across
// goroutines own that discipline.
type Hierarchy struct {
	entries map[m.QualifiedName]hierarchyEntry
}

// NewHierarchy creates an empty Hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{entries: make(map[m.QualifiedName]hierarchyEntry)}
}

// Insert stores the descriptor as resolved and records every dependency name
// not already present as pending. Inserting an already-resolved name is a
// no-op.
func (h *Hierarchy) Insert(descriptor *m.StructureDescriptor) {
	if descriptor == nil {
		return
	}

	if entry, ok := h.entries[descriptor.QualifiedName]; ok && entry.resolved {
		return
	}

	h.entries[descriptor.QualifiedName] = hierarchyEntry{resolved: true, descriptor: descriptor}

	for _, dep := range descriptor.Dependencies {
		if _, ok := h.entries[dep]; ok {
			continue
		}

		h.entries[dep] = hierarchyEntry{}
	}
}

// Resolved returns the descriptor for name only when the name is present and
// not pending.
func (h *Hierarchy) Resolved(name m.QualifiedName) (*m.StructureDescriptor, bool) {
	entry, ok := h.entries[name]
	if !ok || !entry.resolved {
		return nil, false
	}

	return entry.descriptor, true
}

// Pending reports whether name is a known-but-unresolved dependency. This is
// deliberately not a general membership check: unknown names report false.
func (h *Hierarchy) Pending(name m.QualifiedName) bool {
	entry, ok := h.entries[name]

	return ok && !entry.resolved
}

// Complete reports whether every stored entry is resolved.
func (h *Hierarchy) Complete() bool {
	for _, entry := range h.entries {
		if !entry.resolved {
			return false
		}
	}

	return true
}

// Missing returns the pending names in sorted order. Used for reporting which
// descriptors still have to be supplied.
func (h *Hierarchy) Missing() []m.QualifiedName {
	var missing []m.QualifiedName

	for name, entry := range h.entries {
		if !entry.resolved {
			missing = append(missing, name)
		}
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	return missing
}

// MissingFor returns the unresolved names in the transitive dependency
// closure of the given structure, in sorted order. An empty result means the
// closure needed to weave the structure is fully supplied.
func (h *Hierarchy) MissingFor(name m.QualifiedName) []m.QualifiedName {
	seen := make(map[m.QualifiedName]bool)

	var missing []m.QualifiedName

	var visit func(m.QualifiedName)
	visit = func(n m.QualifiedName) {
		if seen[n] {
			return
		}

		seen[n] = true

		entry, ok := h.entries[n]
		if !ok || !entry.resolved {
			missing = append(missing, n)
			return
		}

		for _, dep := range entry.descriptor.Dependencies {
			visit(dep)
		}
	}

	entry, ok := h.entries[name]
	if ok && entry.resolved {
		for _, dep := range entry.descriptor.Dependencies {
			visit(dep)
		}
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	return missing
}
