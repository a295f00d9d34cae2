package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	m "stitch.dev/pkg/stitch/internal/model"
)

func descriptor(name m.QualifiedName, deps ...m.QualifiedName) *m.StructureDescriptor {
	return &m.StructureDescriptor{
		QualifiedName: name,
		Dependencies:  deps,
	}
}

func TestHierarchyInsertRecordsDependenciesAsPending(t *testing.T) {
	h := NewHierarchy()
	h.Insert(descriptor("Billing\\Account", "Billing\\Ledger"))

	_, ok := h.Resolved("Billing\\Account")
	require.True(t, ok)

	require.True(t, h.Pending("Billing\\Ledger"))
	require.False(t, h.Complete())

	_, ok = h.Resolved("Billing\\Ledger")
	require.False(t, ok)
}

func TestHierarchyCompleteAfterDependencySupplied(t *testing.T) {
	h := NewHierarchy()
	h.Insert(descriptor("Billing\\Account", "Billing\\Ledger"))
	h.Insert(descriptor("Billing\\Ledger"))

	require.True(t, h.Complete())
	require.False(t, h.Pending("Billing\\Ledger"))
	require.Empty(t, h.Missing())

	ledger, ok := h.Resolved("Billing\\Ledger")
	require.True(t, ok)
	require.Equal(t, m.QualifiedName("Billing\\Ledger"), ledger.QualifiedName)
}

func TestHierarchyInsertResolvedDuplicateIsNoOp(t *testing.T) {
	h := NewHierarchy()

	first := descriptor("Billing\\Account", "Billing\\Ledger")
	h.Insert(first)
	h.Insert(descriptor("Billing\\Account", "Billing\\Tax"))

	got, ok := h.Resolved("Billing\\Account")
	require.True(t, ok)
	require.Same(t, first, got)

	// The duplicate was ignored entirely, including its dependencies.
	require.False(t, h.Pending("Billing\\Tax"))
	require.Equal(t, []m.QualifiedName{"Billing\\Ledger"}, h.Missing())
}

func TestHierarchyInsertUpgradesPendingToResolved(t *testing.T) {
	h := NewHierarchy()
	h.Insert(descriptor("Billing\\Account", "Billing\\Ledger"))
	h.Insert(descriptor("Billing\\Ledger", "Billing\\Journal"))

	require.False(t, h.Pending("Billing\\Ledger"))
	require.True(t, h.Pending("Billing\\Journal"))
	require.Equal(t, []m.QualifiedName{"Billing\\Journal"}, h.Missing())
}

func TestHierarchyPendingIsNotMembership(t *testing.T) {
	h := NewHierarchy()
	h.Insert(descriptor("Billing\\Account"))

	require.False(t, h.Pending("Billing\\Account"))
	require.False(t, h.Pending("Billing\\Unknown"))
}

func TestHierarchyEmptyIsComplete(t *testing.T) {
	h := NewHierarchy()

	require.True(t, h.Complete())
	require.Empty(t, h.Missing())
}

func TestHierarchyInsertNilIsNoOp(t *testing.T) {
	h := NewHierarchy()
	h.Insert(nil)

	require.True(t, h.Complete())
}

func TestHierarchyMissingFor(t *testing.T) {
	h := NewHierarchy()
	h.Insert(descriptor("App\\A", "App\\B", "App\\C"))
	h.Insert(descriptor("App\\B", "App\\D"))
	h.Insert(descriptor("App\\X", "App\\Y"))

	require.Equal(t, []m.QualifiedName{"App\\C", "App\\D"}, h.MissingFor("App\\A"))
	require.Equal(t, []m.QualifiedName{"App\\D"}, h.MissingFor("App\\B"))
	require.Equal(t, []m.QualifiedName{"App\\Y"}, h.MissingFor("App\\X"))
}

func TestHierarchyMissingForUnresolvedRoot(t *testing.T) {
	h := NewHierarchy()
	h.Insert(descriptor("App\\A", "App\\B"))

	// The root itself is pending; nothing below it can be walked.
	require.Empty(t, h.MissingFor("App\\B"))
	require.Empty(t, h.MissingFor("App\\Unknown"))
}

func TestHierarchyMissingForCycle(t *testing.T) {
	h := NewHierarchy()
	h.Insert(descriptor("App\\A", "App\\B"))
	h.Insert(descriptor("App\\B", "App\\A"))

	require.True(t, h.Complete())
	require.Empty(t, h.MissingFor("App\\A"))
	require.Empty(t, h.MissingFor("App\\B"))
}
