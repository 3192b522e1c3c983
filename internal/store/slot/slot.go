// Package slot provides single-slot durable stores.
//
// A slot holds at most one value. Absence is a normal state, not an
// error: Read on an empty slot returns nil bytes. The task pointer and
// the session record each own one slot.
package slot

// Slot is a single-value store with whole-value replacement semantics.
type Slot interface {
	// Read returns the stored value, or nil when the slot is empty.
	Read() ([]byte, error)
	// Write replaces the stored value wholesale.
	Write(data []byte) error
	// Clear empties the slot. Clearing an empty slot is a no-op.
	Clear() error
}
