package slot

import "sync"

// MemorySlot is an in-memory Slot for unit tests.
type MemorySlot struct {
	mu      sync.Mutex
	data    []byte
	present bool

	// ReadErr and WriteErr force failures for error-path tests.
	ReadErr  error
	WriteErr error
}

// Read returns the stored value, or nil when empty.
func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if !s.present {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Write replaces the stored value.
func (s *MemorySlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.present = true
	return nil
}

// Clear empties the slot.
func (s *MemorySlot) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.present = false
	return nil
}
