package graphgo

// Close releases the backend. Node handles of a closed store return
// ErrClosed. Close is idempotent.
func (s *Store) Close() error {
	if s == nil || s.closed.Swap(true) {
		return nil
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("close failed", "error", err)
		return translateError(err)
	}
	return nil
}
