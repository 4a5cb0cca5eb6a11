package memo

// Option applies a configuration option to the Memo.
type Option func(*Memo)

// WithMaxSize sets the maximum number of scores to keep.
// If maxSize <= 0 the memo is disabled and every lookup computes.
func WithMaxSize(maxSize int) Option {
	return func(m *Memo) {
		m.maxSize = maxSize
	}
}
