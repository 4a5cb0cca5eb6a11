// Package memo remembers scores of recently seen records.
//
// Scoring is a pure function of the record and the loaded artifact, so a
// remembered score is always the score a fresh call would produce.
package memo

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/okian/ecoscore/internal/domain/model"
	"github.com/okian/ecoscore/pkg/metrics"
)

// ComputeFunc produces the score for a record on a miss.
type ComputeFunc func(ctx context.Context, rec model.NormalizedRecord) (float64, error)

// node is one entry in the insertion-ordered list.
type node struct {
	key        string
	score      float64
	prev, next *node
}

// Memo is a bounded FIFO memo. Concurrent misses for the same record share
// one computation. Errors are never stored.
type Memo struct {
	mu      sync.Mutex
	entries map[string]*node
	head    *node // newest
	tail    *node // oldest
	maxSize int

	group singleflight.Group
}

// New creates a memo with configuration options.
func New(opts ...Option) *Memo {
	m := &Memo{maxSize: 10_000}
	for _, opt := range opts {
		opt(m)
	}
	m.entries = make(map[string]*node)
	return m
}

// Enabled reports whether the memo stores anything.
func (m *Memo) Enabled() bool { return m.maxSize > 0 }

// Get returns the score for rec, computing it with fn on a miss.
func (m *Memo) Get(ctx context.Context, rec model.NormalizedRecord, fn ComputeFunc) (float64, error) {
	if !m.Enabled() {
		return fn(ctx, rec)
	}

	key := Key(rec)
	if score, ok := m.lookup(key); ok {
		metrics.RecordMemoHit()
		return score, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		if score, ok := m.lookup(key); ok {
			return score, nil
		}
		metrics.RecordMemoMiss()
		score, err := fn(ctx, rec)
		if err != nil {
			return 0.0, err
		}
		m.store(key, score)
		return score, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// Len returns the number of remembered scores.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Purge forgets everything.
func (m *Memo) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*node)
	m.head, m.tail = nil, nil
	metrics.UpdateMemoEntries(0)
}

func (m *Memo) lookup(key string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.entries[key]
	if !ok {
		return 0, false
	}
	return n.score, true
}

func (m *Memo) store(key string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; exists {
		return
	}
	if len(m.entries) >= m.maxSize {
		m.evictOldest()
	}

	n := &node{key: key, score: score, next: m.head}
	if m.head != nil {
		m.head.prev = n
	}
	m.head = n
	if m.tail == nil {
		m.tail = n
	}
	m.entries[key] = n
	metrics.UpdateMemoEntries(len(m.entries))
}

// evictOldest drops the tail. Must be called with m.mu held.
func (m *Memo) evictOldest() {
	t := m.tail
	if t == nil {
		return
	}
	delete(m.entries, t.key)
	m.tail = t.prev
	if m.tail != nil {
		m.tail.next = nil
	} else {
		m.head = nil
	}
}

// Key encodes rec losslessly: float bits for numeric columns and
// length-prefixed strings for categorical ones.
func Key(rec model.NormalizedRecord) string {
	var b strings.Builder
	for _, v := range rec.Numeric {
		b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
		b.WriteByte('|')
	}
	for _, c := range rec.Categorical {
		b.WriteString(strconv.Itoa(len(c)))
		b.WriteByte(':')
		b.WriteString(c)
	}
	return b.String()
}
