package fsm

import "iter"

// Hashable is a key of HashMap.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// HashMap is a chained hash table keyed by Hashable values. Iteration follows
// insertion order, which keeps every construction that enumerates it
// reproducible.
type HashMap[T any] struct {
	buckets     []*Entry[T]
	order       []*Entry[T]
	size        int
	mask        uint64
	emptyValue  T
	loadFactory float64
}

// Entry is one key/value pair of a HashMap.
type Entry[T any] struct {
	key     Hashable
	value   T
	next    *Entry[T]
	deleted bool
}

type optionsHashMap struct {
	capacity    int
	loadFactory float64
}

func newOptionsHashMap(opts ...OptionsHashMap) *optionsHashMap {
	options := &optionsHashMap{
		capacity:    1,
		loadFactory: 0.75,
	}

	for _, opt := range opts {
		opt(options)
	}

	realCap := 1
	for realCap < options.capacity {
		realCap <<= 1
	}
	options.capacity = realCap

	return options
}

type OptionsHashMap func(hashMap *optionsHashMap)

func WithCapacity(capacity int) OptionsHashMap {
	return func(hashMap *optionsHashMap) {
		hashMap.capacity = capacity
	}
}

func WithLoadFactory(loadFactory float64) OptionsHashMap {
	return func(hashMap *optionsHashMap) {
		hashMap.loadFactory = loadFactory
	}
}

// NewHashMap creates a map whose bucket count is the capacity rounded up to a
// power of two.
func NewHashMap[T any](options ...OptionsHashMap) *HashMap[T] {
	opt := newOptionsHashMap(options...)

	return &HashMap[T]{
		buckets:     make([]*Entry[T], opt.capacity),
		mask:        uint64(opt.capacity - 1),
		loadFactory: opt.loadFactory,
	}
}

// Set inserts or replaces the value of key.
func (m *HashMap[T]) Set(key Hashable, value T) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}

	e := &Entry[T]{
		key:   key,
		value: value,
		next:  m.buckets[index],
	}
	m.buckets[index] = e
	m.order = append(m.order, e)
	m.size++

	if float64(m.size)/float64(len(m.buckets)) > m.loadFactory {
		m.resize()
	}
}

// Get returns the value of key and whether it is present.
func (m *HashMap[T]) Get(key Hashable) (T, bool) {
	index := key.Hash() & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	return m.emptyValue, false
}

// Delete removes key if present.
func (m *HashMap[T]) Delete(key Hashable) {
	index := key.Hash() & m.mask

	var prev *Entry[T]
	for e := m.buckets[index]; e != nil; prev, e = e, e.next {
		if e.key.Equals(key) {
			if prev == nil {
				m.buckets[index] = e.next
			} else {
				prev.next = e.next
			}
			e.deleted = true
			m.size--
			return
		}
	}
}

// resize doubles the bucket array, relinking the existing entries so that the
// insertion order slice stays valid.
func (m *HashMap[T]) resize() {
	newCap := len(m.buckets) << 1
	newBuckets := make([]*Entry[T], newCap)
	newMask := uint64(newCap - 1)

	live := m.order[:0]
	for _, e := range m.order {
		if e.deleted {
			continue
		}
		index := e.key.Hash() & newMask
		e.next = newBuckets[index]
		newBuckets[index] = e
		live = append(live, e)
	}

	m.order = live
	m.buckets = newBuckets
	m.mask = newMask
}

// Size returns the number of entries.
func (m *HashMap[T]) Size() int {
	return m.size
}

// Iterator yields the entries in insertion order.
func (m *HashMap[T]) Iterator() iter.Seq2[Hashable, T] {
	return func(yield func(Hashable, T) bool) {
		for _, e := range m.order {
			if e.deleted {
				continue
			}
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}
