package cache

import (
	"container/list"
	"sync"
)

// Memory is a bounded, least-recently-used set of renderings kept in process.
// It sits in front of the sqlite store so watch mode can skip a disk hit when
// a file is saved without changes.
type Memory struct {
	mu       sync.Mutex
	capacity int
	items    map[Key]*list.Element
	order    *list.List // front = most recently used
}

// NewMemory returns a cache holding up to capacity entries. Capacity <= 0 is
// normalised to 1.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		capacity: capacity,
		items:    make(map[Key]*list.Element, capacity),
		order:    list.New(),
	}
}

func (m *Memory) Get(key Key) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return Entry{}, false
	}
	m.order.MoveToFront(el)
	return el.Value.(Entry), true
}

func (m *Memory) Put(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[entry.Key]; ok {
		el.Value = entry
		m.order.MoveToFront(el)
		return
	}

	if m.order.Len() >= m.capacity {
		if back := m.order.Back(); back != nil {
			m.order.Remove(back)
			delete(m.items, back.Value.(Entry).Key)
		}
	}
	m.items[entry.Key] = m.order.PushFront(entry)
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
