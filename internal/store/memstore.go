package store

import (
	"sync"

	"callbreak/internal/table"
)

type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: map[string]*table.Table{},
	}
}

func (m *MemoryStore) GetTable(code string) (*table.Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[code]
	return t, ok
}

func (m *MemoryStore) SaveTable(t *table.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.Code] = t
}

func (m *MemoryStore) DeleteTable(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, code)
}

func (m *MemoryStore) ListTables() []*table.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*table.Table, 0, len(m.tables))
	for _, t := range m.tables {
		out = append(out, t)
	}
	return out
}
