package collector

import "sync"

// MemStore keeps records in memory.
type MemStore struct {
	mu      sync.Mutex
	records []MerchantRecord
	closed  bool
}

func (m *MemStore) Save(records ...MerchantRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Records returns a copy of the saved records.
func (m *MemStore) Records() []MerchantRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MerchantRecord, len(m.records))
	copy(out, m.records)
	return out
}

func (m *MemStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
