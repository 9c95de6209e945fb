package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
)

type memoryFetchLogRepository struct {
	mu       sync.RWMutex
	attempts []entity.FetchAttempt // oldest first
	maxSize  int
}

// NewMemoryFetchLogRepository bounded in-memory fetch history
func NewMemoryFetchLogRepository(maxSize int) repository.FetchLogRepository {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &memoryFetchLogRepository{maxSize: maxSize}
}

// Record inserts a new attempt or updates the one with the same ID
func (m *memoryFetchLogRepository) Record(ctx context.Context, attempt entity.FetchAttempt) error {
	if attempt.ID == "" {
		return fmt.Errorf("fetch attempt without id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.attempts) - 1; i >= 0; i-- {
		if m.attempts[i].ID == attempt.ID {
			m.attempts[i] = attempt
			return nil
		}
	}

	m.attempts = append(m.attempts, attempt)
	if len(m.attempts) > m.maxSize {
		m.attempts = m.attempts[len(m.attempts)-m.maxSize:]
	}
	return nil
}

// History newest first
func (m *memoryFetchLogRepository) History(ctx context.Context, limit int) ([]entity.FetchAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.attempts)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entity.FetchAttempt, 0, n)
	for i := len(m.attempts) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.attempts[i])
	}
	return out, nil
}

// Last most recent attempt
func (m *memoryFetchLogRepository) Last(ctx context.Context) (*entity.FetchAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.attempts) == 0 {
		return nil, nil
	}
	last := m.attempts[len(m.attempts)-1]
	return &last, nil
}
