package adapters

import (
	"context"
	"sync"

	"agrimarket_backend/internal/feature/auth/domain/entity"
	"agrimarket_backend/internal/feature/auth/usecase"
)

// verificationMemory はプロセス内のmapで認証コードを保持するVerificationStoreです。
// 単一インスタンス構成やテストで使用します。
type verificationMemory struct {
	mu      sync.Mutex
	entries map[string]entity.VerificationEntry
}

var _ usecase.VerificationStore = (*verificationMemory)(nil)

func NewVerificationMemory() *verificationMemory {
	return &verificationMemory{entries: make(map[string]entity.VerificationEntry)}
}

func (s *verificationMemory) Put(_ context.Context, entry *entity.VerificationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Email] = *entry
	return nil
}

func (s *verificationMemory) Get(_ context.Context, email string) (*entity.VerificationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	if !ok {
		return nil, usecase.ErrVerificationNotFound
	}
	return &e, nil
}

func (s *verificationMemory) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
