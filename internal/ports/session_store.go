package ports

import "freight-fulfillment-service/internal/domain"

// Holds allocation sessions between selections.
// Implementations store and return copies.
type SessionStore interface {
	Get(sessionID string) (*domain.AllocationSession, bool)
	GetByOrder(orderID int64) (*domain.AllocationSession, bool)
	Put(s *domain.AllocationSession)
	Delete(sessionID string)
}
