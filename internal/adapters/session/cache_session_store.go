package session

import (
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheSessionStore keeps allocation sessions in a TTL cache.
// Each session is indexed twice: by session id and by "order:<id>".
type CacheSessionStore struct {
	c   *cache.Cache
	ttl time.Duration
}

var _ ports.SessionStore = (*CacheSessionStore)(nil)

func NewCacheSessionStore(ttl time.Duration) *CacheSessionStore {
	return &CacheSessionStore{c: cache.New(ttl, 2*ttl), ttl: ttl}
}

func orderKey(orderID int64) string {
	return "order:" + strconv.FormatInt(orderID, 10)
}

func (s *CacheSessionStore) Get(sessionID string) (*domain.AllocationSession, bool) {
	v, ok := s.c.Get(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*domain.AllocationSession).Clone(), true
}

func (s *CacheSessionStore) GetByOrder(orderID int64) (*domain.AllocationSession, bool) {
	v, ok := s.c.Get(orderKey(orderID))
	if !ok {
		return nil, false
	}
	return s.Get(v.(string))
}

func (s *CacheSessionStore) Put(sess *domain.AllocationSession) {
	s.c.Set(sess.SessionID, sess.Clone(), s.ttl)
	s.c.Set(orderKey(sess.Order.OrderID), sess.SessionID, s.ttl)
}

func (s *CacheSessionStore) Delete(sessionID string) {
	v, ok := s.c.Get(sessionID)
	if ok {
		sess := v.(*domain.AllocationSession)
		if cur, ok := s.c.Get(orderKey(sess.Order.OrderID)); ok && cur.(string) == sessionID {
			s.c.Delete(orderKey(sess.Order.OrderID))
		}
	}
	s.c.Delete(sessionID)
}
