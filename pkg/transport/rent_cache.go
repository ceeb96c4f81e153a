package transport

import "sync"

// RentCache 按账户大小缓存免租最低余额；该值只随集群参数变化，进程内缓存即可
type RentCache struct {
	mu     sync.RWMutex
	lamps  map[uint64]uint64
	hits   uint64
	misses uint64
}

func NewRentCache() *RentCache {
	return &RentCache{lamps: make(map[uint64]uint64)}
}

func (c *RentCache) Get(size uint64) (uint64, bool) {
	c.mu.RLock()
	v, ok := c.lamps[size]
	c.mu.RUnlock()

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	return v, ok
}

func (c *RentCache) Put(size, lamports uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lamps[size] = lamports
}

// Stats 命中 / 未命中次数
func (c *RentCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
