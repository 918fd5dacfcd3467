package pools

import (
	"sync"
)

// VIDPool pools slices of uint32 vertex/edge-offset identifiers, used by the
// Matrix Market reader while it accumulates a row's neighbor list and by the
// serial reference BFS while it grows its queue.
type VIDPool struct {
	small  sync.Pool // <= 16 elements
	medium sync.Pool // <= 64 elements
	large  sync.Pool // <= 256 elements
}

// NewVIDPool creates a new uint32 slice pool.
func NewVIDPool() *VIDPool {
	return &VIDPool{
		small: sync.Pool{
			New: func() any {
				s := make([]uint32, 0, 16)
				return &s
			},
		},
		medium: sync.Pool{
			New: func() any {
				s := make([]uint32, 0, 64)
				return &s
			},
		},
		large: sync.Pool{
			New: func() any {
				s := make([]uint32, 0, 256)
				return &s
			},
		},
	}
}

// Get returns a uint32 slice with at least the requested capacity.
func (p *VIDPool) Get(size int) []uint32 {
	var pool *sync.Pool
	switch {
	case size <= 16:
		pool = &p.small
	case size <= 64:
		pool = &p.medium
	case size <= 256:
		pool = &p.large
	default:
		return make([]uint32, 0, size)
	}

	sp, ok := pool.Get().(*[]uint32)
	if !ok || cap(*sp) < size {
		return make([]uint32, 0, size)
	}
	return (*sp)[:0]
}

// Put returns a uint32 slice to the pool.
func (p *VIDPool) Put(s []uint32) {
	c := cap(s)
	if c > 10000 {
		return // Don't pool very large slices
	}

	s = s[:0]

	var pool *sync.Pool
	switch {
	case c <= 16:
		pool = &p.small
	case c <= 64:
		pool = &p.medium
	case c <= 256:
		pool = &p.large
	default:
		return
	}

	pool.Put(&s)
}

// Default global VID pool
var defaultVIDPool = NewVIDPool()

// GetVIDs returns a uint32 slice from the default pool.
func GetVIDs(size int) []uint32 {
	return defaultVIDPool.Get(size)
}

// PutVIDs returns a uint32 slice to the default pool.
func PutVIDs(s []uint32) {
	defaultVIDPool.Put(s)
}
