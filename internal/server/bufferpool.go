package server

import "sync"

// BufferPool hands out read buffers of one fixed size.
type BufferPool struct {
	size int
	pool sync.Pool
}

func NewBufferPool(size int) *BufferPool {
	p := &BufferPool{size: size}
	p.pool.New = func() interface{} {
		buf := make([]byte, size)
		return &buf
	}

	return p
}

// Get returns a buffer of exactly Size bytes. Its contents are whatever the
// previous user left there.
func (p *BufferPool) Get() []byte {
	buf := p.pool.Get().(*[]byte)
	return (*buf)[:p.size]
}

// Put returns a buffer to the pool. Buffers of a different capacity are left
// to the GC.
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) != p.size {
		return
	}

	buf = buf[:p.size]
	p.pool.Put(&buf)
}

func (p *BufferPool) Size() int {
	return p.size
}
