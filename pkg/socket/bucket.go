package socket

// Bucket is a preallocated arena for batched receive: a fixed number of
// fixed-size payload slots plus one sender address per slot. VecRecv
// fills it in place; payloads returned by Peek alias the arena and are
// only valid until the next VecRecv call overwrites them.
type Bucket struct {
	payloads [][]byte
	addrs    []Addr
	lens     []int
	count    int
}

// NewBucket allocates a Bucket with capacity slots of slotSize bytes
// each.
func NewBucket(capacity, slotSize int) *Bucket {
	b := &Bucket{
		payloads: make([][]byte, capacity),
		addrs:    make([]Addr, capacity),
		lens:     make([]int, capacity),
	}
	for i := range b.payloads {
		b.payloads[i] = make([]byte, slotSize)
	}
	return b
}

// Capacity returns the number of slots in the bucket.
func (b *Bucket) Capacity() int {
	return len(b.payloads)
}

// Count returns how many slots were filled by the last VecRecv call.
func (b *Bucket) Count() int {
	return b.count
}

// Peek returns the sender address and received payload for slot i,
// where 0 <= i < Count(). The returned slice aliases the bucket's
// internal arena.
func (b *Bucket) Peek(i int) (Addr, []byte) {
	return b.addrs[i], b.payloads[i][:b.lens[i]]
}
