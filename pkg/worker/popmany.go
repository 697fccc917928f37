package worker

import "github.com/nilsen/quicd/pkg/socket"

// drainCapacity is how many datagrams a single batched receive call
// drains at most.
const drainCapacity = 8

// vecSlotSize is the payload size of each slot in the batched-receive
// bucket, matching popBufSize.
const vecSlotSize = 2048

// popManyFlushEvery controls how often the local packet accumulator is
// folded into the shared counter in the batched receive path. Lower
// than popFlushEvery because each successful call can account for up
// to drainCapacity datagrams at once.
const popManyFlushEvery = 10_000

// beginPopManyLoop is the batched receive loop: one recvmmsg(2) call
// can drain up to drainCapacity datagrams. Used on platforms where
// pkg/socket's VecRecv is backed by a real kernel primitive (Unix).
func (c *ThreadContext) beginPopManyLoop() {
	if c.handler == nil {
		panic("worker: no datagram handler set for ThreadContext")
	}

	bucket := socket.NewBucket(drainCapacity, vecSlotSize)
	c.makeReady()

	for c.running.Load() {
		count, err := c.socket.VecRecv(bucket)
		if err != nil {
			if socket.IsSoftError(err) {
				continue
			}
			c.logger.DebugMsg("%s: receive error: %s", c.name, err)
			return
		}

		for i := 0; i < count; i++ {
			addr, payload := bucket.Peek(i)
			c.handler(addr, payload)
		}

		c.c += uint64(count)
		if c.c >= popManyFlushEvery {
			c.flush(c.c)
		}
	}
}
