//go:build !unix

package worker

// runLoop falls back to the single-message receive loop where batched
// receive has no kernel-assisted implementation.
func runLoop(c *ThreadContext) {
	c.beginPopLoop()
}
