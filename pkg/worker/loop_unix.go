//go:build unix

package worker

// runLoop picks the batched receive loop on Unix-class platforms.
func runLoop(c *ThreadContext) {
	c.beginPopManyLoop()
}
