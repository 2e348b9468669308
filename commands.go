package present

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// submission is a frame the GPU may still be executing.
type submission struct {
	index uint64
	cmd   hal.CommandBuffer
	view  hal.TextureView
}

// commandContext records frames on one reusable encoder and keeps every
// submitted command buffer and back buffer view alive until the queue
// reports the submission complete.
type commandContext struct {
	device   hal.Device
	queue    hal.Queue
	encoder  hal.CommandEncoder
	inFlight []submission
}

func newCommandContext(device hal.Device, queue hal.Queue) (*commandContext, error) {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "present.frame_encoder",
	})
	if err != nil {
		return nil, err
	}
	return &commandContext{device: device, queue: queue, encoder: encoder}, nil
}

// begin starts recording a frame.
func (c *commandContext) begin() error {
	if err := c.encoder.BeginEncoding("present.frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	return nil
}

// discard abandons the frame being recorded.
func (c *commandContext) discard() {
	c.encoder.DiscardEncoding()
}

// submit finishes recording and queues the frame.
func (c *commandContext) submit() (submission, error) {
	cmd, err := c.encoder.EndEncoding()
	if err != nil {
		return submission{}, fmt.Errorf("end encoding: %w", err)
	}
	index, err := c.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		c.device.FreeCommandBuffer(cmd)
		return submission{}, fmt.Errorf("submit: %w", err)
	}
	return submission{index: index, cmd: cmd}, nil
}

// track keeps s alive until its submission completes.
func (c *commandContext) track(s submission) {
	c.inFlight = append(c.inFlight, s)
}

// retire frees every tracked frame the queue has finished.
func (c *commandContext) retire() {
	done := c.queue.PollCompleted()
	kept := c.inFlight[:0]
	for _, s := range c.inFlight {
		if s.index > done {
			kept = append(kept, s)
			continue
		}
		c.free(s)
	}
	clear(c.inFlight[len(kept):])
	c.inFlight = kept
}

// drain waits for the device to go idle and frees every tracked frame.
func (c *commandContext) drain() error {
	err := c.device.WaitIdle()
	for _, s := range c.inFlight {
		c.free(s)
	}
	c.inFlight = nil
	return err
}

func (c *commandContext) free(s submission) {
	if s.cmd != nil {
		c.device.FreeCommandBuffer(s.cmd)
	}
	if s.view != nil {
		c.device.DestroyTextureView(s.view)
	}
}

// release frees the tracked frames and destroys the encoder. The device
// must already be idle.
func (c *commandContext) release() {
	for _, s := range c.inFlight {
		c.free(s)
	}
	c.inFlight = nil
	c.encoder.Destroy()
}
