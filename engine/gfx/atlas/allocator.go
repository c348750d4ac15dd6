// Package atlas packs rectangles into one fixed-size square texture surface.
package atlas

import (
	"errors"
	"fmt"
)

// ErrInvalidBlock is the panic value (wrapped) for freeing a block that is
// not live on the allocator.
var ErrInvalidBlock = errors.New("atlas: block is not allocated")

// Default brute-force scan steps. They bound the scan cost of a full
// texture, the greedy slide afterwards recovers most of the lost tightness.
const (
	DefaultStepX = 8
	DefaultStepY = 16
)

// Block is an allocated rectangle in texture pixel space.
type Block struct {
	Left, Top, Width, Height int
}

func (b Block) Right() int  { return b.Left + b.Width }
func (b Block) Bottom() int { return b.Top + b.Height }

// Overlaps reports whether two blocks share at least one pixel.
func (b Block) Overlaps(o Block) bool {
	return b.Left < o.Right() && o.Left < b.Right() &&
		b.Top < o.Bottom() && o.Top < b.Bottom()
}

func (b Block) String() string {
	return fmt.Sprintf("Block(%d,%d %dx%d)", b.Left, b.Top, b.Width, b.Height)
}

// Allocator places blocks on a size x size surface. Failure to place is a
// normal outcome meaning "this texture is full for that size".
//
// Not safe for concurrent use.
type Allocator struct {
	size   int
	blocks []Block

	// Where the next search starts; right next to the previous block.
	hintX, hintY int

	// Requests larger than both are known to fail until the next Free.
	maxW, maxH int

	StepX, StepY int
}

func New(size int) *Allocator {
	return &Allocator{
		size:  size,
		maxW:  size,
		maxH:  size,
		StepX: DefaultStepX,
		StepY: DefaultStepY,
	}
}

func (a *Allocator) Size() int { return a.size }

// Len returns the number of live blocks.
func (a *Allocator) Len() int { return len(a.blocks) }

// Blocks returns a copy of the live blocks in allocation order.
func (a *Allocator) Blocks() []Block {
	out := make([]Block, len(a.blocks))
	copy(out, a.blocks)
	return out
}

// Alloc finds room for a width x height block.
func (a *Allocator) Alloc(width, height int) (Block, bool) {
	if width <= 0 || height <= 0 || width > a.size || height > a.size {
		return Block{}, false
	}
	if width > a.maxW && height > a.maxH {
		return Block{}, false
	}

	b := Block{Left: a.hintX, Top: a.hintY, Width: width, Height: height}
	if a.isFree(b) {
		a.markUsed(b)
		return b, true
	}

	stepX, stepY := max(a.StepX, 1), max(a.StepY, 1)
	for y := 0; y <= a.size-height; y += stepY {
		for x := 0; x <= a.size-width; x += stepX {
			b = Block{Left: x, Top: y, Width: width, Height: height}
			if !a.isFree(b) {
				continue
			}
			// Slide up, then left, while the spot stays free.
			for b.Top > 0 && a.isFree(Block{Left: b.Left, Top: b.Top - 1, Width: width, Height: height}) {
				b.Top--
			}
			for b.Left > 0 && a.isFree(Block{Left: b.Left - 1, Top: b.Top, Width: width, Height: height}) {
				b.Left--
			}
			a.markUsed(b)
			return b, true
		}
	}

	a.maxW, a.maxH = width-1, height-1
	return Block{}, false
}

// Free releases a live block. Freeing an unknown block is a caller bug and
// panics.
func (a *Allocator) Free(b Block) {
	for i, live := range a.blocks {
		if live == b {
			a.blocks = append(a.blocks[:i], a.blocks[i+1:]...)
			a.maxW, a.maxH = a.size, a.size
			return
		}
	}
	panic(fmt.Errorf("%w: %v", ErrInvalidBlock, b))
}

func (a *Allocator) isFree(b Block) bool {
	if b.Left < 0 || b.Top < 0 || b.Right() > a.size || b.Bottom() > a.size {
		return false
	}
	for _, live := range a.blocks {
		if live.Overlaps(b) {
			return false
		}
	}
	return true
}

func (a *Allocator) markUsed(b Block) {
	a.hintX = b.Right()
	a.hintY = b.Top
	if a.hintX+b.Width >= a.size {
		a.hintX = 0
		a.hintY = b.Bottom()
	}
	a.blocks = append(a.blocks, b)
}
