package gfx

import (
	"errors"

	"github.com/hubastard/gosu/engine/gfx/atlas"
)

// Returned errors.
var (
	// ErrTextureCreate wraps a device failure to create a texture.
	ErrTextureCreate = errors.New("gfx: texture creation failed")

	// ErrRegionOutOfBounds is returned when a source rectangle is not inside
	// its bitmap.
	ErrRegionOutOfBounds = errors.New("gfx: source region outside bitmap")

	// ErrAtlasInvariant is returned when a fresh texture cannot hold an
	// image that is within the maximum texture size.
	ErrAtlasInvariant = errors.New("gfx: fresh texture rejected allocation")

	// ErrNoSubimage is returned by Image.Subimage for tiled, recorded and
	// custom images.
	ErrNoSubimage = errors.New("gfx: image does not support subimages")
)

// Panic values (wrapped with context). These signal caller bugs.
var (
	ErrUnbalancedClip      = errors.New("gfx: unbalanced clip push/pop")
	ErrUnbalancedTransform = errors.New("gfx: unbalanced transform push/pop")
	ErrNestedFrame         = errors.New("gfx: frame already in progress")
	ErrNoFrame             = errors.New("gfx: no frame or recording in progress")
	ErrNestedRecording     = errors.New("gfx: recordings cannot be nested")
	ErrCodeInRecording     = errors.New("gfx: custom code cannot be recorded")
	ErrQueueBusy           = errors.New("gfx: queue modified while flushing")
	ErrInvalidBlock        = atlas.ErrInvalidBlock
)
