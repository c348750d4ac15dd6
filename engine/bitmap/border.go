package bitmap

import "image"

// Edges marks which sides of an image tile seamlessly.
type Edges struct {
	Left, Top, Right, Bottom bool
}

// WithBorder copies the r region of src into a new bitmap that is two pixels
// wider and taller. Tileable edges repeat the outermost source row or column
// into the border so linear filtering keeps them hard; the other border
// pixels, and all four corners, stay transparent.
func WithBorder(src *Bitmap, r image.Rectangle, e Edges) *Bitmap {
	w, h := r.Dx(), r.Dy()
	dst := New(w+2, h+2)

	if e.Top {
		dst.InsertRect(src, 1, 0, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1))
	}
	if e.Bottom {
		dst.InsertRect(src, 1, h+1, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y))
	}
	if e.Left {
		dst.InsertRect(src, 0, 1, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y))
	}
	if e.Right {
		dst.InsertRect(src, w+1, 1, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y))
	}
	dst.InsertRect(src, 1, 1, r)
	return dst
}
