package texture

import "volshade/pkg/transfer"

// Context abstracts the GPU calls the cache issues. Implementations wrap
// whatever GL binding the host application uses; tests substitute a
// recording fake.
type Context interface {
	// CreateTexture allocates a texture object and returns its handle.
	CreateTexture() uint32
	// DeleteTexture releases a texture object.
	DeleteTexture(id uint32)
	// BindTexture makes the texture current for upload and sampling.
	BindTexture(id uint32)
	// ActiveTexture selects the texture unit subsequent binds apply to.
	ActiveTexture(unit int)
	// TexImage uploads RGBA samples as a width x 1 texture, replacing any
	// prior allocation.
	TexImage(width int, data []byte)
	// MaxTextureSize returns the widest texture the device supports.
	MaxTextureSize() int
}

// Texture owns one GPU texture holding the rasterized transfer function.
// No unit is assigned at first; the owner must call SetUnit before the
// first upload, matching how the shader assigns sampler bindings.
type Texture struct {
	ctx  Context
	id   uint32
	unit int

	// prior is the deep-copied source state of the last upload, together
	// with the unit it went to. Nil until something has been uploaded.
	prior     Source
	priorUnit int
}

// New returns a texture cache with no GPU allocation and no unit assigned.
func New(ctx Context) *Texture {
	return &Texture{ctx: ctx, unit: -1}
}

// SetUnit assigns the texture unit uploads bind to.
func (t *Texture) SetUnit(unit int) { t.unit = unit }

// Unit returns the assigned texture unit, -1 when unset.
func (t *Texture) Unit() int { return t.unit }

// UpdateAndActivate makes the texture current on the assigned unit,
// uploading src's samples only when they differ from the previous upload.
// Equal state binds the existing texture without touching texture memory.
// It panics when no texture unit has been assigned; that is a wiring bug
// in the caller, not a runtime condition.
func (t *Texture) UpdateAndActivate(src Source) {
	if t.unit < 0 {
		panic("texture: texture unit is not set")
	}
	if t.id != 0 && t.prior != nil && t.priorUnit == t.unit && t.prior.Equal(src) {
		t.ctx.ActiveTexture(t.unit)
		t.ctx.BindTexture(t.id)
		return
	}
	if t.id == 0 {
		t.id = t.ctx.CreateTexture()
	}
	data := src.TableBytes(t.ctx.MaxTextureSize())
	t.ctx.ActiveTexture(t.unit)
	t.ctx.BindTexture(t.id)
	t.ctx.TexImage(len(data)/transfer.BytesPerSample, data)
	t.prior = src.Clone()
	t.priorUnit = t.unit
}

// Dispose releases the GPU texture and forgets the upload baseline. The
// texture can be reused afterwards; the next update reallocates.
func (t *Texture) Dispose() {
	if t.id != 0 {
		t.ctx.DeleteTexture(t.id)
		t.id = 0
	}
	t.prior = nil
}
