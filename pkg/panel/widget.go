package panel

import (
	"volshade/pkg/texture"
	"volshade/pkg/transfer"
)

// RedrawScheduler is the host's frame scheduler. RequestRedraw may be
// called many times per frame; the host coalesces the requests and calls
// Widget.Redraw once.
type RedrawScheduler interface {
	RequestRedraw()
}

// WidgetOptions configures a widget beyond the controller tunables.
type WidgetOptions struct {
	Controller Options
	// RasterizeOnUpload uploads from the control points directly,
	// rasterizing at upload time, instead of uploading the model's
	// lookup table. Hosts that sample per-point in their own shader
	// pipeline use this variant.
	RasterizeOnUpload bool
}

// Widget ties a transfer function to its texture and the host's frame
// scheduler. Model mutations request a redraw; the host answers with one
// Redraw per frame, which resolves to at most one texture upload however
// many mutations the frame batched.
type Widget struct {
	tf    *transfer.TransferFunction
	ctrl  *Controller
	tex   *texture.Texture
	sched RedrawScheduler
	opts  WidgetOptions
}

// NewWidget wires tf to tex and sched and returns the widget. A controller
// is created with the given options; reach it via Controller to bind the
// dispatcher.
func NewWidget(tf *transfer.TransferFunction, tex *texture.Texture, sched RedrawScheduler, opts WidgetOptions) *Widget {
	w := &Widget{
		tf:    tf,
		ctrl:  NewController(tf, opts.Controller),
		tex:   tex,
		sched: sched,
		opts:  opts,
	}
	tf.OnChange(sched.RequestRedraw)
	return w
}

// Controller returns the widget's gesture controller.
func (w *Widget) Controller() *Controller { return w.ctrl }

// Redraw uploads the current transfer function state and activates the
// texture. Unchanged state resolves to a bind without an upload.
func (w *Widget) Redraw() {
	var src texture.Source
	if w.opts.RasterizeOnUpload {
		src = &texture.ControlPointSource{
			Points: w.tf.ControlPoints(),
			Window: w.tf.Window(),
			Size:   w.tf.Lookup().Size(),
		}
	} else {
		src = &texture.LookupTableSource{Table: w.tf.Lookup()}
	}
	w.tex.UpdateAndActivate(src)
}

// Geometry lays out the current plot geometry over the model's window.
func (w *Widget) Geometry() PlotGeometry {
	return BuildPlotGeometry(w.tf.ControlPoints(), w.tf.Window())
}

// SamplerBinding returns what the host shader needs to sample the table:
// the texture unit and the highest table index. The shader clamps the
// normalized value to [0, 1], scales by maxIndex and fetches that texel.
func (w *Widget) SamplerBinding() (unit, maxIndex int) {
	return w.tex.Unit(), w.tf.Lookup().Size() - 1
}
