package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"volshade/pkg/scalar"
)

// ErrInvalidWindow is returned when a window's bounds are equal or
// descending. Such a window cannot be inverse-lerped against.
var ErrInvalidWindow = errors.New("transfer: window bounds must be distinct and ascending")

// Parameters is the externally observable state of one transfer function:
// its control points, the window the plot and lookup table span, the channel
// the function applies to, and the color newly placed points receive.
type Parameters struct {
	ControlPoints *SortedControlPoints
	Window        scalar.Interval
	Channel       []int
	DefaultColor  colorful.Color
}

// DefaultParameters returns the canonical starting state for dt: a
// transparent-to-white ramp across the type's default range, with the
// window matching that range.
func DefaultParameters(dt scalar.DataType) *Parameters {
	cps := NewSortedControlPoints(dt)
	rng := dt.DefaultRange()
	cps.SetDefaultPoints(rng, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return &Parameters{
		ControlPoints: cps,
		Window:        rng,
		Channel:       []int{},
		DefaultColor:  colorful.Color{R: 1, G: 1, B: 1},
	}
}

// Copy returns a deep copy sharing no state with the original.
func (p *Parameters) Copy() *Parameters {
	c := &Parameters{
		ControlPoints: p.ControlPoints.Copy(),
		Window:        p.Window,
		Channel:       make([]int, len(p.Channel)),
		DefaultColor:  p.DefaultColor,
	}
	copy(c.Channel, p.Channel)
	return c
}

// Equal reports whether both parameter sets describe the same state.
func (p *Parameters) Equal(o *Parameters) bool {
	if p.Window != o.Window || p.DefaultColor != o.DefaultColor {
		return false
	}
	if len(p.Channel) != len(o.Channel) {
		return false
	}
	for i := range p.Channel {
		if p.Channel[i] != o.Channel[i] {
			return false
		}
	}
	return p.ControlPoints.Equal(o.ControlPoints)
}

// MarshalJSON encodes the parameters in the interchange form
//
//	{"controlPoints": [[value, "#rrggbb", alpha], ...],
//	 "window": [lo, hi], "channel": [...], "defaultColor": "#rrggbb"}
//
// where alpha is the point's opacity in [0, 1].
func (p *Parameters) MarshalJSON() ([]byte, error) {
	points := p.ControlPoints.Points()
	cps := make([][3]any, len(points))
	for i, cp := range points {
		hex := colorful.Color{
			R: float64(cp.Color.R) / 255,
			G: float64(cp.Color.G) / 255,
			B: float64(cp.Color.B) / 255,
		}.Hex()
		cps[i] = [3]any{cp.Input, hex, float64(cp.Color.A) / 255}
	}
	channel := p.Channel
	if channel == nil {
		channel = []int{}
	}
	return json.Marshal(struct {
		ControlPoints [][3]any        `json:"controlPoints"`
		Window        scalar.Interval `json:"window"`
		Channel       []int           `json:"channel"`
		DefaultColor  string          `json:"defaultColor"`
	}{cps, p.Window, channel, p.DefaultColor.Hex()})
}

// ParseParameters decodes data into parameters for the given data type.
// Absent fields take their defaults: the window falls back to the range
// spanned by the parsed points and the default color to white. Control
// point values parse in the data type's own domain, so uint64 keeps full
// 64-bit precision.
func ParseParameters(dt scalar.DataType, data []byte) (*Parameters, error) {
	var raw struct {
		ControlPoints []json.RawMessage `json:"controlPoints"`
		Window        json.RawMessage   `json:"window"`
		Channel       []int             `json:"channel"`
		DefaultColor  string            `json:"defaultColor"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("transfer: parse parameters: %w", err)
	}

	cps := NewSortedControlPoints(dt)
	for i, rawPoint := range raw.ControlPoints {
		cp, err := parseControlPoint(dt, rawPoint)
		if err != nil {
			return nil, fmt.Errorf("transfer: control point %d: %w", i, err)
		}
		cps.AddPoint(cp)
	}

	window := cps.Range()
	if len(raw.Window) > 0 {
		iv, err := scalar.ParseInterval(dt, raw.Window)
		if err != nil {
			return nil, fmt.Errorf("transfer: parse window: %w", err)
		}
		if !iv.Valid() || iv.Hi.Cmp(iv.Lo) < 0 {
			return nil, ErrInvalidWindow
		}
		window = iv
	}

	defaultColor := colorful.Color{R: 1, G: 1, B: 1}
	if raw.DefaultColor != "" {
		c, err := colorful.Hex(raw.DefaultColor)
		if err != nil {
			return nil, fmt.Errorf("transfer: parse default color: %w", err)
		}
		defaultColor = c
	}

	channel := raw.Channel
	if channel == nil {
		channel = []int{}
	}
	return &Parameters{
		ControlPoints: cps,
		Window:        window,
		Channel:       channel,
		DefaultColor:  defaultColor,
	}, nil
}

func parseControlPoint(dt scalar.DataType, data json.RawMessage) (ControlPoint, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ControlPoint{}, err
	}
	if len(fields) != 3 {
		return ControlPoint{}, fmt.Errorf("want [value, color, alpha], got %d elements", len(fields))
	}
	var num json.Number
	if err := json.Unmarshal(fields[0], &num); err != nil {
		return ControlPoint{}, fmt.Errorf("parse input value: %w", err)
	}
	input, err := scalar.ParseValue(dt, num.String())
	if err != nil {
		return ControlPoint{}, fmt.Errorf("parse input value: %w", err)
	}
	var hex string
	if err := json.Unmarshal(fields[1], &hex); err != nil {
		return ControlPoint{}, fmt.Errorf("parse color: %w", err)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return ControlPoint{}, fmt.Errorf("parse color: %w", err)
	}
	var alpha float64
	if err := json.Unmarshal(fields[2], &alpha); err != nil {
		return ControlPoint{}, fmt.Errorf("parse alpha: %w", err)
	}
	if alpha < 0 || alpha > 1 {
		return ControlPoint{}, fmt.Errorf("alpha %v outside [0, 1]", alpha)
	}
	r, g, b := c.RGB255()
	return ControlPoint{
		Input: input,
		Color: color.RGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)},
	}, nil
}
