package panel

// Action names the controller binds. The host's input layer maps raw
// pointer and wheel events onto these names.
const (
	ActionAddOrGrabPoint = "add-or-grab-point"
	ActionMovePoint      = "move-point"
	ActionReleasePoint   = "release-point"
	ActionRemovePoint    = "remove-point"
	ActionRecolorPoint   = "recolor-point"
	ActionZoomWindow     = "zoom-window"
)

// Event is one dispatched gesture: where it happened in panel coordinates
// and, for wheel gestures, the scroll delta.
type Event struct {
	Pos   Position
	Delta float64
}

// Dispatcher routes named actions to handlers. The host supplies one; tests
// use a recording fake.
type Dispatcher interface {
	Register(action string, handler func(Event))
}

// Bind registers the controller's gestures under their canonical action
// names.
func (c *Controller) Bind(d Dispatcher) {
	d.Register(ActionAddOrGrabPoint, func(ev Event) { c.Press(ev.Pos) })
	d.Register(ActionMovePoint, func(ev Event) { c.Drag(ev.Pos) })
	d.Register(ActionReleasePoint, func(ev Event) { c.Release() })
	d.Register(ActionRemovePoint, func(ev Event) { c.DoubleClick(ev.Pos) })
	d.Register(ActionRecolorPoint, func(ev Event) { c.SecondaryPress(ev.Pos) })
	d.Register(ActionZoomWindow, func(ev Event) { c.Wheel(ev.Pos, ev.Delta) })
}
