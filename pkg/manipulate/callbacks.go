package manipulate

import "github.com/spatialkit/go-manipulate/pkg/layout"

// Listener receives the session's callback contract. Implementations
// typically embed NopListener and override what they need, so absent
// callbacks never require special casing in the core.
type Listener interface {
	OnResizeStart(handle layout.HandleKind)
	OnResize(width, height float64, handle layout.HandleKind)
	OnResizeEnd()
	OnRotateStart()
	OnRotate(angleDelta float64)
	OnRotateEnd()
	OnDepthChange(depthDelta float64)
	OnTwoHandedScale(factor float64)
	OnTwoHandedRotate(angleDelta float64)
	OnTwoHandedEnd(finalScale, finalRotation float64)
	OnToggleAspectLock(locked bool)
	OnHover(handle layout.HandleKind, hovering bool)
}

// NopListener implements Listener with empty methods.
type NopListener struct{}

func (NopListener) OnResizeStart(layout.HandleKind)             {}
func (NopListener) OnResize(float64, float64, layout.HandleKind) {}
func (NopListener) OnResizeEnd()                                {}
func (NopListener) OnRotateStart()                              {}
func (NopListener) OnRotate(float64)                            {}
func (NopListener) OnRotateEnd()                                {}
func (NopListener) OnDepthChange(float64)                       {}
func (NopListener) OnTwoHandedScale(float64)                    {}
func (NopListener) OnTwoHandedRotate(float64)                   {}
func (NopListener) OnTwoHandedEnd(float64, float64)             {}
func (NopListener) OnToggleAspectLock(bool)                     {}
func (NopListener) OnHover(layout.HandleKind, bool)             {}

// Callbacks adapts plain functions to the Listener interface. Nil
// fields are simply skipped.
type Callbacks struct {
	ResizeStart      func(handle layout.HandleKind)
	Resize           func(width, height float64, handle layout.HandleKind)
	ResizeEnd        func()
	RotateStart      func()
	Rotate           func(angleDelta float64)
	RotateEnd        func()
	DepthChange      func(depthDelta float64)
	TwoHandedScale   func(factor float64)
	TwoHandedRotate  func(angleDelta float64)
	TwoHandedEnd     func(finalScale, finalRotation float64)
	ToggleAspectLock func(locked bool)
	Hover            func(handle layout.HandleKind, hovering bool)
}

func (c *Callbacks) OnResizeStart(h layout.HandleKind) {
	if c.ResizeStart != nil {
		c.ResizeStart(h)
	}
}

func (c *Callbacks) OnResize(w, hgt float64, h layout.HandleKind) {
	if c.Resize != nil {
		c.Resize(w, hgt, h)
	}
}

func (c *Callbacks) OnResizeEnd() {
	if c.ResizeEnd != nil {
		c.ResizeEnd()
	}
}

func (c *Callbacks) OnRotateStart() {
	if c.RotateStart != nil {
		c.RotateStart()
	}
}

func (c *Callbacks) OnRotate(delta float64) {
	if c.Rotate != nil {
		c.Rotate(delta)
	}
}

func (c *Callbacks) OnRotateEnd() {
	if c.RotateEnd != nil {
		c.RotateEnd()
	}
}

func (c *Callbacks) OnDepthChange(delta float64) {
	if c.DepthChange != nil {
		c.DepthChange(delta)
	}
}

func (c *Callbacks) OnTwoHandedScale(factor float64) {
	if c.TwoHandedScale != nil {
		c.TwoHandedScale(factor)
	}
}

func (c *Callbacks) OnTwoHandedRotate(delta float64) {
	if c.TwoHandedRotate != nil {
		c.TwoHandedRotate(delta)
	}
}

func (c *Callbacks) OnTwoHandedEnd(scale, rotation float64) {
	if c.TwoHandedEnd != nil {
		c.TwoHandedEnd(scale, rotation)
	}
}

func (c *Callbacks) OnToggleAspectLock(locked bool) {
	if c.ToggleAspectLock != nil {
		c.ToggleAspectLock(locked)
	}
}

func (c *Callbacks) OnHover(h layout.HandleKind, hovering bool) {
	if c.Hover != nil {
		c.Hover(h, hovering)
	}
}
