package reconcile

// Transitions are optional presentation effects around element changes.
// They never affect the reconciler's view of what is rendered: by the time
// a transition runs, the reconciler already treats the change as done.
type Transitions struct {
	// Insert runs after an element is created.
	Insert func(h Handle)

	// Remove runs instead of removing h directly. It must eventually call
	// done, which removes the element from the surface.
	Remove func(h Handle, done func())

	// Move wraps a batch of reorders. apply performs the moves; a FLIP
	// effect records positions before calling it and animates afterwards.
	Move func(moved []Handle, apply func())
}

func (t Transitions) insert(h Handle) {
	if t.Insert != nil {
		t.Insert(h)
	}
}

func (t Transitions) remove(h Handle, done func()) {
	if t.Remove != nil {
		t.Remove(h, done)
		return
	}
	done()
}

func (t Transitions) move(moved []Handle, apply func()) {
	if t.Move != nil {
		t.Move(moved, apply)
		return
	}
	apply()
}

// Point is an element's position on screen.
type Point struct{ X, Y float64 }

// FLIP returns a Move transition that measures each moved element, applies
// the moves, measures again, and passes the offset from the new position
// back to the old one to animate. Elements that did not visibly move are
// not animated.
func FLIP(measure func(Handle) Point, animate func(h Handle, dx, dy float64)) func([]Handle, func()) {
	return func(moved []Handle, apply func()) {
		first := make([]Point, len(moved))
		for i, h := range moved {
			first[i] = measure(h)
		}
		apply()
		for i, h := range moved {
			last := measure(h)
			dx, dy := first[i].X-last.X, first[i].Y-last.Y
			if dx != 0 || dy != 0 {
				animate(h, dx, dy)
			}
		}
	}
}
