package overlay

import "github.com/google/uuid"

// State is the phase of the drawing state machine.
type State int

const (
	// Idle means no drawing is in progress.
	Idle State = iota
	// Accumulating means a drawing has some but not all of its points.
	Accumulating
)

func (s State) String() string {
	if s == Accumulating {
		return "accumulating"
	}
	return "idle"
}

// Machine accumulates clicks into drawings for the active tool.
//
// A click with a drawing tool either starts a drawing or appends to the one in
// progress; once the drawing has RequiredPoints(type) points it is committed
// and the machine returns to Idle. Cursor clicks and clicks the mapper cannot
// resolve are ignored. The required count is that of the in-progress drawing's
// own type, so switching tools mid-drawing never overfills it.
type Machine struct {
	mapper   *Mapper
	snapper  *Snapper
	tool     string
	drawings []Drawing
	current  *Drawing
	newID    func() string
}

// NewMachine creates an idle machine with the cursor selected.
func NewMachine(mapper *Mapper, snapper *Snapper) *Machine {
	return &Machine{
		mapper:  mapper,
		snapper: snapper,
		tool:    Cursor,
		newID:   uuid.NewString,
	}
}

// SetTool selects the active tool. An empty name selects the cursor.
func (m *Machine) SetTool(tool string) {
	if tool == "" {
		tool = Cursor
	}
	m.tool = tool
}

// Tool returns the active tool.
func (m *Machine) Tool() string { return m.tool }

// State reports whether a drawing is in progress.
func (m *Machine) State() State {
	if m.current != nil {
		return Accumulating
	}
	return Idle
}

// Click feeds a pointer press at pixel (x, y). It reports whether the
// machine's state changed.
func (m *Machine) Click(x, y float64) bool {
	if m.tool == Cursor {
		return false
	}
	pt, ok := m.mapper.ToDomain(x, y)
	if !ok {
		return false
	}
	if price, ok := m.snapper.Snap(pt.Time, pt.Price); ok {
		pt.Price = price
	}

	if m.current == nil {
		m.current = &Drawing{ID: m.newID(), Type: m.tool}
	}
	m.current.Points = append(m.current.Points, pt)

	if len(m.current.Points) >= RequiredPoints(m.current.Type) {
		done := m.current.clone()
		done.Complete = true
		m.drawings = append(m.drawings, done)
		m.current = nil
	}
	return true
}

// Clear drops every committed drawing and cancels the one in progress.
func (m *Machine) Clear() {
	m.drawings = nil
	m.current = nil
}

// Drawings returns copies of the committed drawings in commit order.
func (m *Machine) Drawings() []Drawing {
	out := make([]Drawing, len(m.drawings))
	for i, d := range m.drawings {
		out[i] = d.clone()
	}
	return out
}

// Current returns a copy of the in-progress drawing.
func (m *Machine) Current() (Drawing, bool) {
	if m.current == nil {
		return Drawing{}, false
	}
	return m.current.clone(), true
}

// Overlay renders the committed drawings followed by the in-progress one as a ghost.
func (m *Machine) Overlay() []Group {
	var groups []Group
	for _, d := range m.drawings {
		if g, ok := Render(m.mapper, d, false); ok {
			groups = append(groups, g)
		}
	}
	if m.current != nil {
		if g, ok := Render(m.mapper, *m.current, true); ok {
			groups = append(groups, g)
		}
	}
	return groups
}
