package overlay

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"TradeMind/internal/model"
)

func testViewport() *Viewport {
	return &Viewport{Width: 1000, Height: 100, TimeFrom: 0, TimeTo: 1000, PriceMin: 0, PriceMax: 100}
}

func newTestMachine(snap *Snapper) *Machine {
	m := NewMachine(NewMapper(testViewport()), snap)
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("d%d", n)
	}
	return m
}

func TestMachine_TrendLine(t *testing.T) {
	m := newTestMachine(nil)
	m.SetTool(ToolTrendLine)

	if !m.Click(100, 50) {
		t.Fatal("first click should start a drawing")
	}
	if m.State() != Accumulating {
		t.Fatalf("state = %v, want accumulating", m.State())
	}
	if len(m.Drawings()) != 0 {
		t.Fatal("drawing committed too early")
	}
	m.Click(200, 40)

	if m.State() != Idle {
		t.Fatalf("state = %v, want idle", m.State())
	}
	got := m.Drawings()
	if len(got) != 1 {
		t.Fatalf("drawings = %d, want 1", len(got))
	}
	d := got[0]
	if !d.Complete || d.Type != ToolTrendLine || d.ID != "d1" {
		t.Errorf("drawing = %+v", d)
	}
	want := []Point{{Time: 100, Price: 50}, {Time: 200, Price: 60}}
	if len(d.Points) != 2 || d.Points[0] != want[0] || d.Points[1] != want[1] {
		t.Errorf("points = %+v, want %+v", d.Points, want)
	}
}

func TestMachine_CursorIgnoresClicks(t *testing.T) {
	m := newTestMachine(nil)
	if m.Click(10, 10) {
		t.Error("cursor click changed state")
	}
	m.SetTool("")
	if m.Tool() != Cursor {
		t.Errorf("empty tool = %q, want cursor", m.Tool())
	}
	if _, ok := m.Current(); ok {
		t.Error("cursor started a drawing")
	}
}

func TestMachine_UnresolvableClickIgnored(t *testing.T) {
	m := newTestMachine(nil)
	m.SetTool(ToolTrendLine)
	if m.Click(-5, 50) || m.Click(50, 500) {
		t.Error("out-of-range click accepted")
	}

	blank := NewMachine(NewMapper(&Viewport{}), nil)
	blank.SetTool(ToolTrendLine)
	if blank.Click(1, 1) {
		t.Error("click on an unfitted viewport accepted")
	}
}

func TestMachine_ToolChangeKeepsDrawingType(t *testing.T) {
	m := newTestMachine(nil)
	m.SetTool(ToolTriangle)
	m.Click(100, 10)
	m.SetTool(ToolTrendLine)
	m.Click(200, 20)
	if len(m.Drawings()) != 0 {
		t.Fatal("triangle committed after two points")
	}
	m.Click(300, 30)
	got := m.Drawings()
	if len(got) != 1 || got[0].Type != ToolTriangle || len(got[0].Points) != 3 {
		t.Fatalf("drawings = %+v", got)
	}
}

func TestMachine_MagnetSnapsToCandle(t *testing.T) {
	candles := []model.Candle{{Time: 500, Open: 40, High: 70, Low: 30, Close: 55}}
	m := newTestMachine(&Snapper{Enabled: true, Candles: func() []model.Candle { return candles }})
	m.SetTool(ToolTrendLine)
	m.Click(500, 35) // price 65
	cur, ok := m.Current()
	if !ok {
		t.Fatal("no drawing in progress")
	}
	if cur.Points[0].Price != 70 {
		t.Errorf("snapped price = %v, want 70", cur.Points[0].Price)
	}
}

func TestMachine_Clear(t *testing.T) {
	m := newTestMachine(nil)
	m.SetTool(ToolTrendLine)
	m.Click(1, 1)
	m.Click(2, 2)
	m.Click(3, 3)
	m.Clear()
	if len(m.Drawings()) != 0 || m.State() != Idle {
		t.Error("clear left state behind")
	}
	if len(m.Overlay()) != 0 {
		t.Error("overlay not empty after clear")
	}
}

func TestMachine_DrawingsAreCopies(t *testing.T) {
	m := newTestMachine(nil)
	m.SetTool(ToolTrendLine)
	m.Click(1, 1)
	m.Click(2, 2)
	got := m.Drawings()
	got[0].Points[0].Price = -1
	if m.Drawings()[0].Points[0].Price == -1 {
		t.Error("Drawings exposed internal state")
	}
}

func TestMachine_Properties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	tools := gen.OneConstOf(ToolTrendLine, ToolFibRetracement, ToolRectangle, ToolCircle, ToolTriangle, ToolElliottWave)

	properties.Property("k valid clicks commit exactly one drawing", prop.ForAll(
		func(tool string, x, y float64) bool {
			m := newTestMachine(nil)
			m.SetTool(tool)
			k := RequiredPoints(tool)
			for i := 0; i < k; i++ {
				if i < k-1 && len(m.Drawings()) != 0 {
					return false
				}
				m.Click(x, y)
			}
			_, pending := m.Current()
			d := m.Drawings()
			return len(d) == 1 && d[0].Complete && len(d[0].Points) == k && !pending
		},
		tools,
		gen.Float64Range(0, 1000),
		gen.Float64Range(0, 100),
	))

	properties.Property("cursor never draws", prop.ForAll(
		func(xs []float64) bool {
			m := newTestMachine(nil)
			for _, x := range xs {
				m.Click(x, 50)
			}
			_, pending := m.Current()
			return len(m.Drawings()) == 0 && !pending
		},
		gen.SliceOf(gen.Float64Range(0, 1000)),
	))

	properties.Property("clear empties everything", prop.ForAll(
		func(tool string, n int) bool {
			m := newTestMachine(nil)
			m.SetTool(tool)
			for i := 0; i < n; i++ {
				m.Click(float64(i*10), 50)
			}
			m.Clear()
			_, pending := m.Current()
			return len(m.Drawings()) == 0 && !pending
		},
		tools,
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
