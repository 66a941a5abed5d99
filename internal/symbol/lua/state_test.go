package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/wirecanvas/internal/geom"
	"github.com/dshills/wirecanvas/internal/symbol"
)

const and2Script = `
symbol {
    class = "and2",
    category = "logic",
    area = { x = -2, y = -2, w = 4, h = 4 },
    terminals = { {-2, -1}, {-2, 1}, {x = 2, y = 0} },
    draw = function(c)
        c:move_to(-2, -2)
        c:line_to(0, -2)
        c:stroke()
        c:circle(0, 0, 2)
        c:fill()
        c:text(0, 0, "&")
    end,
}

symbol {
    class = "box",
    area = { -1, -1, 2, 2 },
}
`

type recorder struct {
	calls []string
}

func (r *recorder) MoveTo(x, y float64)     { r.log("move_to", x, y) }
func (r *recorder) LineTo(x, y float64)     { r.log("line_to", x, y) }
func (r *recorder) Rect(x, y, w, h float64) { r.log("rect", x, y, w, h) }
func (r *recorder) Circle(x, y, rad float64) {
	r.log("circle", x, y, rad)
}
func (r *recorder) Text(x, y float64, s string) {
	r.calls = append(r.calls, fmt.Sprintf("text %v %v %s", x, y, s))
}
func (r *recorder) Stroke() { r.calls = append(r.calls, "stroke") }
func (r *recorder) Fill()   { r.calls = append(r.calls, "fill") }

func (r *recorder) log(op string, args ...float64) {
	parts := []string{op}
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	r.calls = append(r.calls, strings.Join(parts, " "))
}

func TestStateRegistersSymbols(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(and2Script); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	defs := s.Definitions()
	if len(defs) != 2 {
		t.Fatalf("got %d definitions, want 2", len(defs))
	}

	and2 := defs[0]
	if and2.Class() != "and2" {
		t.Errorf("Class() = %q", and2.Class())
	}
	if got := and2.BoundingArea(); got != geom.R(-2, -2, 4, 4) {
		t.Errorf("BoundingArea() = %v", got)
	}
	want := []geom.Point{{X: -2, Y: -1}, {X: -2, Y: 1}, {X: 2, Y: 0}}
	if got := and2.Terminals(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Terminals() = %v, want %v", got, want)
	}
	if sc, ok := and2.(*Script); !ok || sc.Category() != "logic" {
		t.Errorf("category not recorded")
	}

	if got := defs[1].BoundingArea(); got != geom.R(-1, -1, 2, 2) {
		t.Errorf("positional area = %v", got)
	}
}

func TestScriptDraw(t *testing.T) {
	s := NewState()
	defer s.Close()
	if err := s.DoString(and2Script); err != nil {
		t.Fatal(err)
	}
	defs := s.Definitions()

	rec := &recorder{}
	if err := defs[0].Draw(rec); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	want := []string{"move_to -2 -2", "line_to 0 -2", "stroke", "circle 0 0 2", "fill", "text 0 0 &"}
	if fmt.Sprint(rec.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}

	// Without a draw function the area is outlined.
	rec = &recorder{}
	if err := defs[1].Draw(rec); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(rec.calls) != fmt.Sprint([]string{"rect -1 -1 2 2", "stroke"}) {
		t.Errorf("fallback calls = %v", rec.calls)
	}
}

func TestDrawErrorIsReturned(t *testing.T) {
	s := NewState()
	defer s.Close()
	err := s.DoString(`symbol { class = "bad", area = {0, 0, 1, 1}, draw = function(c) c:rect(1) end }`)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Definitions()[0].Draw(&recorder{}); err == nil {
		t.Error("expected error from bad canvas call")
	}
}

func TestCanvasNotUsableAfterDraw(t *testing.T) {
	s := NewState()
	defer s.Close()
	err := s.DoString(`
kept = nil
symbol { class = "leak", area = {0, 0, 1, 1}, draw = function(c) kept = c end }
function use_kept() kept:stroke() end
`)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Definitions()[0].Draw(&recorder{}); err != nil {
		t.Fatal(err)
	}
	if err := s.DoString(`use_kept()`); err == nil {
		t.Error("retained canvas should be rejected outside draw")
	}
}

func TestSymbolValidation(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"no class", `symbol { area = {0, 0, 1, 1} }`},
		{"no area", `symbol { class = "a" }`},
		{"zero area", `symbol { class = "a", area = {0, 0, 0, 1} }`},
		{"bad terminal", `symbol { class = "a", area = {0, 0, 1, 1}, terminals = { {1} } }`},
		{"terminals not table", `symbol { class = "a", area = {0, 0, 1, 1}, terminals = 3 }`},
		{"draw not function", `symbol { class = "a", area = {0, 0, 1, 1}, draw = "x" }`},
		{"not a table", `symbol("a")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			defer s.Close()
			if err := s.DoString(tt.code); err == nil {
				t.Error("expected error")
			}
			if n := len(s.Definitions()); n != 0 {
				t.Errorf("registered %d definitions", n)
			}
		})
	}
}

func TestSandboxBlocksLoaders(t *testing.T) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		t.Run(name, func(t *testing.T) {
			s := NewState()
			defer s.Close()
			if err := s.DoString(name + `("x")`); err == nil {
				t.Errorf("%s should not be callable", name)
			}
		})
	}
}

func TestSandboxHasNoOSOrIO(t *testing.T) {
	s := NewState()
	defer s.Close()
	if err := s.DoString(`assert(os == nil and io == nil and debug == nil)`); err != nil {
		t.Errorf("unsafe libraries present: %v", err)
	}
	if err := s.DoString(`assert(math.floor(2.5) == 2 and string.upper("a") == "A")`); err != nil {
		t.Errorf("safe libraries missing: %v", err)
	}
}

func TestExecutionTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	start := time.Now()
	err := s.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout took too long")
	}
}

func TestCloseReferenceCounting(t *testing.T) {
	s := NewState()
	if err := s.DoString(and2Script); err != nil {
		t.Fatal(err)
	}
	defs := s.Definitions()
	a := defs[0].(*Script)
	b := defs[1].(*Script)

	a.Close()
	a.Close()
	if s.IsClosed() {
		t.Fatal("state closed while a script still references it")
	}
	b.Close()
	if !s.IsClosed() {
		t.Fatal("state should close with its last script")
	}
	if err := a.Draw(&recorder{}); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Draw after close = %v, want ErrStateClosed", err)
	}
	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after close = %v, want ErrStateClosed", err)
	}
}

func TestLoadFileAndLibrary(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logic.lua"), []byte(and2Script), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.lua"), []byte(`-- nothing`), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlDoc := "symbols:\n  - class: res\n    area: {x: 0, y: 0, w: 1, h: 1}\n"
	if err := os.WriteFile(filepath.Join(dir, "basic.yaml"), []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := symbol.NewLibrary()
	n, err := lib.LoadDir(dir, Register(nil))
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if n != 3 {
		t.Errorf("loaded %d classes, want 3", n)
	}
	if got := strings.Join(lib.Classes(), ","); got != "and2,box,res" {
		t.Errorf("Classes() = %s", got)
	}
}

func TestLoadFileSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(path, []byte(`symbol {`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected syntax error")
	}
}
