package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/wirecanvas/internal/symbol"
)

// DefaultExecutionTimeout bounds every call into Lua.
const DefaultExecutionTimeout = 2 * time.Second

// State wraps a sandboxed gopher-lua state together with the symbols its
// scripts registered.
//
// gopher-lua's LState is not goroutine-safe; every entry point takes the
// mutex. Scripts share the state, so it stays open until the last of them
// is closed.
type State struct {
	L *lua.LState

	mu sync.Mutex

	timeout time.Duration
	logger  *zap.Logger

	scripts []*Script
	refs    int
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the time budget for each call into Lua.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger routes script print output and warnings to l.
func WithLogger(l *zap.Logger) StateOption {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewState creates a sandboxed Lua state with the symbol API installed.
func NewState(opts ...StateOption) *State {
	s := &State{
		timeout: DefaultExecutionTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.logger)
	registerCanvasType(s.L)
	s.L.SetGlobal("symbol", s.L.NewFunction(s.luaSymbol))
	return s
}

// openSafeLibraries opens only the Lua standard libraries that cannot reach
// the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoFile runs a script file.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.exec(func() error { return s.L.DoFile(path) })
}

// DoString runs a script.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.exec(func() error { return s.L.DoString(code) })
}

// exec runs fn under the execution timeout with panic recovery.
func (s *State) exec(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = fn()
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	return err
}

// Definitions returns the symbols registered so far, in registration order.
func (s *State) Definitions() []symbol.Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]symbol.Definition, len(s.scripts))
	for i, sc := range s.scripts {
		out[i] = sc
	}
	return out
}

// IsClosed reports whether the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state regardless of outstanding scripts.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	return nil
}

func (s *State) closeLocked() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// release drops one script reference and closes the state with the last.
func (s *State) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs--
	if s.refs <= 0 {
		s.closeLocked()
	}
}

// draw calls a script's draw function with a canvas bound to c.
func (s *State) draw(fn *lua.LFunction, c symbol.Canvas) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ud := newCanvas(s.L, c)
	defer func() { ud.Value = nil }()

	return s.exec(func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ud)
	})
}
