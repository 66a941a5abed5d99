package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// blockedGlobals load code from disk or strings, or reach the module system.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
	"getfenv",
	"setfenv",
}

// installSandbox removes blocked globals and replaces print.
func installSandbox(L *lua.LState, logger *zap.Logger) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		logger.Info("symbol script", zap.String("output", strings.Join(parts, "\t")))
		return 0
	}))
}
