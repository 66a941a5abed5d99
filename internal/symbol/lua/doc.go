// Package lua loads symbol definitions from Lua scripts.
//
// A script registers one or more symbols by calling the global symbol
// function with a table:
//
//	symbol {
//	    class = "and2",
//	    category = "logic",
//	    area = { x = -2, y = -2, w = 4, h = 4 },
//	    terminals = { {-2, -1}, {-2, 1}, {x = 2, y = 0} },
//	    draw = function(c)
//	        c:rect(-2, -2, 4, 4)
//	        c:stroke()
//	        c:text(0, 0, "&")
//	    end,
//	}
//
// Area and terminals are evaluated once at load time. The draw function runs
// each time the symbol is painted and receives a canvas with the methods
// move_to, line_to, rect, circle, text, stroke and fill.
//
// # Sandbox
//
// Scripts run with the base, table, string and math libraries only. The
// functions that load code from disk or strings (dofile, loadfile, load,
// loadstring, require) are removed, and print is routed to the logger.
// Every call into Lua is bounded by an execution timeout.
package lua
