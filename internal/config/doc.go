// Package config provides the configuration for wirecanvas.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← WIRECANVAS_SECTION_KEY
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Layers are merged as plain maps and decoded once into Config, which is
// then validated. Unknown keys in a file are an error; environment
// variables that do not name an existing setting are ignored.
//
// # Basic Usage
//
//	cfg, err := config.Load("wirecanvas.toml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.View.ZoomMax)
//
// # Environment Variables
//
// The first word after the prefix selects the section, the rest is the
// key in snake case:
//
//	WIRECANVAS_VIEW_ZOOM_MAX=40         → view.zoom_max
//	WIRECANVAS_LOGGING_LEVEL=debug      → logging.level
//	WIRECANVAS_SYMBOLS_PATHS=["lib"]    → symbols.paths
package config
