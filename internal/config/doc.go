// Package config holds the strseq configuration model.
//
// Settings come from stacked layers, higher layers overriding lower:
//
//	┌──────────────────────────────┐
//	│  4. Command-line flags       │  ← highest priority
//	├──────────────────────────────┤
//	│  3. STRSEQ_* environment     │
//	├──────────────────────────────┤
//	│  2. TOML file (+ @include)   │
//	├──────────────────────────────┤
//	│  1. Built-in defaults        │  ← lowest priority
//	└──────────────────────────────┘
//
// Load merges layers 1-3. Callers with flags use LoadLayers, add a
// layer.SourceArgs layer and call Decode; the manager also reports which
// layer each setting came from.
//
// # File Format
//
//	[sequence]
//	encoding = "UTF-8"
//	unit = "codepoint"            # or "grapheme"
//	detectOrder = ["ASCII", "UTF-8"]
//	padding = " "
//
//	[output]
//	format = "text"               # or "json"
//	pretty = true
//	escape = "auto"               # auto | always | never
//
//	[logging]
//	level = "warn"
//
// # Usage
//
//	cfg, err := config.Load("strseq.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
