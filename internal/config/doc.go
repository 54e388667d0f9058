// Package config holds the voxcmd runtime configuration.
//
// Settings come from, lowest priority first:
//
//	┌─────────────────────────────┐
//	│  4. Command line flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. VOXCMD_* environment    │
//	├─────────────────────────────┤
//	│  2. Config file             │  ← ~/.voxcmd.toml or --config
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// viper does the merging; Load decodes the result into a Config and
// Validate reports every invalid field at once.
//
// # Sub-packages
//
//   - loader: TOML and YAML file loading for keyword and table files
//   - layer: priority layers used to build key bindings
//   - watcher: fsnotify file watcher for keyword hot reload
package config
