// Package keymap resolves abstract command names to physical keys.
//
// Grammars compile orders into abstract command names such as "cmd_menu",
// "gold" or "yell". A Table maps each of those names to one key.Identifier.
//
// # Key Concepts
//
// Table: The resolved, read-only name-to-key mapping used at execution time.
//
// Binding: One entry of a table, remembering which layer supplied it.
//
// Builder: Assembles a table from prioritized layers.
//
// # Binding Precedence
//
// Layers are merged lowest priority first:
//  1. Grammar defaults (builtin)
//  2. The game's own settings file
//  3. Manual overrides from the voxcmd config
//
// An empty value in a higher layer never unbinds a lower one, and a value
// that is not a valid key name is reported and skipped so the next lower
// layer's value is used instead.
package keymap
