// Package viz renders expressions in the terminal.
//
//   - [Canvas]: Braille dot canvas with per-layer colouring
//   - [Graph] and [GraphPair]: asciigraph plots of sampled series
//   - [Animation]: Bubble Tea model that draws f progressively
//   - [Prompt]: Bubble Tea model for the interactive session
//
// # Key Bindings
//
// Prompt:
//
//	Enter - Derive and plot the typed expression
//	↑/↓   - Walk input history
//	Esc   - Quit
//
// Animation:
//
//	Space - Pause/Resume
//	R     - Restart
//	D     - Toggle the derivative curve
//	Q     - Quit
package viz
