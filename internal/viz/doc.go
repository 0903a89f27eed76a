// Package viz draws a running system in the terminal.
//
// The viewer is a Bubble Tea program. Each tick it advances the engine by a
// configurable number of steps, then projects every body and its trail onto
// a braille [Canvas], one colour per body.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	+/-   - More/fewer steps per frame
//	Z/X   - Zoom in/out
//	T     - Toggle trails
//	Q     - Quit
package viz
