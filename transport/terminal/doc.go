// Package terminal draws a world on a tcell screen and turns key presses into
// game controls.
//
// Keys:
//
//	arrows / hjkl / wasd   steer the player
//	p                      pause or resume
//	space / n              advance one tick while paused
//	r                      redraw everything
//	q / Esc / Ctrl-C       end the game
package terminal
