// Package ui holds the styled text around the animations: colour
// themes, lipgloss styles for command output and the interactive demo
// picker built on Bubble Tea.
//
// # Key Bindings
//
//	j/k, up/down - Move the cursor
//	enter/space  - Play the highlighted effect
//	/            - Filter by name
//	q, esc       - Quit
package ui
