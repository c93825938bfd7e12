// Package theme holds the active colour palette.
//
// A [Context] starts with [Default], replaces it with the profile's current theme when a session is present
// and changes it only after the backend accepts the selection. Subscribers receive every new [Palette]; the
// TUI re-derives its lipgloss [Styles] from it and web-style consumers read [Palette.Vars].
package theme
