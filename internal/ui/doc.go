// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is the hobby hub's single-page app:
//  1. [LoginView] : Sign in with username and password
//  2. [MenuView] : Pick a section
//  3. [SectionView] : Browse habits, notes, projects, photos, tasks or themes
//  4. [HabitView] : Heatmap and streaks of one habit
//  5. [ExportView] : Monitor a full export and its result
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Each section is bound to a [views.List] that lives as long as the section is on screen; leaving the section cancels its
// in-flight calls. A failed token refresh reaches the model through [Navigator] and lands on the login screen.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
