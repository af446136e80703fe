// Package ui provides the Bubble Tea interface for Navigator.
//
// # Layout
//
// A header with the tab bar and the backend/session status, a bordered content
// box for the current tab and a footer with key hints or the last message.
//
// Tabs: Dashboard, Goals, Skills (skills and skill gaps), Courses, Mentors,
// Credentials and Settings.
//
// # Lists
//
// Every collection tab is a listPane over a collection.Controller. The pane
// owns only view state (search input, category filter, selection); records
// and load status come from the controller snapshot, and the visible rows
// are always derived with collection.DeriveView.
//
// # Modals
//
// Forms and delete confirmations are Modal values. A form stays open until
// its write succeeds so validation errors appear next to the inputs; a delete
// only runs after an explicit "y".
//
// # Messages
//
// Loads and writes run as tea.Cmds and report back with loadedMsg and
// mutatedMsg. Identity changes arrive on Options.Sessions as sessionMsg, which
// resets every pane and reloads.
package ui
