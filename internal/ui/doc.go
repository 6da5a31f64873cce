// Package ui contains the Fyne-based launcher window and the application
// theme. Tool windows live with their tools; this package only lists tools
// and dispatches launches through the app manager.
package ui
