package ui

import "transrural/internal/domain"

// errMsg carries any failed operation into the status line. Auth errors
// additionally force the user back to the login screen.
type errMsg struct{ err error }

// loggedInMsg switches the app to the role surface for the user.
type loggedInMsg struct{ user domain.User }

// refreshedMsg signals that a view's backing workflow finished a fetch or
// mutation and the view should re-render from it.
type refreshedMsg struct{}

// pdfSavedMsg reports where a generated document landed on disk.
type pdfSavedMsg struct{ path string }

// openSaleMsg switches the admin surface into the sale wizard.
type openSaleMsg struct{}
