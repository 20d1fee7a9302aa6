package ports

// Navigator moves the dashboard between routes.
type Navigator interface {
	// Push performs in-app navigation; view state survives.
	Push(path string)
	// Redirect performs a full-page navigation; view state is discarded.
	Redirect(path string)
}
