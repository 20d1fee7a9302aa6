package ports

// CookieStore persists the session cookies. Values are stored as plain text
// and stay readable by the client process.
type CookieStore interface {
	// Read returns the cookie value and whether it is present.
	Read(name string) (string, bool)
	// Write sets a session cookie with path "/" and no expiry.
	Write(name, value string) error
	// Clear deletes the cookie (max-age 0).
	Clear(name string) error
}
