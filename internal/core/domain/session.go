package domain

// Cookie names mirrored by the session.
const (
	CookieToken = "token"
	CookieRole  = "role"
)

// Routes the dashboard navigates to.
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteUsers     = "/dashboard/users"
	RouteSettings  = "/dashboard/settings"
)

// Session is the current authentication state. An empty string means the
// field is absent; cookies never carry empty values.
type Session struct {
	Token string `json:"token,omitempty"`
	Role  string `json:"role,omitempty"`
}

// IsEmpty reports whether neither field is set.
func (s Session) IsEmpty() bool {
	return s.Token == "" && s.Role == ""
}

// HasToken reports whether a bearer token is available.
func (s Session) HasToken() bool {
	return s.Token != ""
}

// Authenticated reports whether both token and role are present. A partial
// session (token without role) is unauthenticated for role-gated views.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != ""
}

// LoginResult is the success payload of the login call.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
}

// Session converts the login result into the session it establishes.
func (r LoginResult) Session() Session {
	return Session{Token: r.AccessToken, Role: r.Role}
}
