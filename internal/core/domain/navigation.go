package domain

// Tab is an entry of the dashboard navigation shell.
type Tab struct {
	Label string   `json:"label"`
	Path  string   `json:"path"`
	Roles []string `json:"roles,omitempty"`
}

// DashboardTabs lists every role-gated tab in display order.
var DashboardTabs = []Tab{
	{Label: "Overview", Path: RouteDashboard, Roles: []string{RoleAdmin, RoleManager, RoleUser}},
	{Label: "Users", Path: RouteUsers, Roles: []string{RoleAdmin}},
	{Label: "Settings", Path: RouteSettings, Roles: []string{RoleAdmin, RoleManager}},
}

// ProfileTabs is the account menu; it is not role-gated.
var ProfileTabs = []Tab{
	{Label: "Profile", Path: "/dashboard/profile"},
	{Label: "Account", Path: "/dashboard/account"},
	{Label: "Logout", Path: "/logout"},
}

// Allows reports whether role may see the tab.
func (t Tab) Allows(role string) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// VisibleTabs filters DashboardTabs for the session. Sessions without both a
// token and a role see nothing.
func VisibleTabs(s Session) []Tab {
	if !s.Authenticated() {
		return nil
	}
	visible := make([]Tab, 0, len(DashboardTabs))
	for _, t := range DashboardTabs {
		if t.Allows(s.Role) {
			visible = append(visible, t)
		}
	}
	return visible
}

// CanVisit reports whether the session may open path. Paths that are not
// dashboard tabs are not gated.
func CanVisit(s Session, path string) bool {
	for _, t := range DashboardTabs {
		if t.Path == path {
			return s.Authenticated() && t.Allows(s.Role)
		}
	}
	return true
}
