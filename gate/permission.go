package gate

import "strings"

// Permission is an allowed action on a resource, written "resource:action".
type Permission string

// Wildcards for super permissions
const (
	Wildcard                 = "*"
	PermissionAll Permission = "*:*"
)

// NewPermission creates a permission from resource and action.
func NewPermission(resource string, action Action) Permission {
	return Permission(resource + ":" + string(action))
}

// Parse splits a permission into resource and action.
func (p Permission) Parse() (resource string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested. "*:*" grants everything and
// "resource:*" grants every action on resource.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionAll || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res != "" && res == reqRes && string(act) == Wildcard
}
