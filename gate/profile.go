package gate

// Profile is a named set of permissions.
type Profile struct {
	name        string
	permissions []Permission
}

// NewProfile creates a profile with the given permissions.
func NewProfile(name string, permissions ...Permission) *Profile {
	return &Profile{name: name, permissions: permissions}
}

func (p *Profile) Name() string { return p.name }

// Permissions returns a copy of the granted permissions.
func (p *Profile) Permissions() []Permission {
	out := make([]Permission, len(p.permissions))
	copy(out, p.permissions)
	return out
}

// Allows reports whether any granted permission matches requested.
func (p *Profile) Allows(requested Permission) bool {
	if p == nil {
		return false
	}
	for _, perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}
