package gate

import "context"

// Policy adds object-level rules for a resource on top of the profile check.
type Policy[S any] interface {
	// Can reports whether subject may perform action on obj.
	Can(ctx context.Context, subject S, action Action, obj any) bool
}

// Gate combines profile permissions with resource policies.
// Authorization flow:
//  1. The subject's profile must grant resource:action
//  2. If a policy is registered for resource and obj is non-nil, it must allow obj
type Gate[S any] struct {
	profileOf func(S) *Profile
	policies  map[string]Policy[S]
}

// New creates a gate. profileOf maps a subject to its profile; a nil
// profile denies everything.
func New[S any](profileOf func(S) *Profile) *Gate[S] {
	return &Gate[S]{
		profileOf: profileOf,
		policies:  make(map[string]Policy[S]),
	}
}

// Register adds a resource policy.
func (g *Gate[S]) Register(resource string, p Policy[S]) {
	g.policies[resource] = p
}

// Allows checks only the profile permission.
func (g *Gate[S]) Allows(subject S, action Action, resource string) bool {
	return g.profileOf(subject).Allows(NewPermission(resource, action))
}

// Authorize returns nil when subject may perform action on obj of resource.
func (g *Gate[S]) Authorize(ctx context.Context, subject S, action Action, resource string, obj any) error {
	if !g.Allows(subject, action, resource) {
		return ErrForbidden
	}
	if obj != nil {
		if p, ok := g.policies[resource]; ok && !p.Can(ctx, subject, action, obj) {
			return ErrForbidden
		}
	}
	return nil
}
