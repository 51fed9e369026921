// Package actor defines the collaborator boundary for the directive engine:
// the actor a sequence runs against, the capability providers conditions are
// evaluated with, and the effector that performs host-platform effects.
package actor

// Actor is the subject conditions and effects apply to, typically a
// connected user or session.
type Actor interface {
	// ID identifies the actor for logs and execution records.
	ID() string

	// Available reports whether the actor can still receive effects. The
	// executor checks this before every action and stops the sequence when
	// it turns false.
	Available() bool
}

// PermissionChecker answers permission queries for an actor. Implementations
// live outside this subsystem (a permissions plugin, an ACL service).
type PermissionChecker interface {
	CheckPermission(a Actor, node string) (bool, error)
}

// PlaceholderResolver resolves placeholder keys to their current value for
// an actor. A missing key resolves to the empty string.
type PlaceholderResolver interface {
	ResolvePlaceholder(a Actor, key string) (string, error)
}

// Effector performs the host-platform side of each action type. Every
// method is invoked synchronously by the executor; an error return marks
// that single action failed without aborting the sequence.
type Effector interface {
	SendText(a Actor, text string) error
	ShowActionBar(a Actor, text string) error
	PlaySound(a Actor, name string, volume, pitch float64) error
	ShowTitle(a Actor, title, subtitle string, fadeIn, stay, fadeOut int) error
	RunAsActor(a Actor, command string) error
	RunAsHost(a Actor, command string) error
}

// PermissionFunc adapts a function to the PermissionChecker interface.
type PermissionFunc func(a Actor, node string) (bool, error)

// CheckPermission implements PermissionChecker.
func (f PermissionFunc) CheckPermission(a Actor, node string) (bool, error) {
	return f(a, node)
}

// ResolverFunc adapts a function to the PlaceholderResolver interface.
type ResolverFunc func(a Actor, key string) (string, error)

// ResolvePlaceholder implements PlaceholderResolver.
func (f ResolverFunc) ResolvePlaceholder(a Actor, key string) (string, error) {
	return f(a, key)
}
