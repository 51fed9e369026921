package actor

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConsoleActor is a fully local actor backed by an io.Writer. It implements
// Actor, both capability providers, and Effector, which makes it suitable
// for the CLI commands and for exercising the engine without a host
// platform.
type ConsoleActor struct {
	name string
	out  io.Writer

	mu           sync.RWMutex
	available    bool
	permissions  map[string]struct{}
	placeholders map[string]string
}

// NewConsoleActor creates a console actor writing effects to out.
func NewConsoleActor(name string, out io.Writer) *ConsoleActor {
	return &ConsoleActor{
		name:         name,
		out:          out,
		available:    true,
		permissions:  make(map[string]struct{}),
		placeholders: make(map[string]string),
	}
}

// ID implements Actor.
func (c *ConsoleActor) ID() string { return c.name }

// Available implements Actor.
func (c *ConsoleActor) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// SetAvailable toggles the actor's availability.
func (c *ConsoleActor) SetAvailable(available bool) {
	c.mu.Lock()
	c.available = available
	c.mu.Unlock()
}

// Grant grants a permission node to the actor.
func (c *ConsoleActor) Grant(nodes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, node := range nodes {
		c.permissions[strings.ToLower(node)] = struct{}{}
	}
}

// SetPlaceholder sets a placeholder value.
func (c *ConsoleActor) SetPlaceholder(key, value string) {
	c.mu.Lock()
	c.placeholders[key] = value
	c.mu.Unlock()
}

// CheckPermission implements PermissionChecker. Only the receiver's own
// permission set is consulted; the Actor argument exists to satisfy the
// interface shared with real platform providers.
func (c *ConsoleActor) CheckPermission(_ Actor, node string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.permissions[strings.ToLower(node)]
	return ok, nil
}

// ResolvePlaceholder implements PlaceholderResolver.
func (c *ConsoleActor) ResolvePlaceholder(_ Actor, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.placeholders[key], nil
}

// SendText implements Effector.
func (c *ConsoleActor) SendText(_ Actor, text string) error {
	return c.write("tell", text)
}

// ShowActionBar implements Effector.
func (c *ConsoleActor) ShowActionBar(_ Actor, text string) error {
	return c.write("actionbar", text)
}

// PlaySound implements Effector.
func (c *ConsoleActor) PlaySound(_ Actor, name string, volume, pitch float64) error {
	return c.write("sound", fmt.Sprintf("%s volume=%g pitch=%g", name, volume, pitch))
}

// ShowTitle implements Effector.
func (c *ConsoleActor) ShowTitle(_ Actor, title, subtitle string, fadeIn, stay, fadeOut int) error {
	return c.write("title", fmt.Sprintf("%q %q %d/%d/%d", title, subtitle, fadeIn, stay, fadeOut))
}

// RunAsActor implements Effector.
func (c *ConsoleActor) RunAsActor(_ Actor, command string) error {
	return c.write("command", command)
}

// RunAsHost implements Effector.
func (c *ConsoleActor) RunAsHost(_ Actor, command string) error {
	return c.write("console", command)
}

func (c *ConsoleActor) write(kind, line string) error {
	_, err := fmt.Fprintf(c.out, "[%s] %s\n", kind, line)
	return err
}
