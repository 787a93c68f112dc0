package cmd

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNilCommand       = errors.New("command is nil")
	ErrEmptyName        = errors.New("command name is empty")
	ErrDuplicateCommand = errors.New("duplicate command name")
	ErrSealed           = errors.New("registry is sealed")
)

// Registry stores commands by name. It does not perform dispatch; each adapter
// (CLI, Discord) looks up commands and invokes them with its own context.
//
// A registry is filled during start-up and sealed before dispatch begins.
// Reads are safe from any goroutine.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	sealed   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command. A second command with the same name is rejected
// rather than shadowing the first one.
func (r *Registry) Register(c Command) error {
	if c == nil {
		return ErrNilCommand
	}
	name := c.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrSealed, name)
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, name)
	}
	r.commands[name] = c
	return nil
}

// MustRegister is Register for start-up code; it panics on error.
func (r *Registry) MustRegister(c Command) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// GetAll returns a snapshot of all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Seal freezes the registry. Later calls to Register fail with ErrSealed.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}
