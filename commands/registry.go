package commands

import (
	"fmt"
	"slices"
	"sync"

	dgo "github.com/bwmarrin/discordgo"
)

// Registry is the table of top-level commands. It is filled before the
// gateway opens; afterwards only BindIDs writes to it.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	ids      map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		commands: map[string]Command{},
		ids:      map[string]string{},
	}
}

// Add names cmd, validates its whole tree and inserts it.
func (r *Registry) Add(name string, cmd Command) error {
	cmd.name = name
	if err := cmd.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[name]; ok {
		return &DefinitionError{Path: commandPath(name), Err: ErrDuplicateCommand}
	}
	r.commands[name] = cmd

	return nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(name string, cmd Command) {
	if err := r.Add(name, cmd); err != nil {
		panic(err)
	}
}

// Snapshot returns the definitions of every command, sorted by name.
func (r *Registry) Snapshot() ([]*dgo.ApplicationCommand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*dgo.ApplicationCommand, 0, len(r.commands))
	for _, name := range sortedKeys(r.commands) {
		def, err := r.commands[name].Definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return defs, nil
}

// BindIDs records the IDs Discord assigned to the published commands,
// matched by name. Published commands unknown to the registry are ignored.
// It returns the number of commands bound.
func (r *Registry) BindIDs(published []*dgo.ApplicationCommand) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range published {
		if p == nil || p.ID == "" {
			continue
		}
		if _, ok := r.commands[p.Name]; !ok {
			continue
		}
		r.ids[p.ID] = p.Name
		n++
	}
	return n
}

// Lookup finds a command by its Discord ID, falling back to its name.
func (r *Registry) Lookup(id, name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n, ok := r.ids[id]; ok && id != "" {
		cmd, ok := r.commands[n]
		return cmd, ok
	}
	cmd, ok := r.commands[name]
	return cmd, ok
}

// ID returns one bound ID of the named command, if any.
func (r *Registry) ID(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, 1)
	for id, n := range r.ids {
		if n == name {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", false
	}
	slices.Sort(ids)
	return ids[0], true
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.commands)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.commands)
}

func (r *Registry) String() string {
	return fmt.Sprintf("Registry(%d commands, %d ids)", r.Len(), r.boundLen())
}

func (r *Registry) boundLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ids)
}
