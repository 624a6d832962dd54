package changes

// Builder accumulates tag mutations against an original tag map. It keeps the
// original and a working copy; the change recorded for a key is always derived
// from both, so setting a key back to its original value cancels its change.
type Builder struct {
	original map[string]string
	current  map[string]string
	touched  map[string]struct{}
}

// NewBuilder creates a builder for the given original tags. The map is copied.
func NewBuilder(original map[string]string) *Builder {
	return &Builder{
		original: copyTags(original),
		current:  copyTags(original),
		touched:  make(map[string]struct{}),
	}
}

// Get returns the current value of key
func (b *Builder) Get(key string) (string, bool) {
	v, ok := b.current[key]
	return v, ok
}

// Contains returns true if key currently has a value
func (b *Builder) Contains(key string) bool {
	_, ok := b.current[key]
	return ok
}

// Original returns the original value of key
func (b *Builder) Original(key string) (string, bool) {
	v, ok := b.original[key]
	return v, ok
}

// Set sets key to value
func (b *Builder) Set(key, value string) {
	b.current[key] = value
	b.touched[key] = struct{}{}
}

// Remove removes key. Removing a key without value is a no-op.
func (b *Builder) Remove(key string) {
	if _, ok := b.current[key]; !ok {
		return
	}
	delete(b.current, key)
	b.touched[key] = struct{}{}
}

// HasChanges returns true if the current tags differ from the original
func (b *Builder) HasChanges() bool {
	for key := range b.touched {
		if _, changed := diffKey(key, b.original, b.current); changed {
			return true
		}
	}
	return false
}

// Changes returns the changes recorded so far
func (b *Builder) Changes() ChangeSet {
	cs := make(ChangeSet, 0, len(b.touched))
	for key := range b.touched {
		if c, changed := diffKey(key, b.original, b.current); changed {
			cs = append(cs, c)
		}
	}
	cs.sort()
	return cs
}

// Create returns the changes and the resulting tags
func (b *Builder) Create() (ChangeSet, map[string]string) {
	return b.Changes(), copyTags(b.current)
}
