package modals

// Name selects a registered modal kind.
type Name string

// The closed set of modal kinds. Each one needs an entry in the registry
// built by package views.
const (
	EditProject Name = "EditProject"
	EditClient  Name = "EditClient"
	AddProject  Name = "AddProject"
	AddClient   Name = "AddClient"
	Confirm     Name = "Confirm"
	SaveReport  Name = "SaveReport"
	AddInvite   Name = "AddInvite"
)

// Names lists every modal kind in registry order.
var Names = []Name{EditProject, EditClient, AddProject, AddClient, Confirm, SaveReport, AddInvite}

// Entry is one open modal instance.
type Entry struct {
	// Key is unique per instance and stable for its lifetime.
	Key   string
	Name  Name
	Props any
}

// Stack is the ordered list of open modals. Index 0 is the bottom; the last
// entry is the top and the only interactive one.
//
// Stack methods never modify the receiver.
type Stack []Entry

// Push returns s with a new entry on top.
func (s Stack) Push(key string, name Name, props any) Stack {
	out := make(Stack, len(s), len(s)+1)
	copy(out, s)
	return append(out, Entry{Key: key, Name: name, Props: props})
}

// Replace returns a stack holding only the given entry.
func Replace(key string, name Name, props any) Stack {
	return Stack{{Key: key, Name: name, Props: props}}
}

// Pop removes the last entry named name, or the top entry when name is
// empty. Without a match the stack is returned unchanged.
func (s Stack) Pop(name Name) Stack {
	idx := len(s) - 1
	if name != "" {
		idx = s.LastIndex(name)
	}
	if idx < 0 {
		return s
	}
	return s.without(idx)
}

// PopTop removes the top entry. It is a no-op on an empty stack.
func (s Stack) PopTop() Stack {
	return s.Pop("")
}

// PopKey removes the entry with the given key, if present.
func (s Stack) PopKey(key string) Stack {
	idx := s.IndexKey(key)
	if idx < 0 {
		return s
	}
	return s.without(idx)
}

// Unshift removes the first entry named name, if present.
func (s Stack) Unshift(name Name) Stack {
	idx := s.FirstIndex(name)
	if idx < 0 {
		return s
	}
	return s.without(idx)
}

// Top returns the interactive entry.
func (s Stack) Top() (Entry, bool) {
	if len(s) == 0 {
		return Entry{}, false
	}
	return s[len(s)-1], true
}

// Find returns the entry with the given key.
func (s Stack) Find(key string) (Entry, bool) {
	if idx := s.IndexKey(key); idx >= 0 {
		return s[idx], true
	}
	return Entry{}, false
}

// LastIndex returns the index of the last entry named name, or -1.
func (s Stack) LastIndex(name Name) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Name == name {
			return i
		}
	}
	return -1
}

// FirstIndex returns the index of the first entry named name, or -1.
func (s Stack) FirstIndex(name Name) int {
	for i, e := range s {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// IndexKey returns the index of the entry with the given key, or -1.
func (s Stack) IndexKey(key string) int {
	for i, e := range s {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Names returns the entry names bottom to top.
func (s Stack) Names() []Name {
	out := make([]Name, len(s))
	for i, e := range s {
		out[i] = e.Name
	}
	return out
}

// without returns a copy of s minus the entry at idx. idx must be in range.
func (s Stack) without(idx int) Stack {
	out := make(Stack, 0, len(s)-1)
	out = append(out, s[:idx]...)
	return append(out, s[idx+1:]...)
}
