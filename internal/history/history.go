package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// RootCommand is the command text of the sentinel root node
const RootCommand = "root"

// Clock returns the current time in milliseconds
type Clock func() int64

// SystemClock reads the wall clock
func SystemClock() int64 {
	return time.Now().UnixMilli()
}

// Option configures a History
type Option func(*History)

// WithClock sets the time source used to stamp new nodes
func WithClock(clock Clock) Option {
	return func(h *History) {
		h.clock = clock
	}
}

// History is a tree of executed commands with a cursor and named checkpoints.
// It is not safe for concurrent use.
type History struct {
	root    *Node
	current *Node
	clock   Clock
	nextID  int

	branches    map[string]*Node
	branchOrder []string
}

// New creates an empty history containing only the root
func New(opts ...Option) *History {
	h := &History{clock: SystemClock}
	for _, opt := range opts {
		opt(h)
	}
	h.reset(NewNode(RootCommand, h.clock(), nil))
	return h
}

func (h *History) reset(root *Node) {
	h.root = root
	h.current = root
	h.branches = make(map[string]*Node)
	h.branchOrder = nil
	h.nextID = 0
	root.Walk(func(node *Node, _ int) {
		node.ID = h.nextID
		h.nextID++
	})
}

// Root returns the sentinel root node
func (h *History) Root() *Node {
	return h.root
}

// Current returns the cursor node
func (h *History) Current() *Node {
	return h.current
}

// Len returns the number of executed commands, excluding the root
func (h *History) Len() int {
	count := -1
	h.root.Walk(func(*Node, int) { count++ })
	return count
}

// Execute records a new command under the cursor and moves the cursor to it
func (h *History) Execute(command string, metadata map[string]any) *Node {
	node := NewNode(command, h.clock(), metadata)
	node.ID = h.nextID
	h.nextID++
	h.current.AddChild(node)
	h.current = node
	return node
}

// Revert moves the cursor up to `steps` ancestors, stopping at the root, and
// marks the entire subtree of the landing node as reverted. It returns the
// landing node.
func (h *History) Revert(steps int) *Node {
	target := h.current
	for i := 0; i < steps && target.parent != nil; i++ {
		target = target.parent
	}
	target.Revert()
	h.current = target
	return target
}

// Branch bookmarks the cursor node under name, replacing any previous bookmark
func (h *History) Branch(name string) {
	h.BranchAt(name, h.current.ID)
}

// SwitchToBranch moves the cursor to the bookmarked node.
// It returns false and leaves the cursor alone when name is unknown.
func (h *History) SwitchToBranch(name string) bool {
	node, ok := h.branches[name]
	if !ok {
		return false
	}
	h.current = node
	return true
}

// BranchAt bookmarks the node with the given ID under name. It returns false
// when no such node exists.
func (h *History) BranchAt(name string, id int) bool {
	node, ok := h.Find(id)
	if !ok {
		return false
	}
	if _, exists := h.branches[name]; !exists {
		h.branchOrder = append(h.branchOrder, name)
	}
	h.branches[name] = node
	return true
}

// Checkpoint returns the node bookmarked under name
func (h *History) Checkpoint(name string) (*Node, bool) {
	node, ok := h.branches[name]
	return node, ok
}

// MoveTo places the cursor on the node with the given ID without changing
// any status. It returns false when no such node exists.
func (h *History) MoveTo(id int) bool {
	node, ok := h.Find(id)
	if !ok {
		return false
	}
	h.current = node
	return true
}

// Checkpoints returns the bookmark names in the order they were first created
func (h *History) Checkpoints() []string {
	names := make([]string, len(h.branchOrder))
	copy(names, h.branchOrder)
	return names
}

// Find returns the node with the given ID
func (h *History) Find(id int) (*Node, bool) {
	var found *Node
	h.root.Walk(func(node *Node, _ int) {
		if found == nil && node.ID == id {
			found = node
		}
	})
	return found, found != nil
}

// StepsTo returns the number of parent hops from the cursor to the ancestor
// (or the cursor itself) with the given ID
func (h *History) StepsTo(id int) (int, bool) {
	steps := 0
	for node := h.current; node != nil; node = node.parent {
		if node.ID == id {
			return steps, true
		}
		steps++
	}
	return 0, false
}

// Save serializes the full tree rooted at the root node
func (h *History) Save() ([]byte, error) {
	data, err := json.Marshal(h.root)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return data, nil
}

// Load replaces the tree with a serialized one. The cursor is reset to the
// new root and all checkpoints are dropped. On error the history is unchanged.
func (h *History) Load(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("failed to parse history: %w", ErrNullNode)
	}
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse history: %w", err)
	}
	h.reset(&root)
	return nil
}
