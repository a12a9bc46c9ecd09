package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the lifecycle state of a command node
type Status string

const (
	// StatusPending is the state of a node that has no result yet
	StatusPending Status = "pending"
	// StatusSuccess indicates the command finished successfully
	StatusSuccess Status = "success"
	// StatusError indicates the command failed
	StatusError Status = "error"
	// StatusReverted marks nodes rolled back by a revert
	StatusReverted Status = "reverted"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusError, StatusReverted:
		return true
	}
	return false
}

// ErrResultAlreadySet is returned when SetResult is called on a node that already has a result
var ErrResultAlreadySet = errors.New("result already set")

// ErrNullNode is returned when a serialized tree holds null in place of a node
var ErrNullNode = errors.New("null command node")

// Result is the outcome of an executed command
type Result struct {
	Success bool `json:"success"`
	Error   any  `json:"error,omitempty"`
}

// Node is a single executed command in the history tree
type Node struct {
	ID        int            // Session-local sequence number, not persisted
	Command   string         // Opaque payload
	Timestamp int64          // Creation time in milliseconds
	Metadata  map[string]any // Caller-owned values, must be JSON-serializable
	Status    Status
	Result    *Result
	Children  []*Node

	parent *Node
}

// NewNode creates a pending node with no parent and no children
func NewNode(command string, timestamp int64, metadata map[string]any) *Node {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Node{
		Command:   command,
		Timestamp: timestamp,
		Metadata:  metadata,
		Status:    StatusPending,
	}
}

// Parent returns the node's parent, or nil for a root
func (n *Node) Parent() *Node {
	return n.parent
}

// AddChild attaches node as the last child of n and returns it.
// The node must not already have a parent.
func (n *Node) AddChild(node *Node) *Node {
	node.parent = n
	n.Children = append(n.Children, node)
	return node
}

// SetResult records the command outcome and moves the node to success or error
func (n *Node) SetResult(result Result) error {
	if n.Result != nil {
		return fmt.Errorf("%w on %q", ErrResultAlreadySet, n.Command)
	}
	n.Result = &result
	if result.Success {
		n.Status = StatusSuccess
	} else {
		n.Status = StatusError
	}
	return nil
}

// Revert marks n and every descendant as reverted
func (n *Node) Revert() {
	n.Status = StatusReverted
	for _, child := range n.Children {
		child.Revert()
	}
}

// Walk visits n and its descendants in pre-order with their depth relative to n
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// nodeJSON is the persisted shape of a node
type nodeJSON struct {
	Command   string         `json:"command"`
	Timestamp int64          `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
	Status    Status         `json:"status"`
	Result    *Result        `json:"result"`
	Children  []*Node        `json:"children"`
}

// MarshalJSON encodes the node and its subtree
func (n *Node) MarshalJSON() ([]byte, error) {
	metadata := n.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal(nodeJSON{
		Command:   n.Command,
		Timestamp: n.Timestamp,
		Metadata:  metadata,
		Status:    n.Status,
		Result:    n.Result,
		Children:  children,
	})
}

// UnmarshalJSON decodes a node and its subtree, rebuilding parent links
func (n *Node) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNullNode
	}
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Status == "" {
		raw.Status = StatusPending
	}
	if !raw.Status.Valid() {
		return fmt.Errorf("invalid status %q for command %q", raw.Status, raw.Command)
	}

	*n = *NewNode(raw.Command, raw.Timestamp, raw.Metadata)
	n.Status = raw.Status
	n.Result = raw.Result
	for _, child := range raw.Children {
		if child == nil {
			return fmt.Errorf("%w in children of %q", ErrNullNode, raw.Command)
		}
		n.AddChild(child)
	}
	return nil
}
