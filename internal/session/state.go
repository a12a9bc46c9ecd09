package session

import (
	"encoding/json"
	"slices"

	"taskshell.dev/taskshell/internal/history"
)

// The cursor and checkpoints are kept in the root node's metadata so they
// survive a reload. Nodes are addressed by their child-index path from the
// root because IDs are reassigned on load.
const (
	cursorKey      = "cursor"
	checkpointsKey = "checkpoints"
)

type savedCheckpoint struct {
	Name string `json:"name"`
	Path []int  `json:"path"`
}

func pathOf(node *history.Node) []int {
	path := []int{}
	for n := node; n.Parent() != nil; n = n.Parent() {
		path = append(path, slices.Index(n.Parent().Children, n))
	}
	slices.Reverse(path)
	return path
}

func nodeAt(root *history.Node, path []int) *history.Node {
	node := root
	for _, i := range path {
		if i < 0 || i >= len(node.Children) {
			return nil
		}
		node = node.Children[i]
	}
	return node
}

// storeState records the cursor and checkpoints on the root node
func storeState(h *history.History) {
	checkpoints := []savedCheckpoint{}
	for _, name := range h.Checkpoints() {
		if node, ok := h.Checkpoint(name); ok {
			checkpoints = append(checkpoints, savedCheckpoint{Name: name, Path: pathOf(node)})
		}
	}
	root := h.Root()
	if root.Metadata == nil {
		root.Metadata = map[string]any{}
	}
	root.Metadata[cursorKey] = pathOf(h.Current())
	root.Metadata[checkpointsKey] = checkpoints
}

// decodeMeta converts a metadata value decoded as generic JSON into out
func decodeMeta(value any, out any) bool {
	if value == nil {
		return false
	}
	data, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// restoreState reapplies the cursor and checkpoints recorded by storeState.
// Entries that no longer resolve to a node are ignored.
func restoreState(h *history.History) {
	root := h.Root()

	var checkpoints []savedCheckpoint
	if decodeMeta(root.Metadata[checkpointsKey], &checkpoints) {
		for _, cp := range checkpoints {
			if node := nodeAt(root, cp.Path); node != nil && cp.Name != "" {
				h.BranchAt(cp.Name, node.ID)
			}
		}
	}

	var cursor []int
	if decodeMeta(root.Metadata[cursorKey], &cursor) {
		if node := nodeAt(root, cursor); node != nil {
			h.MoveTo(node.ID)
		}
	}
}
