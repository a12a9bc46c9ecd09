package history

// Entry is one line of the flattened history view
type Entry struct {
	ID        int
	Command   string
	Timestamp int64
	Status    Status
	Metadata  map[string]any
	Level     int      // Depth from the root; root children are level 1
	IsCurrent bool     // True for the cursor node
	Branches  []string // Checkpoints pointing at this node, in creation order
}

// Notes returns the free-text notes stored in the entry's metadata
func (e Entry) Notes() string {
	notes, _ := e.Metadata["notes"].(string)
	return notes
}

// Entries flattens the tree in pre-order, skipping the root. Siblings appear
// in execution order and every parent precedes its children.
func (h *History) Entries() []Entry {
	labels := make(map[*Node][]string, len(h.branches))
	for _, name := range h.branchOrder {
		node := h.branches[name]
		labels[node] = append(labels[node], name)
	}

	var entries []Entry
	h.root.Walk(func(node *Node, depth int) {
		if node == h.root {
			return
		}
		branches := labels[node]
		if branches == nil {
			branches = []string{}
		}
		entries = append(entries, Entry{
			ID:        node.ID,
			Command:   node.Command,
			Timestamp: node.Timestamp,
			Status:    node.Status,
			Metadata:  node.Metadata,
			Level:     depth,
			IsCurrent: node == h.current,
			Branches:  branches,
		})
	})
	return entries
}
