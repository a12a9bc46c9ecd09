// Package history implements the command history engine behind the task
// timeline.
//
// A History is a rooted tree of executed commands. New commands are always
// attached under a single cursor (the current node). Reverting walks the
// cursor toward the root and marks the whole subtree under the landing node
// as reverted; nodes are never removed. Named checkpoints are non-owning
// bookmarks into the tree and are not part of the persisted form.
//
// The engine performs no I/O and no locking. Each task session owns its own
// History; persistence goes through the store subpackage.
package history
