package ast

// CommentRegistry is the side table mapping AST nodes to their leading
// comment text (spec.md §2 row 1: "a side-table mapping AST nodes to
// leading comments"). It is owned by the pipeline driver for the duration
// of one compilation and passed by reference into each pass (spec.md §9).
//
// Node identity is pointer identity: there is no separate node-ID
// allocator, so a map keyed by *Node plays that role directly.
type CommentRegistry struct {
	byNode map[*Node]string
}

// NewCommentRegistry returns an empty registry.
func NewCommentRegistry() *CommentRegistry {
	return &CommentRegistry{byNode: make(map[*Node]string)}
}

// Set attaches verbatim comment text to a node, overwriting any existing
// entry.
func (r *CommentRegistry) Set(n *Node, text string) {
	if r == nil || n == nil {
		return
	}
	r.byNode[n] = text
}

// Get returns the comment text attached to n, and whether one exists.
func (r *CommentRegistry) Get(n *Node) (string, bool) {
	if r == nil || n == nil {
		return "", false
	}
	text, ok := r.byNode[n]
	return text, ok
}

// Move re-associates whatever comment was attached to from onto to, and
// clears from's entry. Used when the type-annotation pass replaces a
// parameter Node with a new REST node (spec.md §4.1) — the comment
// travels with the identifier, not the original node pointer.
func (r *CommentRegistry) Move(from, to *Node) {
	if r == nil || from == nil || to == nil {
		return
	}
	if text, ok := r.byNode[from]; ok {
		r.byNode[to] = text
		delete(r.byNode, from)
	}
}

// Delete removes any comment attached to n.
func (r *CommentRegistry) Delete(n *Node) {
	if r == nil || n == nil {
		return
	}
	delete(r.byNode, n)
}
