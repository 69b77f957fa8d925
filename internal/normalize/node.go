// Package normalize reconciles the statistics provider's heterogeneous
// payloads — box scores, positionally-indexed game logs, alias-keyed season
// and career splits — into canonical domain records.
//
// Containment policy: one unparseable stat value is logged and skipped, never
// fatal to its record; a record whose player or team cannot be resolved is
// dropped whole, never persisted half-populated; neither aborts a batch.
package normalize

import "encoding/json"

// Node is a typed view over loosely-shaped JSON. Every accessor is total:
// missing keys, wrong types, and out-of-range indices all yield the empty
// Node or ok=false, so traversal code reads linearly without nil checks.
type Node struct {
	v interface{}
}

// ParseNode decodes raw JSON into a Node.
func ParseNode(raw []byte) (Node, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return Node{}, err
	}
	return Node{v: v}, nil
}

// Exists reports whether the node holds any value.
func (n Node) Exists() bool { return n.v != nil }

// Get returns the named field of an object node.
func (n Node) Get(key string) Node {
	if m, ok := n.v.(map[string]interface{}); ok {
		return Node{v: m[key]}
	}
	return Node{}
}

// Index returns the i-th element of an array node.
func (n Node) Index(i int) Node {
	if a, ok := n.v.([]interface{}); ok && i >= 0 && i < len(a) {
		return Node{v: a[i]}
	}
	return Node{}
}

// Arr returns the elements of an array node.
func (n Node) Arr() []Node {
	a, ok := n.v.([]interface{})
	if !ok {
		return nil
	}
	nodes := make([]Node, len(a))
	for i, v := range a {
		nodes[i] = Node{v: v}
	}
	return nodes
}

// Len returns the length of an array node, 0 otherwise.
func (n Node) Len() int {
	if a, ok := n.v.([]interface{}); ok {
		return len(a)
	}
	return 0
}

// Str returns the node as a string.
func (n Node) Str() (string, bool) {
	s, ok := n.v.(string)
	return s, ok
}

// StrOr returns the node as a string, or fallback.
func (n Node) StrOr(fallback string) string {
	if s, ok := n.Str(); ok {
		return s
	}
	return fallback
}

// Float returns the node as a float64 (JSON numbers decode as float64).
func (n Node) Float() (float64, bool) {
	f, ok := n.v.(float64)
	return f, ok
}

// Int returns the node as an int, accepting whole floats and numeric strings.
func (n Node) Int() (int, bool) {
	f, ok := numeric(n.v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns the node as a bool.
func (n Node) Bool() (bool, bool) {
	b, ok := n.v.(bool)
	return b, ok
}
