package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is one parsed segment of an attribute path; segments chain
// through Next. Exactly one of Field (with Index < 0), Index >= 0,
// Any, or Deep describes a segment.
type Path struct {
	Field string
	Index int // -1 unless this segment is a sequence index
	Any   bool
	Deep  bool
	Next  *Path
}

// ParsePath parses a '/'-separated attribute path. A segment "key:2"
// expands into a field step followed by an index step; ":2" alone is
// a bare index step. "*" and "**" are wildcard segments, only
// meaningful to Resolve.
func ParsePath(s string) (*Path, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	var head, tail *Path
	link := func(p *Path) {
		if head == nil {
			head = p
		} else {
			tail.Next = p
		}
		tail = p
	}
	for _, seg := range strings.Split(s, "/") {
		switch seg {
		case "":
			return nil, fmt.Errorf("%w: empty segment in %q", ErrBadPath, s)
		case "*":
			link(&Path{Any: true, Index: -1})
			continue
		case "**":
			link(&Path{Deep: true, Index: -1})
			continue
		}
		parts := strings.Split(seg, ":")
		if parts[0] != "" {
			if strings.ContainsAny(parts[0], "*") {
				return nil, fmt.Errorf("%w: wildcard inside segment %q", ErrBadPath, seg)
			}
			link(&Path{Field: parts[0], Index: -1})
		}
		for _, idx := range parts[1:] {
			i, err := strconv.Atoi(idx)
			if err != nil || i < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrBadPath, idx, s)
			}
			link(&Path{Index: i})
		}
	}
	if head == nil {
		return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
	}
	return head, nil
}

func (p *Path) segString() string {
	switch {
	case p.Any:
		return "*"
	case p.Deep:
		return "**"
	case p.Index >= 0:
		return ":" + strconv.Itoa(p.Index)
	default:
		return p.Field
	}
}

// Get returns the value at path. Traversal through a missing key or
// an out-of-range index fails with a PathError; wildcards are not
// allowed here.
func (n *Node) Get(path string) (*Node, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	cur := n
	for ; p != nil; p = p.Next {
		if p.Any || p.Deep {
			return nil, fmt.Errorf("%w: wildcard %q in get %q", ErrBadPath, p.segString(), path)
		}
		next, ok := step(cur, p)
		if !ok {
			return nil, &PathError{Op: "get", Path: path, Seg: p.segString()}
		}
		cur = next
	}
	return cur, nil
}

// Set writes value at path. Every intermediate segment must already
// exist; the final segment may name a new object key. SetCreate also
// creates missing intermediate objects.
func (n *Node) Set(path string, v *Node) error {
	return n.set(path, v, false)
}

func (n *Node) SetCreate(path string, v *Node) error {
	return n.set(path, v, true)
}

func (n *Node) set(path string, v *Node, create bool) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	cur := n
	for ; p.Next != nil; p = p.Next {
		if p.Any || p.Deep {
			return fmt.Errorf("%w: wildcard %q in set %q", ErrBadPath, p.segString(), path)
		}
		next, ok := step(cur, p)
		if !ok {
			if !create || p.Index >= 0 || cur.Type != ObjectType {
				return &PathError{Op: "set", Path: path, Seg: p.segString()}
			}
			next = NewObject()
			cur.SetField(p.Field, next)
		}
		cur = next
	}
	switch {
	case p.Any || p.Deep:
		return fmt.Errorf("%w: wildcard %q in set %q", ErrBadPath, p.segString(), path)
	case p.Index >= 0:
		if cur.Type != ArrayType || p.Index >= len(cur.Values) {
			return &PathError{Op: "set", Path: path, Seg: p.segString()}
		}
		cur.Values[p.Index] = v
	default:
		if cur.Type != ObjectType {
			return &PathError{Op: "set", Path: path, Seg: p.segString()}
		}
		cur.SetField(p.Field, v)
	}
	return nil
}

func step(n *Node, p *Path) (*Node, bool) {
	if p.Index >= 0 {
		if n.Type != ArrayType || p.Index >= len(n.Values) {
			return nil, false
		}
		return n.Values[p.Index], true
	}
	return n.Field(p.Field)
}

// Match pairs a concrete path with the value found there.
type Match struct {
	Path string
	Node *Node
}

// Resolve returns every path/value pair matching path. '*' expands
// over all entries of a map or all indices of a sequence. '**'
// searches breadth-first beneath the current point for the next named
// key and matches at the shallowest depth where any match occurs. A
// path that matches nothing yields an empty result, not an error.
func (n *Node) Resolve(path string) ([]Match, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return resolve(n, p, "", nil)
}

func resolve(n *Node, p *Path, prefix string, dst []Match) ([]Match, error) {
	if p == nil {
		return append(dst, Match{Path: prefix, Node: n}), nil
	}
	var err error
	switch {
	case p.Deep:
		return resolveDeep(n, p, prefix, dst)
	case p.Any:
		switch n.Type {
		case ObjectType:
			for i, f := range n.Fields {
				dst, err = resolve(n.Values[i], p.Next, joinField(prefix, f), dst)
				if err != nil {
					return nil, err
				}
			}
		case ArrayType:
			for i, v := range n.Values {
				dst, err = resolve(v, p.Next, joinIndex(prefix, i), dst)
				if err != nil {
					return nil, err
				}
			}
		}
		return dst, nil
	case p.Index >= 0:
		if n.Type == ArrayType && p.Index < len(n.Values) {
			return resolve(n.Values[p.Index], p.Next, joinIndex(prefix, p.Index), dst)
		}
		return dst, nil
	default:
		if v, ok := n.Field(p.Field); ok {
			return resolve(v, p.Next, joinField(prefix, p.Field), dst)
		}
		return dst, nil
	}
}

// resolveDeep handles the '**' wildcard: a breadth-first search for
// the next named key, stopping at the shallowest level that matches.
func resolveDeep(n *Node, p *Path, prefix string, dst []Match) ([]Match, error) {
	next := p.Next
	if next == nil || next.Field == "" || next.Index >= 0 || next.Any || next.Deep {
		return nil, fmt.Errorf("%w: '**' must be followed by a named key", ErrBadPath)
	}
	type queued struct {
		node   *Node
		prefix string
	}
	level := []queued{{n, prefix}}
	for len(level) > 0 {
		var (
			found bool
			err   error
			down  []queued
		)
		for _, q := range level {
			if v, ok := q.node.Field(next.Field); ok {
				found = true
				dst, err = resolve(v, next.Next, joinField(q.prefix, next.Field), dst)
				if err != nil {
					return nil, err
				}
			}
		}
		if found {
			return dst, nil
		}
		for _, q := range level {
			switch q.node.Type {
			case ObjectType:
				for i, f := range q.node.Fields {
					down = append(down, queued{q.node.Values[i], joinField(q.prefix, f)})
				}
			case ArrayType:
				for i, v := range q.node.Values {
					down = append(down, queued{v, joinIndex(q.prefix, i)})
				}
			}
		}
		level = down
	}
	return dst, nil
}

func joinField(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "/" + field
}

func joinIndex(prefix string, i int) string {
	return prefix + ":" + strconv.Itoa(i)
}
