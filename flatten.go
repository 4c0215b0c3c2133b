// FILE: lixenwraith/envdot/flatten.go
package envdot

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// DefaultSeparator joins path segments of flat keys.
const DefaultSeparator = "_"

// Flattener converts nested structures to flat keys and back.
type Flattener struct {
	// Separator between path segments, DefaultSeparator when empty
	Separator string
}

var defaultFlattener = Flattener{Separator: DefaultSeparator}

// Flatten reduces a nested structure to a flat ordered mapping using "_" as separator.
func Flatten(data any, prefix string) (*FlatMap, error) {
	return defaultFlattener.Flatten(data, prefix)
}

// Unflatten rebuilds a nested structure from flat keys using "_" as separator.
func Unflatten(flat *FlatMap) Object {
	return defaultFlattener.Unflatten(flat)
}

func (f Flattener) sep() string {
	if f.Separator == "" {
		return DefaultSeparator
	}
	return f.Separator
}

// Flatten walks mappings, sequences and scalars. Mapping keys are upper-cased and
// joined to the prefix; sequence elements use their index as segment.
// Two input paths that normalize to the same flat key fail with ErrParse.
func (f Flattener) Flatten(data any, prefix string) (*FlatMap, error) {
	out := NewFlatMap()
	origin := make(map[string]string)
	if err := f.walk(out, origin, prefix, prefix, data); err != nil {
		return nil, err
	}
	return out, nil
}

// walk carries both the flat key and the source path, the latter only for collision messages.
func (f Flattener) walk(out *FlatMap, origin map[string]string, key, path string, data any) error {
	switch v := data.(type) {
	case Object:
		for _, m := range v {
			if err := f.walkMember(out, origin, key, path, m.Key, m.Value); err != nil {
				return err
			}
		}
		return nil
	case *Object:
		if v == nil {
			return f.leaf(out, origin, key, path, "")
		}
		return f.walk(out, origin, key, path, *v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := f.walkMember(out, origin, key, path, k, v[k]); err != nil {
				return err
			}
		}
		return nil
	case map[any]any:
		keys := make([]string, 0, len(v))
		values := make(map[string]any, len(v))
		for k, val := range v {
			ks := ToString(k)
			keys = append(keys, ks)
			values[ks] = val
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := f.walkMember(out, origin, key, path, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	case json.Number:
		return f.leaf(out, origin, key, path, v.String())
	case string, []byte, nil:
		return f.leaf(out, origin, key, path, ToString(v))
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			idx := strconv.Itoa(i)
			if err := f.walk(out, origin, f.join(key, idx), f.joinPath(path, idx), rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		// Other map types, e.g. map[string]string
		generic := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			generic[ToString(iter.Key().Interface())] = iter.Value().Interface()
		}
		return f.walk(out, origin, key, path, generic)
	}
	return f.leaf(out, origin, key, path, ToString(data))
}

func (f Flattener) walkMember(out *FlatMap, origin map[string]string, key, path, name string, value any) error {
	return f.walk(out, origin, f.join(key, strings.ToUpper(name)), f.joinPath(path, name), value)
}

func (f Flattener) leaf(out *FlatMap, origin map[string]string, key, path, value string) error {
	if key == "" {
		return fmt.Errorf("%w: scalar value at top level has no key", ErrParse)
	}
	if prev, exists := origin[key]; exists {
		return fmt.Errorf("%w: key collision on %s between %q and %q", ErrParse, key, prev, path)
	}
	origin[key] = path
	out.Set(key, value)
	return nil
}

func (f Flattener) join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + f.sep() + segment
}

func (f Flattener) joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}

// trieNode is one path segment during Unflatten.
type trieNode struct {
	value    string
	hasValue bool
	order    []string
	children map[string]*trieNode
}

func (n *trieNode) child(segment string) *trieNode {
	if n.children == nil {
		n.children = make(map[string]*trieNode)
	}
	c, ok := n.children[segment]
	if !ok {
		c = &trieNode{}
		n.children[segment] = c
		n.order = append(n.order, segment)
	}
	return c
}

// Unflatten splits keys on the separator and rebuilds nested mappings. A node whose
// children are exactly the indices 0..n-1 becomes a sequence. Keys that cannot nest,
// because a segment is empty or a node would be both a leaf and a parent, are kept
// literal at their parent so that flattening the result yields the input keys again.
// Leaves are raw strings.
func (f Flattener) Unflatten(flat *FlatMap) Object {
	root := &trieNode{}
	for _, key := range flat.keys {
		segments := strings.Split(key, f.sep())
		if hasEmptySegment(segments) {
			segments = []string{key}
		}
		node := root
		for _, seg := range segments {
			node = node.child(seg)
		}
		node.value = flat.values[key]
		node.hasValue = true
	}
	return f.buildObject(root)
}

func hasEmptySegment(segments []string) bool {
	for _, s := range segments {
		if s == "" {
			return true
		}
	}
	return false
}

// buildObject emits the children of n as an Object.
func (f Flattener) buildObject(n *trieNode) Object {
	obj := make(Object, 0, len(n.order))
	for _, seg := range n.order {
		f.emit(&obj, seg, n.children[seg])
	}
	return obj
}

// emit adds the member(s) produced by node c reached through segment seg.
func (f Flattener) emit(obj *Object, seg string, c *trieNode) {
	if len(c.children) == 0 {
		*obj = append(*obj, Member{Key: seg, Value: c.value})
		return
	}
	if c.hasValue {
		// Both a leaf and a parent: keep this key and every key below it literal
		*obj = append(*obj, Member{Key: seg, Value: c.value})
		f.emitLiteral(obj, seg, c)
		return
	}
	if seq, ok := f.buildSequence(c); ok {
		*obj = append(*obj, Member{Key: seg, Value: seq})
		return
	}
	*obj = append(*obj, Member{Key: seg, Value: f.buildObject(c)})
}

// emitLiteral appends every descendant of c as a flat member prefixed by path.
func (f Flattener) emitLiteral(obj *Object, path string, c *trieNode) {
	for _, seg := range c.order {
		child := c.children[seg]
		key := path + f.sep() + seg
		if child.hasValue {
			*obj = append(*obj, Member{Key: key, Value: child.value})
		}
		f.emitLiteral(obj, key, child)
	}
}

// buildSequence returns the children of c as a slice when they are the dense run 0..n-1.
func (f Flattener) buildSequence(c *trieNode) ([]any, bool) {
	n := len(c.children)
	for i := 0; i < n; i++ {
		if _, ok := c.children[strconv.Itoa(i)]; !ok {
			return nil, false
		}
	}
	seq := make([]any, n)
	for i := 0; i < n; i++ {
		child := c.children[strconv.Itoa(i)]
		switch {
		case len(child.children) == 0:
			seq[i] = child.value
		case child.hasValue:
			// An element cannot be both scalar and container
			return nil, false
		default:
			if inner, ok := f.buildSequence(child); ok {
				seq[i] = inner
			} else {
				seq[i] = f.buildObject(child)
			}
		}
	}
	return seq, true
}
