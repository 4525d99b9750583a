package tree

import (
	"fmt"
	"reflect"

	"github.com/cnf/structhash"
)

// Node is implemented by every typed parse-tree value this package
// constructs: Record, Infix, Prefix, and Postfix.
type Node interface {
	// Fields returns the node's field names in declaration order.
	Fields() []string
	// Get returns the value stored under name, and whether it was found.
	Get(name string) (interface{}, bool)
}

// Record is the named-field node `class`-defined rules construct. Field
// order is preserved exactly as declared in the grammar source (§3.2).
type Record struct {
	Type       string
	fieldNames []string
	values     map[string]interface{}
}

// NewRecord builds a Record named typeName with the given fields and
// corresponding values (values[i] goes under fieldNames[i]).
func NewRecord(typeName string, fieldNames []string, values []interface{}) *Record {
	r := &Record{Type: typeName, fieldNames: append([]string(nil), fieldNames...), values: make(map[string]interface{}, len(fieldNames))}
	for i, name := range fieldNames {
		if i < len(values) {
			r.values[name] = values[i]
		}
	}
	return r
}

func (r *Record) Fields() []string { return r.fieldNames }

func (r *Record) Get(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) String() string {
	return fmt.Sprintf("%s%v", r.Type, r.orderedValues())
}

func (r *Record) orderedValues() []interface{} {
	out := make([]interface{}, len(r.fieldNames))
	for i, name := range r.fieldNames {
		out[i] = r.values[name]
	}
	return out
}

// Equal reports whether two Nodes are structurally equal: same concrete
// type and identical field values, compared via structhash digests
// (§3.2: "Equality is structural over those fields").
func Equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	ha, errA := structhash.Hash(normalize(a), 1)
	hb, errB := structhash.Hash(normalize(b), 1)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return ha == hb
}

// normalize converts Nodes into a shape structhash can walk field-by-field
// (it reflects over exported struct fields and map/slice contents; our
// Record keeps its fields in an unexported map, so normalize projects
// that into an ordered, hashable slice-of-pairs instead).
func normalize(v interface{}) interface{} {
	switch n := v.(type) {
	case *Record:
		pairs := make([]struct {
			Name  string
			Value interface{}
		}, len(n.fieldNames))
		for i, name := range n.fieldNames {
			pairs[i] = struct {
				Name  string
				Value interface{}
			}{Name: name, Value: normalize(n.values[name])}
		}
		return struct {
			Type   string
			Fields interface{}
		}{Type: n.Type, Fields: pairs}
	case *Infix:
		return struct{ Left, Op, Right interface{} }{normalize(n.Left), normalize(n.Op), normalize(n.Right)}
	case *Prefix:
		return struct{ Op, Right interface{} }{normalize(n.Op), normalize(n.Right)}
	case *Postfix:
		return struct{ Left, Op interface{} }{normalize(n.Left), normalize(n.Op)}
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// Infix is the generic node built by operator-precedence climbing for
// binary operators (§3.2).
type Infix struct {
	Left  interface{}
	Op    interface{}
	Right interface{}
}

func (n *Infix) Fields() []string { return []string{"left", "op", "right"} }

func (n *Infix) Get(name string) (interface{}, bool) {
	switch name {
	case "left":
		return n.Left, true
	case "op":
		return n.Op, true
	case "right":
		return n.Right, true
	}
	return nil, false
}

func (n *Infix) String() string { return fmt.Sprintf("Infix(%v, %v, %v)", n.Left, n.Op, n.Right) }

// Prefix is the generic node built for prefix operators.
type Prefix struct {
	Op    interface{}
	Right interface{}
}

func (n *Prefix) Fields() []string { return []string{"op", "right"} }

func (n *Prefix) Get(name string) (interface{}, bool) {
	switch name {
	case "op":
		return n.Op, true
	case "right":
		return n.Right, true
	}
	return nil, false
}

func (n *Prefix) String() string { return fmt.Sprintf("Prefix(%v, %v)", n.Op, n.Right) }

// Postfix is the generic node built for postfix operators.
type Postfix struct {
	Left interface{}
	Op   interface{}
}

func (n *Postfix) Fields() []string { return []string{"left", "op"} }

func (n *Postfix) Get(name string) (interface{}, bool) {
	switch name {
	case "left":
		return n.Left, true
	case "op":
		return n.Op, true
	}
	return nil, false
}

func (n *Postfix) String() string { return fmt.Sprintf("Postfix(%v, %v)", n.Left, n.Op) }
