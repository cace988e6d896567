package audit

import (
	"fmt"
)

// identityProperties are the spellings under which snapshot producers store a
// record's identity. Object-array elements are paired across snapshots by its
// value, and every emitted change is stamped with the nearest enclosing
// identity. Go marshaling of an untagged identity field yields ID, tagged
// fields commonly yield id, and externally produced documents use Id.
var identityProperties = [...]string{"Id", "ID", "id"}

// identityNode returns the identity property of an object node under any of
// the recognized spellings, or nil when the node declares none.
func identityNode(n *Node) *Node {
	for _, name := range identityProperties {
		if p := n.Property(name); p != nil {
			return p
		}
	}
	return nil
}

// Compare computes the field-level differences between two snapshots of an
// entity. Either side may be nil (whole-object add or delete). The comparer
// is schema-agnostic: it walks whatever keys are present in the supplied
// trees and never fails on malformed or heterogeneous input — every shape
// degrades to well-defined Added/Deleted semantics. Changes are emitted in
// document order: depth-first, property order as stored, then index order.
//
// Simple-value arrays are diffed by value membership against each side's own
// indices; there is no move detection, so a head-insert paired with a
// tail-append surfaces as a tail Added plus a head Deleted, never a "moved"
// record. Object arrays are paired by identity, positionally within groups
// sharing the same identity value.
func Compare(before, after *Node) []FieldChange {
	d := &differ{}
	d.diff("", "", nil, normalize(before), normalize(after))
	return d.changes
}

type differ struct {
	changes []FieldChange
}

func (d *differ) emit(change FieldChange) {
	d.changes = append(d.changes, change)
}

// diff dispatches on the shapes of the two nodes at one location
func (d *differ) diff(location, fieldName string, objectID *string, before, after *Node) {
	switch {
	case before == nil && after == nil:
		return
	case before == nil:
		d.walk(location, fieldName, objectID, after, ChangeAdded)
		return
	case after == nil:
		d.walk(location, fieldName, objectID, before, ChangeDeleted)
		return
	}

	bk, ak := before.Kind(), after.Kind()
	switch {
	case bk == KindObject && ak == KindObject:
		d.diffObject(location, objectID, before, after)
	case bk == KindArray && ak == KindArray:
		d.diffArray(location, objectID, before, after)
	case isLeaf(bk) && isLeaf(ak):
		d.diffLeaf(location, fieldName, objectID, before, after)
	default:
		// Shape changed entirely; report the old subtree gone, the new one added.
		d.walk(location, fieldName, objectID, before, ChangeDeleted)
		d.walk(location, fieldName, objectID, after, ChangeAdded)
	}
}

func isLeaf(k Kind) bool {
	return k == KindScalar || k == KindNull
}

func (d *differ) diffLeaf(location, fieldName string, objectID *string, before, after *Node) {
	if before.Kind() == after.Kind() && before.Scalar() == after.Scalar() {
		return
	}
	d.emit(FieldChange{
		FieldName:     fieldName,
		FieldLocation: location,
		Operation:     ChangeUpdated,
		ValueBefore:   leafValue(before),
		ValueAfter:    leafValue(after),
		ObjectID:      objectID,
	})
}

func (d *differ) diffObject(location string, objectID *string, before, after *Node) {
	objectID = resolveObjectID(objectID, after, before)

	for _, prop := range after.Properties() {
		childLoc := joinPath(location, prop.Name)
		if before.HasProperty(prop.Name) {
			d.diff(childLoc, prop.Name, objectID, before.Property(prop.Name), prop.Value)
		} else {
			d.walk(childLoc, prop.Name, objectID, prop.Value, ChangeAdded)
		}
	}
	for _, prop := range before.Properties() {
		if after.HasProperty(prop.Name) {
			continue
		}
		d.walk(joinPath(location, prop.Name), prop.Name, objectID, prop.Value, ChangeDeleted)
	}
}

func (d *differ) diffArray(location string, objectID *string, before, after *Node) {
	if isObjectArray(before) || isObjectArray(after) {
		d.diffObjectArray(location, objectID, before, after)
		return
	}
	d.diffSimpleArray(location, objectID, before, after)
}

// diffSimpleArray diffs value lists by multiset membership. Elements present
// on only one side are Added/Deleted at that side's index; equal values are
// consumed pairwise in order, so duplicates stay balanced.
func (d *differ) diffSimpleArray(location string, objectID *string, before, after *Node) {
	bElems := before.Elements()
	consumed := make([]bool, len(bElems))

	matchedAfter := make([]bool, len(after.Elements()))
	for j, a := range after.Elements() {
		for i, b := range bElems {
			if !consumed[i] && b.Equal(a) {
				consumed[i] = true
				matchedAfter[j] = true
				break
			}
		}
	}

	for j, a := range after.Elements() {
		if !matchedAfter[j] {
			d.walk(indexPath(location, j), "", objectID, a, ChangeAdded)
		}
	}
	for i, b := range bElems {
		if !consumed[i] {
			d.walk(indexPath(location, i), "", objectID, b, ChangeDeleted)
		}
	}
}

// diffObjectArray pairs structured elements by identity value. Duplicate
// identities pair positionally within their group, keeping the result
// deterministic. Unmatched elements are reported whole.
func (d *differ) diffObjectArray(location string, objectID *string, before, after *Node) {
	bElems := before.Elements()
	consumed := make([]bool, len(bElems))

	for j, a := range after.Elements() {
		matched := -1
		key := elementIdentity(a)
		for i, b := range bElems {
			if !consumed[i] && elementIdentity(b) == key {
				matched = i
				break
			}
		}
		elemLoc := indexPath(location, j)
		if matched >= 0 {
			consumed[matched] = true
			d.diff(elemLoc, "", objectID, bElems[matched], a)
		} else {
			d.walk(elemLoc, "", objectID, a, ChangeAdded)
		}
	}
	for i, b := range bElems {
		if !consumed[i] {
			d.walk(indexPath(location, i), "", objectID, b, ChangeDeleted)
		}
	}
}

// walk emits one change per leaf of a subtree that exists on only one side
func (d *differ) walk(location, fieldName string, objectID *string, node *Node, op ChangeOperation) {
	switch node.Kind() {
	case KindNull, KindScalar:
		change := FieldChange{
			FieldName:     fieldName,
			FieldLocation: location,
			Operation:     op,
			ObjectID:      objectID,
		}
		if op == ChangeAdded {
			change.ValueAfter = leafValue(node)
		} else {
			change.ValueBefore = leafValue(node)
		}
		d.emit(change)
	case KindObject:
		objectID = resolveObjectID(objectID, node)
		for _, prop := range node.Properties() {
			d.walk(joinPath(location, prop.Name), prop.Name, objectID, prop.Value, op)
		}
	case KindArray:
		for i, elem := range node.Elements() {
			d.walk(indexPath(location, i), "", objectID, elem, op)
		}
	}
}

// normalize rewrites primitive-collection wrapper objects (a Raw/List/Key
// housekeeping shape around a materialized list) into plain array nodes, so
// the differ never sees their internal fields as business data.
func normalize(n *Node) *Node {
	switch n.Kind() {
	case KindObject:
		if list, ok := primitiveCollectionList(n); ok {
			return normalize(list)
		}
		props := make([]Property, 0, len(n.Properties()))
		for _, p := range n.Properties() {
			props = append(props, Property{Name: p.Name, Value: normalize(p.Value)})
		}
		return &Node{kind: KindObject, props: props}
	case KindArray:
		elems := make([]*Node, 0, len(n.Elements()))
		for _, e := range n.Elements() {
			elems = append(elems, normalize(e))
		}
		return &Node{kind: KindArray, elems: elems}
	default:
		return n
	}
}

// primitiveCollectionList recognizes the wrapper convention: an object whose
// members are only Raw/List/Key housekeeping fields with List holding the
// materialized array.
func primitiveCollectionList(n *Node) (*Node, bool) {
	if !n.HasProperty("Raw") || !n.HasProperty("List") {
		return nil, false
	}
	for _, p := range n.Properties() {
		switch p.Name {
		case "Raw", "List", "Key":
		default:
			return nil, false
		}
	}
	list := n.Property("List")
	if list.Kind() != KindArray {
		return nil, false
	}
	return list, true
}

// isObjectArray reports whether an array holds structured records. The first
// non-null element decides; mixed arrays degrade to whichever shape leads.
func isObjectArray(n *Node) bool {
	for _, e := range n.Elements() {
		if e.Kind() == KindNull {
			continue
		}
		return e.Kind() == KindObject
	}
	return false
}

// elementIdentity returns the pairing key of an object-array element: the
// identity property's scalar value, or empty when the element has none.
func elementIdentity(n *Node) string {
	if n.Kind() != KindObject {
		return ""
	}
	id := identityNode(n)
	if id.Kind() != KindScalar {
		return ""
	}
	return id.Scalar()
}

// resolveObjectID picks the identity stamped on changes below an object node:
// the node's own identity when it declares one, else the inherited one.
// Candidates are consulted in order (after side first for matched pairs).
func resolveObjectID(inherited *string, candidates ...*Node) *string {
	for _, c := range candidates {
		if c.Kind() != KindObject {
			continue
		}
		if id := identityNode(c); id.Kind() == KindScalar {
			v := id.Scalar()
			return &v
		}
	}
	return inherited
}

func leafValue(n *Node) *string {
	if n.Kind() != KindScalar {
		return nil
	}
	v := n.Scalar()
	return &v
}

func joinPath(location, name string) string {
	if location == "" {
		return name
	}
	return location + "." + name
}

func indexPath(location string, index int) string {
	return fmt.Sprintf("%s[%d]", location, index)
}
