package vobj

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Term is the compiled payload tree. On disk a payload is stored in
// "lightened" form: subtrees occurring more than once are factored into a
// side table and replaced by Ref nodes; Inflate reconstructs the full tree
// at load time.
type Term struct {
	Label string  `msgpack:"l"`
	Kids  []*Term `msgpack:"k,omitempty"`
	Ref   uint32  `msgpack:"r,omitempty"` // 1-based side-table index; 0 for literal nodes
}

// Leaf builds a childless term.
func Leaf(label string) *Term { return &Term{Label: label} }

// Node builds a term with children.
func Node(label string, kids ...*Term) *Term { return &Term{Label: label, Kids: kids} }

// NodeCount returns the number of nodes in the tree, following Ref nodes as
// single nodes. Used for rough memory accounting.
func (t *Term) NodeCount() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, kid := range t.Kids {
		n += kid.NodeCount()
	}
	return n
}

// structKey: канонический ключ поддерева для поиска общих подструктур.
// The label is length-prefixed so labels containing the delimiters cannot
// make distinct subtrees share a key.
func structKey(t *Term, memo map[*Term]string) string {
	if k, ok := memo[t]; ok {
		return k
	}
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(t.Label)))
	sb.WriteByte(':')
	sb.WriteString(t.Label)
	if len(t.Kids) > 0 {
		sb.WriteByte('(')
		for i, kid := range t.Kids {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(structKey(kid, memo))
		}
		sb.WriteByte(')')
	}
	k := sb.String()
	memo[t] = k
	return k
}

// Lighten factors every subtree that occurs more than once into a side
// table, returning the lightened payload and the table. Table entries are
// themselves lightened and reference only earlier entries, so the table can
// be inflated front to back. The root is never replaced by a reference.
func Lighten(full *Term) (*Term, []*Term) {
	if full == nil {
		return nil, nil
	}
	memo := make(map[*Term]string)
	counts := make(map[string]int)
	var count func(t *Term)
	count = func(t *Term) {
		counts[structKey(t, memo)]++
		for _, kid := range t.Kids {
			count(kid)
		}
	}
	count(full)

	index := make(map[string]uint32)
	var table []*Term
	var build func(t *Term, root bool) *Term
	build = func(t *Term, root bool) *Term {
		key := structKey(t, memo)
		if !root && len(t.Kids) > 0 && counts[key] > 1 {
			if idx, ok := index[key]; ok {
				return &Term{Ref: idx}
			}
			entry := &Term{Label: t.Label, Kids: make([]*Term, len(t.Kids))}
			for i, kid := range t.Kids {
				entry.Kids[i] = build(kid, false)
			}
			table = append(table, entry)
			idx, err := safecast.Conv[uint32](len(table))
			if err != nil {
				panic(fmt.Errorf("side table index overflow: %w", err))
			}
			index[key] = idx
			return &Term{Ref: idx}
		}
		out := &Term{Label: t.Label}
		if len(t.Kids) > 0 {
			out.Kids = make([]*Term, len(t.Kids))
			for i, kid := range t.Kids {
				out.Kids[i] = build(kid, false)
			}
		}
		return out
	}
	return build(full, true), table
}

// Inflate reconstructs the full payload from its lightened form and side
// table. Table entries are resolved front to back, each exactly once, and a
// reference to a resolved entry shares the already built subtree. Fails on
// out-of-range references and on references that point at the current or a
// later entry (a well-formed table only points at earlier entries), so a
// malformed table cannot blow up reconstruction.
func Inflate(light *Term, table []*Term) (*Term, error) {
	resolved := make([]*Term, len(table))
	var inflate func(t *Term, seen int) (*Term, error)
	inflate = func(t *Term, seen int) (*Term, error) {
		if t == nil {
			return nil, nil
		}
		if t.Ref != 0 {
			if int(t.Ref) > len(table) {
				return nil, fmt.Errorf("side table reference %d out of range (table has %d entries)", t.Ref, len(table))
			}
			if int(t.Ref) > seen {
				return nil, fmt.Errorf("side table entry %d referenced before it is defined", t.Ref)
			}
			return resolved[t.Ref-1], nil
		}
		out := &Term{Label: t.Label}
		if len(t.Kids) > 0 {
			out.Kids = make([]*Term, len(t.Kids))
			for i, kid := range t.Kids {
				full, err := inflate(kid, seen)
				if err != nil {
					return nil, err
				}
				out.Kids[i] = full
			}
		}
		return out, nil
	}
	for i, entry := range table {
		full, err := inflate(entry, i)
		if err != nil {
			return nil, err
		}
		resolved[i] = full
	}
	return inflate(light, len(table))
}
