package index

import (
	"bytes"
	"testing"
)

func TestT(t *testing.T) {
	v := Version.Key()
	buf2 := bytes.NewBuffer(v)
	v2 := New(0)
	el := v2.Read(buf2).(*T)
	if el.Val[0] != v[0] {
		t.Fatalf("expected %d got %d", v[0], el.Val)
	}
}

func TestPrefixesDistinct(t *testing.T) {
	seen := make(map[byte]bool)
	for _, p := range append(Derived, Event, Address, Tombstone, Vanish,
		Author, Meta, Version) {
		if seen[p.B()] {
			t.Fatalf("prefix %d used twice", p)
		}
		seen[p.B()] = true
	}
}

func TestAllCoversDerived(t *testing.T) {
	all := make(map[P]bool)
	for _, p := range All {
		all[p] = true
	}
	for _, p := range append(Derived, Author) {
		if !all[p] {
			t.Fatalf("prefix %d missing from All", p)
		}
	}
}
