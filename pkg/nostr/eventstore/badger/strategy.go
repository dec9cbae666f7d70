package badger

import (
	"fmt"
	"strings"
)

// Strategy selects which optional index layouts the store writes. Every
// combination returns the same results, they differ in how much is read to
// produce them.
type Strategy struct {
	// TagKindPubkey writes tag rows that also carry the kind and author, so a
	// tag query restricted by kinds and authors is a direct range scan.
	TagKindPubkey bool
	// CreatedAtIndex writes a time ordered index over every event. Without it
	// unconstrained queries walk the event records.
	CreatedAtIndex bool
	// IDOrder writes the inverted id prefix after the timestamp in ordered
	// keys so scans come out in exact result order and can stop at the limit.
	IDOrder bool
	// AllTags indexes every tag with a value, not only single letter names.
	AllTags bool
}

// DefaultStrategy is what a new store uses when none is configured.
var DefaultStrategy = Strategy{
	TagKindPubkey:  true,
	CreatedAtIndex: true,
	IDOrder:        true,
}

// Strategies is every combination of the strategy flags.
func Strategies() (s []Strategy) {
	for i := 0; i < 16; i++ {
		s = append(s, Strategy{
			TagKindPubkey:  i&1 != 0,
			CreatedAtIndex: i&2 != 0,
			IDOrder:        i&4 != 0,
			AllTags:        i&8 != 0,
		})
	}
	return
}

func (s Strategy) byte() (b byte) {
	if s.TagKindPubkey {
		b |= 1
	}
	if s.CreatedAtIndex {
		b |= 2
	}
	if s.IDOrder {
		b |= 4
	}
	if s.AllTags {
		b |= 8
	}
	return
}

func strategyFromByte(b byte) Strategy {
	return Strategy{
		TagKindPubkey:  b&1 != 0,
		CreatedAtIndex: b&2 != 0,
		IDOrder:        b&4 != 0,
		AllTags:        b&8 != 0,
	}
}

func (s Strategy) String() string {
	var parts []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.TagKindPubkey, "tagkindpubkey"},
		{s.CreatedAtIndex, "createdat"},
		{s.IDOrder, "idorder"},
		{s.AllTags, "alltags"},
	} {
		if f.on {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseStrategy reads the comma separated form produced by String.
func ParseStrategy(s string) (st Strategy, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return
	}
	for _, p := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(p)) {
		case "tagkindpubkey":
			st.TagKindPubkey = true
		case "createdat":
			st.CreatedAtIndex = true
		case "idorder":
			st.IDOrder = true
		case "alltags":
			st.AllTags = true
		case "default":
			st = DefaultStrategy
		default:
			err = fmt.Errorf("unknown strategy flag %q", p)
			return
		}
	}
	return
}
