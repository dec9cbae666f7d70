package badger

const (
	// PrefixLen is the length of the database key prefixes for each type of
	// record. It is 1, but this makes it unambiguous what it means.
	PrefixLen = 1

	// HashLen is the size of a tag, token or address hash in a key.
	HashLen = 8

	// DbVersion is the layout version written to the Version key.
	DbVersion uint16 = 1

	// sweepBatch is how many expired events one sweep transaction removes.
	sweepBatch = 256

	// maxConflicts is how many times a write is tried when concurrent
	// writers keep committing to the same records first.
	maxConflicts = 64
)
