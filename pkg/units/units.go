// Package units holds byte size constants for cache and table sizing.
package units

const (
	Kb = 1 << 10
	Mb = Kb << 10
	Gb = Mb << 10
)
