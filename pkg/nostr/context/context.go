// Package context shortens the standard library context names used across the
// store so signatures read as c context.T.
package context

import (
	"context"
)

type (
	T = context.Context
	F = context.CancelFunc
)

var (
	Bg       = context.Background
	Cancel   = context.WithCancel
	Timeout  = context.WithTimeout
	Canceled = context.Canceled
)
