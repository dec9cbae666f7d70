// Package slog is a small levelled logger that prints the code location of
// every log entry, with a pair of per-package printers created by New:
//
//	var log, chk = slog.New(os.Stderr)
//
// log.E.F(...) prints at error level, chk.E(err) prints the error at error
// level only if it is not nil and returns true in that case.
package slog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gookit/color"
)

var l = GetStd()

func GetStd() (ll *Log) {
	ll, _ = New(os.Stdout)
	return
}

func init() {
	lvl := strings.ToLower(os.Getenv("GODEBUG"))
	switch lvl {
	case "1", "true", "on":
		SetLogLevel(Debug)
		l.D.Ln("printing logs at this level and lower")
	case "0", "false":
		SetLogLevel(Off)
	default:
		if !SetLogLevelString(lvl) {
			SetLogLevel(Info)
		}
	}
}

const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

type (
	// Ln prints lists of interfaces with spaces in between
	Ln func(a ...interface{})
	// F prints like fmt.Println surrounded by log details
	F func(format string, a ...interface{})
	// S prints a spew.Sdump for an interface slice
	S func(a ...interface{})
	// C accepts a function so that the extra computation can be avoided if it is
	// not being viewed
	C func(closure func() string)
	// Chk is a shortcut for printing if there is an error, or returning true
	Chk func(e error) bool
	// Err is a pass-through function that uses fmt.Errorf to construct an error
	// and returns the error after printing it to the log
	Err func(format string, a ...interface{}) error
	// LevelPrinter defines a set of terminal printing primitives that output
	// with extra data, time, level, and code location.
	LevelPrinter struct {
		Ln
		F
		S
		C
		Chk
		Err
	}
	LevelSpec struct {
		ID        int
		Name      string
		Colorizer func(a ...interface{}) string
	}
)

var (
	currentLevel atomic.Int32
	// LevelSpecs specifies the id, string name and color-printing function
	LevelSpecs = []LevelSpec{
		{Off, "   ", color.Bit24(0, 0, 0, false).Sprint},
		{Fatal, "FTL", color.Bit24(128, 0, 0, false).Sprint},
		{Error, "ERR", color.Bit24(255, 0, 0, false).Sprint},
		{Warn, "WRN", color.Bit24(0, 255, 0, false).Sprint},
		{Info, "INF", color.Bit24(255, 255, 0, false).Sprint},
		{Debug, "DBG", color.Bit24(0, 125, 255, false).Sprint},
		{Trace, "TRC", color.Bit24(125, 0, 255, false).Sprint},
	}
	// LevelNames maps the names accepted by SetLogLevelString to levels.
	LevelNames = map[string]int{
		"off":   Off,
		"fatal": Fatal,
		"error": Error,
		"warn":  Warn,
		"info":  Info,
		"debug": Debug,
		"trace": Trace,
	}
)

// Log is a set of log printers for the various Level items.
type Log struct {
	F, E, W, I, D, T LevelPrinter
}

type Check struct {
	F, E, W, I, D, T Chk
}

func JoinStrings(a ...any) (s string) {
	var b strings.Builder
	for i := range a {
		b.WriteString(fmt.Sprint(a[i]))
		if i < len(a)-1 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func enabled(lvl int32) bool { return lvl <= currentLevel.Load() }

func GetPrinter(lvl int32, writer io.Writer) LevelPrinter {
	out := func(text string) {
		fmt.Fprintf(writer,
			"%s %s %s %s\n",
			UnixNanoAsFloat(),
			LevelSpecs[lvl].Colorizer(LevelSpecs[lvl].Name),
			text,
			GetLoc(3),
		)
	}
	return LevelPrinter{
		Ln: func(a ...interface{}) {
			if enabled(lvl) {
				out(JoinStrings(a...))
			}
		},
		F: func(format string, a ...interface{}) {
			if enabled(lvl) {
				out(fmt.Sprintf(format, a...))
			}
		},
		S: func(a ...interface{}) {
			if enabled(lvl) {
				out(spew.Sdump(a...))
			}
		},
		C: func(closure func() string) {
			if enabled(lvl) {
				out(closure())
			}
		},
		Chk: func(e error) bool {
			if e != nil {
				if enabled(lvl) {
					out(e.Error())
				}
				return true
			}
			return false
		},
		Err: func(format string, a ...interface{}) error {
			err := fmt.Errorf(format, a...)
			if enabled(lvl) {
				out(err.Error())
			}
			return err
		},
	}
}

func New(writer io.Writer) (l *Log, c *Check) {
	l = &Log{
		F: GetPrinter(Fatal, writer),
		E: GetPrinter(Error, writer),
		W: GetPrinter(Warn, writer),
		I: GetPrinter(Info, writer),
		D: GetPrinter(Debug, writer),
		T: GetPrinter(Trace, writer),
	}
	c = &Check{
		F: l.F.Chk,
		E: l.E.Chk,
		W: l.W.Chk,
		I: l.I.Chk,
		D: l.D.Chk,
		T: l.T.Chk,
	}
	return
}

// SetLogLevel sets the highest level that will be printed.
func SetLogLevel(l int) {
	if l < Off {
		l = Off
	}
	if l > Trace {
		l = Trace
	}
	currentLevel.Store(int32(l))
}

// SetLogLevelString sets the log level by name, as found in LevelNames. It
// returns false and leaves the level unchanged if the name is not known.
func SetLogLevelString(name string) (ok bool) {
	var lvl int
	if lvl, ok = LevelNames[strings.ToLower(name)]; ok {
		SetLogLevel(lvl)
	}
	return
}

func GetLogLevel() (l int) {
	return int(currentLevel.Load())
}

// UnixNanoAsFloat renders the current time as seconds with a nanosecond
// fraction.
func UnixNanoAsFloat() (s string) {
	timeText := fmt.Sprint(time.Now().UnixNano())
	lt := len(timeText)
	lb := lt + 1
	var timeBytes = make([]byte, lb)
	copy(timeBytes[lb-9:lb], timeText[lt-9:lt])
	timeBytes[lb-10] = '.'
	lb -= 10
	lt -= 9
	copy(timeBytes[:lb], timeText[:lt])
	return string(timeBytes)
}

func GetLoc(skip int) (output string) {
	_, file, line, _ := runtime.Caller(skip)
	output = color.Bit24(0, 128, 255, false).Sprint(
		file, ":", line,
	)
	return
}
