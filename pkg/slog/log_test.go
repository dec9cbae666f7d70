package slog_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Hubmakerlabs/eventstore/pkg/slog"
)

func TestGetLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	log, chk := slog.New(buf)
	defer slog.SetLogLevel(slog.GetLogLevel())
	slog.SetLogLevel(slog.Trace)
	log.T.Ln("testing log level", slog.LevelSpecs[slog.Trace].Name)
	log.D.Ln("testing log level", slog.LevelSpecs[slog.Debug].Name)
	log.I.Ln("testing log level", slog.LevelSpecs[slog.Info].Name)
	log.W.Ln("testing log level", slog.LevelSpecs[slog.Warn].Name)
	log.E.F("testing log level %s", slog.LevelSpecs[slog.Error].Name)
	chk.E(errors.New("dummy error as error"))
	log.I.S("`backtick wrapped string`")
	if n := strings.Count(buf.String(), "\n"); n < 7 {
		t.Fatalf("expected at least 7 lines of output, got %d", n)
	}
	if log.I.Err("format string %d '%s'", 5, "testing") == nil {
		t.Fatal("Err must return an error")
	}
	if log.I.Chk(nil) {
		t.Fatal("Chk of nil error must be false")
	}
}

func TestLevelFilter(t *testing.T) {
	buf := new(bytes.Buffer)
	log, chk := slog.New(buf)
	defer slog.SetLogLevel(slog.GetLogLevel())
	if !slog.SetLogLevelString("warn") {
		t.Fatal("warn is a known level")
	}
	log.I.Ln("hidden")
	log.D.F("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("info and debug must be filtered at warn, got %q", buf.String())
	}
	// a filtered check still reports the error to the caller
	if !chk.D(errors.New("still an error")) {
		t.Fatal("chk must return true for a non-nil error")
	}
	log.W.Ln("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatal("warn must be printed at warn")
	}
	if slog.SetLogLevelString("nonsense") {
		t.Fatal("unknown level names must be refused")
	}
}
