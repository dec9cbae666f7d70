package main

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alexflint/go-arg"

	"github.com/Hubmakerlabs/eventstore/cmd/evstore/app"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/slog"
)

var (
	AppName = "evstore"
	Version = "v0.0.1"
)

var args, conf app.Config

func main() {
	var log, chk = slog.New(os.Stderr)
	p := arg.MustParse(&args)
	if p.Subcommand() == nil {
		p.Fail("a subcommand is required")
	}
	var dataDirBase string
	var err error
	if dataDirBase, err = os.UserHomeDir(); chk.E(err) {
		os.Exit(1)
	}
	profileDir := filepath.Join(dataDirBase, "."+args.Profile)
	configPath := filepath.Join(profileDir, "config.json")
	log.D.F("using profile directory: %s", profileDir)
	if err = conf.Load(configPath); err == nil {
		args.Merge(&conf)
	}
	if args.LogLevel == "" {
		args.LogLevel = "info"
	}
	if !slog.SetLogLevelString(args.LogLevel) {
		log.W.F("unknown log level %q", args.LogLevel)
	}
	log.T.S(args)
	if args.DataDir == "" {
		args.DataDir = filepath.Join(profileDir, "db")
	}
	if args.InitCfgCmd != nil {
		if err = os.MkdirAll(profileDir, 0700); chk.E(err) {
			os.Exit(1)
		}
		if err = args.Save(configPath); chk.E(err) {
			log.E.F("failed to write configuration: '%s'", err)
			os.Exit(1)
		}
		log.I.Ln("wrote", configPath)
		return
	}
	c, cancel := signal.NotifyContext(context.Bg(), os.Interrupt)
	defer cancel()
	if err = app.Run(c, &args, os.Stdin, os.Stdout); chk.E(err) {
		cancel()
		os.Exit(1)
	}
}
