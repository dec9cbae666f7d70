// Package app is the evstore command: configuration, and the subcommands that
// operate on a badger event store.
package app

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/Hubmakerlabs/eventstore/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

type ImportCmd struct {
	FromFile []string `arg:"-f,--fromfile,separate" help:"read from files instead of stdin (can use flag repeatedly for multiple files)"`
}

type ExportCmd struct {
	ToFile string `arg:"-f,--tofile" help:"write to file instead of stdout"`
}

type QueryCmd struct {
	Filters []string `arg:"positional,required" help:"filters as JSON objects, results are merged"`
}

type CountCmd struct {
	Filters []string `arg:"positional,required" help:"filters as JSON objects, results are merged"`
}

type DeleteCmd struct {
	Requester string   `arg:"-r,--requester,required" help:"hex public key the deletion is made for"`
	IDs       []string `arg:"-e,--id,separate" help:"event id to delete (repeatable)"`
	Addresses []string `arg:"-a,--address,separate" help:"kind:pubkey:d address to delete (repeatable)"`
	At        int64    `arg:"--at" help:"created_at of the deletion, now if not given"`
}

type VanishCmd struct {
	Author string `arg:"-p,--author,required" help:"hex public key of the author to remove"`
	Scope  string `arg:"--scope" default:"ALL_RELAYS" help:"relay URL the request is addressed to"`
	Cutoff int64  `arg:"--cutoff" help:"remove events created at or before this, now if not given"`
}

type InitCfg struct{}
type SweepCmd struct{}
type StatsCmd struct{}
type WipeCmd struct{}

type Config struct {
	ImportCmd   *ImportCmd `arg:"subcommand:import" json:"-" help:"import data from line structured JSON"`
	ExportCmd   *ExportCmd `arg:"subcommand:export" json:"-" help:"export database as line structured JSON"`
	QueryCmd    *QueryCmd  `arg:"subcommand:query" json:"-" help:"print the events matching filters"`
	CountCmd    *CountCmd  `arg:"subcommand:count" json:"-" help:"count the events matching filters"`
	DeleteCmd   *DeleteCmd `arg:"subcommand:delete" json:"-" help:"delete events and addresses on behalf of their author"`
	VanishCmd   *VanishCmd `arg:"subcommand:vanish" json:"-" help:"remove everything an author published"`
	SweepCmd    *SweepCmd  `arg:"subcommand:sweep" json:"-" help:"remove expired events"`
	StatsCmd    *StatsCmd  `arg:"subcommand:stats" json:"-" help:"print event count and database size"`
	Wipe        *WipeCmd   `arg:"subcommand:wipe" json:"-" help:"empties database"`
	InitCfgCmd  *InitCfg   `arg:"subcommand:initcfg" json:"-" help:"write the configuration file for the profile"`
	Profile     string     `arg:"-p,--profile" json:"-" default:"evstore" help:"profile name to use for storage"`
	DataDir     string     `arg:"-d,--datadir" json:"data_dir" help:"database directory, the profile directory if not given"`
	Strategy    string     `arg:"-s,--strategy" json:"strategy" help:"index strategy, comma separated [tagkindpubkey,createdat,idorder,alltags] or default"`
	Scope       string     `arg:"--scope" json:"scope" help:"relay URL vanish requests must name to apply here"`
	MaxLimit    *int       `arg:"-m,--maxlimit" json:"max_limit,omitempty" help:"most events a query returns, 0 for no limit"`
	BlockCache  int        `arg:"--blockcache" json:"block_cache" help:"badger block cache size in megabytes"`
	RecordCache int        `arg:"--recordcache" json:"record_cache" help:"decoded event cache size in megabytes"`
	LogLevel    string     `arg:"--loglevel" json:"log_level" help:"set log level [off,fatal,error,warn,info,debug,trace] (can also use GODEBUG environment variable)"`
}

func (c *Config) Save(filename string) (err error) {
	if c == nil {
		err = errors.New("cannot save nil config")
		log.E.Ln(err)
		return
	}
	var b []byte
	if b, err = json.MarshalIndent(c, "", "    "); chk.E(err) {
		return
	}
	if err = os.WriteFile(filename, b, 0600); chk.E(err) {
		return
	}
	return
}

func (c *Config) Load(filename string) (err error) {
	if c == nil {
		err = errors.New("cannot load into nil config")
		chk.E(err)
		return
	}
	var b []byte
	if b, err = os.ReadFile(filename); err != nil {
		return
	}
	if err = json.Unmarshal(b, c); chk.E(err) {
		return
	}
	return
}

// Merge fills the settings not given on the command line from the file.
func (c *Config) Merge(file *Config) {
	if c.DataDir == "" {
		c.DataDir = file.DataDir
	}
	if c.Strategy == "" {
		c.Strategy = file.Strategy
	}
	if c.Scope == "" {
		c.Scope = file.Scope
	}
	if c.MaxLimit == nil {
		c.MaxLimit = file.MaxLimit
	}
	if c.BlockCache == 0 {
		c.BlockCache = file.BlockCache
	}
	if c.RecordCache == 0 {
		c.RecordCache = file.RecordCache
	}
	if c.LogLevel == "" {
		c.LogLevel = file.LogLevel
	}
}
