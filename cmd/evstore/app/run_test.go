package app

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hubmakerlabs/eventstore/pkg/nostr/context"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/event/eventest"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/kind"
	"github.com/Hubmakerlabs/eventstore/pkg/nostr/timestamp"
)

func TestRun(t *testing.T) {
	c := context.Bg()
	dir := t.TempDir()
	run := func(cfg Config, in string) string {
		cfg.DataDir = dir
		out := new(bytes.Buffer)
		require.NoError(t, Run(c, &cfg, strings.NewReader(in), out))
		return out.String()
	}
	pk := eventest.Pubkey()
	var lines []string
	var evs event.Ts
	for i := 0; i < 5; i++ {
		ev := eventest.New(pk, kind.TextNote, eventest.Base+1, nil,
			fmt.Sprint("note ", i))
		evs = append(evs, ev)
		lines = append(lines, ev.String())
	}
	run(Config{ImportCmd: &ImportCmd{}}, strings.Join(lines, "\n"))

	filt := fmt.Sprintf(`{"authors":["%s"],"limit":2}`, pk)
	out := run(Config{QueryCmd: &QueryCmd{Filters: []string{filt}}}, "")
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Equal(t, "5\n", run(Config{CountCmd: &CountCmd{
		Filters: []string{`{"kinds":[1]}`}}}, ""))

	out = run(Config{DeleteCmd: &DeleteCmd{Requester: pk,
		IDs: []string{evs[0].ID.String()}}}, "")
	assert.Equal(t, "deleted 1 events\n", out)
	assert.Equal(t, "4\n", run(Config{CountCmd: &CountCmd{
		Filters: []string{`{}`}}}, ""))

	exported := filepath.Join(t.TempDir(), "export.jsonl")
	run(Config{ExportCmd: &ExportCmd{ToFile: exported}}, "")
	run(Config{Wipe: &WipeCmd{}}, "")
	assert.Equal(t, "0\n", run(Config{CountCmd: &CountCmd{
		Filters: []string{`{}`}}}, ""))
	run(Config{ImportCmd: &ImportCmd{FromFile: []string{exported}}}, "")
	assert.Contains(t, run(Config{StatsCmd: &StatsCmd{}}, ""), "4 events")

	out = run(Config{VanishCmd: &VanishCmd{Author: pk,
		Scope: "ALL_RELAYS"}}, "")
	assert.Equal(t, "removed 4 events\n", out)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	saved := &Config{Strategy: "createdat,idorder", MaxLimit: limit(500),
		Scope: "wss://relay.example.com", LogLevel: "debug"}
	require.NoError(t, saved.Save(path))
	var file Config
	require.NoError(t, file.Load(path))
	args := Config{MaxLimit: limit(10)}
	args.Merge(&file)
	assert.Equal(t, "createdat,idorder", args.Strategy)
	assert.Equal(t, "debug", args.LogLevel)
	require.NotNil(t, args.MaxLimit)
	assert.Equal(t, 10, *args.MaxLimit)
	// an explicit zero lifts the limit from the file
	args = Config{MaxLimit: limit(0)}
	args.Merge(&file)
	bc, err := args.BackendConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, bc.MaxLimit)
	args = Config{}
	args.Merge(&file)
	bc, err = args.BackendConfig()
	require.NoError(t, err)
	assert.Equal(t, 500, bc.MaxLimit)
	assert.True(t, bc.Strategy.IDOrder)
	assert.False(t, bc.Strategy.TagKindPubkey)
	_, err = (&Config{Strategy: "fast"}).BackendConfig()
	assert.Error(t, err)
}

func limit(n int) *int { return &n }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestQueryWriteError(t *testing.T) {
	dir := t.TempDir()
	pk := eventest.Pubkey()
	var lines []string
	for i := 0; i < 3; i++ {
		lines = append(lines, eventest.New(pk, kind.TextNote,
			eventest.Base+timestamp.T(i), nil, "note").String())
	}
	require.NoError(t, Run(context.Bg(), &Config{DataDir: dir,
		ImportCmd: &ImportCmd{}}, strings.NewReader(strings.Join(lines, "\n")),
		io.Discard))
	assert.ErrorIs(t, Run(context.Bg(), &Config{DataDir: dir,
		QueryCmd: &QueryCmd{Filters: []string{`{}`}}}, nil, failingWriter{}),
		io.ErrClosedPipe)
}
