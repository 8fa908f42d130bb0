package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/internal/cache"
	"github.com/leapstack-labs/leapfluff/pkg/format"
)

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the parse result cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entries per dialect",
		Args:  cobra.NoArgs,
		RunE:  runCacheStats,
	}, &cobra.Command{
		Use:   "clear",
		Short: "Delete every cache entry",
		Args:  cobra.NoArgs,
		RunE:  runCacheClear,
	})
	return cmd
}

func openCache(cc *CommandContext) (*cache.Store, error) {
	return cache.Open(cc.Cfg.Cache.Path)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	store, err := openCache(cc)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	r := cc.Renderer
	if strings.EqualFold(cc.Cfg.Output, format.JSON) {
		return r.JSON(map[string]any{"path": store.Path(), "dialects": stats})
	}

	r.Println(r.Styles().Muted.Render("cache: " + store.Path()))
	t := r.Table()
	t.AppendHeader(table.Row{"Dialect", "Entries", "Bytes", "Newest"})
	var entries int
	var bytes int64
	for _, st := range stats {
		t.AppendRow(table.Row{st.Dialect, st.Entries, st.Bytes, st.Newest.Local().Format(time.DateTime)})
		entries += st.Entries
		bytes += st.Bytes
	}
	t.AppendFooter(table.Row{"total", entries, bytes, ""})
	t.Render()
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	store, err := openCache(cc)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := store.Clear(cmd.Context())
	if err != nil {
		return err
	}
	cc.Renderer.Success(plural(int(n), "cache entry", "cache entries") + " removed")
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
