package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/cache"
	"github.com/matzehuels/boreholelog/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered page cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// openFileCache opens the CLI cache directory. It returns nil when the
// directory does not exist yet.
func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "get cache dir")
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached pages and documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}
			n, err := fc.Clear(expiredOnly)
			if err != nil {
				return err
			}
			what := "cached entries"
			if expiredOnly {
				what = "expired entries"
			}
			printSuccess("Cleared %d %s", n, what)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")
	return cmd
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}
			s, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprint(s.Entries))
			printKeyValue("Expired", fmt.Sprint(s.Expired))
			printKeyValue("Size", fmt.Sprintf("%.1f KiB", float64(s.Bytes)/1024))
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "get cache dir")
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
