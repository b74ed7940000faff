// Command vfile inspects and edits the virtual files stored in a container.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cmdMain = &cobra.Command{
	Use:   "vfile",
	Short: "Inspect and edit virtual files inside a container",
	Long: `vfile works on a container holding virtual files. The container is either
a bbolt database file (backend "bolt") or a directory tree (backend "dir").

Settings come from flags, from VFILE_* environment variables, and from an
optional YAML file given with --config.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := cmdMain.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.StringP("container", "c", "vfile.db", "Container path")
	flags.StringP("backend", "b", "bolt", "Container backend (bolt or dir)")
	flags.String("compression", "none", "Chunk compression for new files on bolt (none, deflate, zstd)")
	flags.String("log-level", "warn", "Log level")

	cmdMain.AddCommand(
		cmdLs,
		cmdStat,
		cmdCat,
		cmdPut,
		cmdTruncate,
		cmdRm,
		cmdLock,
		cmdUnlock,
		cmdRepair,
		cmdMkgroup,
	)
}

func main() {
	if err := cmdMain.Execute(); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString("Error: "+format, args...))
	os.Exit(1)
}
