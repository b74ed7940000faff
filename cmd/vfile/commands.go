package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-vfile/container"
	"github.com/robert-malhotra/go-vfile/vfile"
)

var cmdLs = &cobra.Command{
	Use:   "ls [root]",
	Short: "List the virtual files below a group",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

var cmdStat = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show the bookkeeping attributes of a virtual file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

var cmdCat = &cobra.Command{
	Use:   "cat <path>",
	Short: "Write the content of a virtual file to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

var cmdPut = &cobra.Command{
	Use:   "put <path>",
	Short: "Replace (or append to) a virtual file with stdin",
	Args:  cobra.ExactArgs(1),
	RunE:  runPut,
}

var cmdTruncate = &cobra.Command{
	Use:   "truncate <path> <size>",
	Short: "Set the size of a virtual file, e.g. 0, 512, 4KiB",
	Args:  cobra.ExactArgs(2),
	RunE:  runTruncate,
}

var cmdRm = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a closed, writeable virtual file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var cmdLock = &cobra.Command{
	Use:   "lock <path>",
	Short: "Mark a virtual file as not writeable",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return setWriteable(args[0], false) },
}

var cmdUnlock = &cobra.Command{
	Use:   "unlock <path>",
	Short: "Mark a virtual file as writeable",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return setWriteable(args[0], true) },
}

var cmdRepair = &cobra.Command{
	Use:   "repair <path>",
	Short: "Clear a stale open lock left by a handle that was never closed",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepair,
}

var cmdMkgroup = &cobra.Command{
	Use:   "mkgroup <path>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkgroup,
}

var flagPut struct {
	Append bool
}

func init() {
	cmdPut.Flags().BoolVarP(&flagPut.Append, "append", "a", false, "Append instead of replacing")
}

func describeState(info vfile.Info) string {
	if info.IsOpen() {
		return color.YellowString("open (%s)", info.Mode)
	}
	return color.GreenString("closed")
}

func describeWriteable(info vfile.Info) string {
	if info.Writeable {
		return "yes"
	}
	return color.RedString("no")
}

func runLs(cmd *cobra.Command, args []string) error {
	root := container.Separator
	if len(args) > 0 {
		root = args[0]
	}
	return withContainer(true, func(c container.Container) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tSIZE\tWRITEABLE\tSTATE")
		err := vfile.Walk(c, root, func(info vfile.Info) error {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Path, humanize.IBytes(uint64(info.Size)), describeWriteable(info), describeState(info))
			return nil
		})
		if err != nil {
			return err
		}
		return tw.Flush()
	})
}

func runStat(cmd *cobra.Command, args []string) error {
	return withContainer(true, func(c container.Container) error {
		info, err := vfile.Stat(c, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Path:      %s\n", info.Path)
		fmt.Fprintf(out, "Size:      %d (%s)\n", info.Size, humanize.IBytes(uint64(info.Size)))
		fmt.Fprintf(out, "Writeable: %s\n", describeWriteable(info))
		fmt.Fprintf(out, "Access:    %d\n", info.Access)
		fmt.Fprintf(out, "State:     %s\n", describeState(info))
		return nil
	})
}

func runCat(cmd *cobra.Command, args []string) error {
	return withContainer(false, func(c container.Container) (err error) {
		f, err := vfile.Open(c, args[0], "r", vfileOptions()...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		_, err = io.Copy(cmd.OutOrStdout(), f)
		return err
	})
}

func runPut(cmd *cobra.Command, args []string) error {
	mode := "w"
	if flagPut.Append {
		mode = "a"
	}
	return withContainer(false, func(c container.Container) (err error) {
		f, err := vfile.Open(c, args[0], mode, vfileOptions()...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		n, err := io.Copy(f, cmd.InOrStdin())
		if err != nil {
			return err
		}
		logger.WithField("path", args[0]).Infof("wrote %s", humanize.IBytes(uint64(n)))
		return nil
	})
}

func runTruncate(_ *cobra.Command, args []string) error {
	size, err := humanize.ParseBytes(args[1])
	if err != nil {
		return fmt.Errorf("bad size %q: %w", args[1], err)
	}
	return withContainer(false, func(c container.Container) (err error) {
		f, err := vfile.Open(c, args[0], "r+", vfileOptions()...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		return f.Truncate(int64(size))
	})
}

func runRm(_ *cobra.Command, args []string) error {
	return withContainer(false, func(c container.Container) error {
		return vfile.Remove(c, args[0], vfileOptions()...)
	})
}

func setWriteable(path string, writeable bool) error {
	return withContainer(false, func(c container.Container) error {
		return vfile.SetWriteable(c, path, writeable, vfileOptions()...)
	})
}

func runRepair(cmd *cobra.Command, args []string) error {
	return withContainer(false, func(c container.Container) error {
		info, err := vfile.Stat(c, args[0])
		if err != nil {
			return err
		}
		if !info.IsOpen() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not locked\n", args[0])
			return nil
		}
		if err := vfile.ForceUnlock(c, args[0], vfileOptions()...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s unlocked (was open in mode %s)\n", args[0], info.Mode)
		return nil
	})
}

func runMkgroup(_ *cobra.Command, args []string) error {
	return withContainer(false, func(c container.Container) error {
		return c.CreateGroup(args[0])
	})
}

