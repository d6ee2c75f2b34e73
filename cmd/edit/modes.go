package main

import (
	"flag"
	"fmt"
	"os"

	"visopsys.dev/kernel/internal/clitool"
	"visopsys.dev/kernel/kernel/editcore"
	"visopsys.dev/kernel/kernel/vfs"
)

func loadIntoFacade(path string) (*vfs.Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	driver := vfs.NewMemDriver(512, false)
	facade := vfs.NewFacade(driver)
	w, err := facade.StreamOpen("/f", vfs.ModeCreate|vfs.ModeWrite)
	if err != nil {
		return nil, err
	}
	if _, err := w.StreamWrite(data); err != nil {
		return nil, err
	}
	if err := w.StreamClose(); err != nil {
		return nil, err
	}
	return facade.StreamOpen("/f", vfs.ModeRead)
}

type rowsCmd struct {
	flags *flag.FlagSet
}

func (rowsCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: edit rows [-width=N] FILE") }
func (rowsCmd) Describe() string { return "print the screen-row count for a file" }

func (c rowsCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return clitool.ErrUsage
	}
	width := c.flags.Lookup("width").Value.String()
	var screenWidth int
	fmt.Sscanf(width, "%d", &screenWidth)

	stream, err := loadIntoFacade(args[0])
	if err != nil {
		return err
	}
	state := editcore.New(stream, screenWidth)
	// Force full traversal by requesting the offset for an unreachable row
	// until ErrNoSuchRow settles the known row count.
	row := 0
	for {
		if _, err := state.OffsetForRow(row); err != nil {
			break
		}
		row++
	}
	fmt.Fprintf(clitool.Stdout, "%s: %d screen rows at width %d\n", args[0], state.KnownRows(), screenWidth)
	return nil
}

type rowForOffsetCmd struct {
	flags *flag.FlagSet
}

func (rowForOffsetCmd) Usage() {
	fmt.Fprintln(clitool.Stderr, "usage: edit row-for-offset [-width=N] FILE OFFSET")
}
func (rowForOffsetCmd) Describe() string { return "print the screen row containing a byte offset" }

func (c rowForOffsetCmd) RunCommand(args []string) error {
	if len(args) != 2 {
		return clitool.ErrUsage
	}
	width := c.flags.Lookup("width").Value.String()
	var screenWidth int
	var offset int64
	fmt.Sscanf(width, "%d", &screenWidth)
	if _, err := fmt.Sscanf(args[1], "%d", &offset); err != nil {
		return clitool.UsageError("OFFSET must be an integer")
	}

	stream, err := loadIntoFacade(args[0])
	if err != nil {
		return err
	}
	state := editcore.New(stream, screenWidth)
	row, err := state.RowForOffset(offset)
	if err != nil {
		return err
	}
	fmt.Fprintf(clitool.Stdout, "offset %d is on row %d\n", offset, row)
	return nil
}

func registerWidthFlag(flags *flag.FlagSet) {
	flags.String("width", "80", "screen width in columns")
}

func init() {
	clitool.RegisterCommand("rows", func(flags *flag.FlagSet) clitool.CommandRunner {
		registerWidthFlag(flags)
		return rowsCmd{flags: flags}
	})
	clitool.RegisterCommand("row-for-offset", func(flags *flag.FlagSet) clitool.CommandRunner {
		registerWidthFlag(flags)
		return rowForOffsetCmd{flags: flags}
	})
}
