package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"visopsys.dev/kernel/internal/clitool"
)

type listCmd struct{}

func (listCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: keymap list <dir>") }
func (listCmd) Describe() string { return "list KeyMap files in a directory" }

func (listCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return clitool.ErrUsage
	}
	entries, err := os.ReadDir(args[0])
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(args[0], e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		// KeyMap has no dedicated loader.FileClass; it is text/binary
		// depending on content, so sniff the magic directly rather than
		// misusing loader.Classify's unrelated buckets for it.
		km, err := ParseKeyMap(data)
		if err != nil {
			continue
		}
		fmt.Fprintf(clitool.Stdout, "%s: %q\n", e.Name(), nameString(km.Name))
	}
	return nil
}

type showCmd struct{}

func (showCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: keymap show <file> <scancode>") }
func (showCmd) Describe() string { return "show a KeyMap's resolution for a scan code" }

func (showCmd) RunCommand(args []string) error {
	if len(args) != 2 {
		return clitool.ErrUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	km, err := ParseKeyMap(data)
	if err != nil {
		return err
	}
	var code int
	if _, err := fmt.Sscanf(args[1], "%d", &code); err != nil || code < 0 || code > 255 {
		return clitool.UsageError("scancode must be an integer 0-255")
	}
	fmt.Fprintf(clitool.Stdout, "%q scancode %d: regular=%d shift=%d control=%d altgr=%d\n",
		nameString(km.Name), code, km.Regular[code], km.Shift[code], km.Control[code], km.AltGr[code])
	return nil
}

type convertCmd struct{}

func (convertCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: keymap convert <src> <dst>") }
func (convertCmd) Describe() string { return "round-trip a KeyMap through parse/serialize" }

func (convertCmd) RunCommand(args []string) error {
	if len(args) != 2 {
		return clitool.ErrUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	km, err := ParseKeyMap(data)
	if err != nil {
		return err
	}
	return os.WriteFile(args[1], km.Serialize(), 0644)
}

func init() {
	clitool.RegisterCommand("list", func(*flag.FlagSet) clitool.CommandRunner { return listCmd{} })
	clitool.RegisterCommand("show", func(*flag.FlagSet) clitool.CommandRunner { return showCmd{} })
	clitool.RegisterCommand("convert", func(*flag.FlagSet) clitool.CommandRunner { return convertCmd{} })
}
