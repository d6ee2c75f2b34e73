package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"visopsys.dev/kernel/internal/clitool"
	"visopsys.dev/kernel/kernel/loader"
)

type listCmd struct{}

func (listCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: fontutil list <dir>") }
func (listCmd) Describe() string { return "list VBF fonts in a directory" }

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
		info, err := loader.Classify(path, data)
		if err != nil || info.Subclass != loader.SubclassVBF {
			continue
		}
		vbf, err := ParseVBF(data)
		if err != nil {
			continue
		}
		fmt.Fprintf(clitool.Stdout, "%s: %s\n", e.Name(), vbf)
	}
	return nil
}

type showCmd struct{}

func (showCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: fontutil show <file>") }
func (showCmd) Describe() string { return "show a VBF font's header" }

func (showCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return clitool.ErrUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	info, err := loader.Classify(args[0], data)
	if err != nil {
		return err
	}
	if info.Subclass != loader.SubclassVBF {
		return fmt.Errorf("fontutil: %s is not a VBF font (class %q)", args[0], info.ClassName)
	}
	vbf, err := ParseVBF(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(clitool.Stdout, vbf)
	for i, cp := range vbf.CodePoints {
		fmt.Fprintf(clitool.Stdout, "  glyph %d: codepoint U+%04X (%d bytes)\n", i, cp, len(vbf.Bitmaps[i]))
	}
	return nil
}

type convertCmd struct{}

func (convertCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: fontutil convert <src> <dst>") }
func (convertCmd) Describe() string { return "round-trip a VBF font through parse/serialize" }

func (convertCmd) RunCommand(args []string) error {
	if len(args) != 2 {
		return clitool.ErrUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	vbf, err := ParseVBF(data)
	if err != nil {
		return err
	}
	return os.WriteFile(args[1], vbf.Serialize(), 0644)
}

func init() {
	clitool.RegisterCommand("list", func(*flag.FlagSet) clitool.CommandRunner { return listCmd{} })
	clitool.RegisterCommand("show", func(*flag.FlagSet) clitool.CommandRunner { return showCmd{} })
	clitool.RegisterCommand("convert", func(*flag.FlagSet) clitool.CommandRunner { return convertCmd{} })
}
