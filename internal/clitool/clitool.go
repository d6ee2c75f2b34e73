/*
Copyright 2013 The Perkeep Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package clitool contains the shared implementation behind the kernel's
// userspace command-line tools (install, software, keymap, fontutil,
// edit, test, telnet, netsniff): a mode registry plus a common Main that
// dispatches to the mode named by the first non-flag argument, in the shape pkg/cmdmain gives
// camget/camput/camtool.
package clitool

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"go4.org/legal"
)

var (
	FlagHelp  = flag.Bool("help", false, "print usage")
	FlagLegal = flag.Bool("legal", false, "show licenses")
)

var (
	// PreExit runs after the mode's RunCommand, before Main terminates.
	PreExit = func() {}
	// ExitWithFailure suppresses Main's own "Error: ..." print, for
	// modes that already logged the failure themselves.
	ExitWithFailure bool

	modeCommand = make(map[string]CommandRunner)
	modeFlags   = make(map[string]*flag.FlagSet)
	wantHelp    = make(map[string]*bool)

	Stderr io.Writer = os.Stderr
	Stdout io.Writer = os.Stdout
	Stdin  io.Reader = os.Stdin

	Exit = func(code int) { os.Exit(code) }
)

// ErrUsage is returned by a mode's RunCommand to request usage be printed.
var ErrUsage = UsageError("invalid command")

type UsageError string

func (ue UsageError) Error() string { return "usage error: " + string(ue) }

// CommandRunner is the interface a mode must implement.
type CommandRunner interface {
	Usage()
	RunCommand(args []string) error
}

type describer interface {
	Describe() string
}

// RegisterCommand adds mode to the set of known modes. Call this from an
// init() in the mode's own package.
func RegisterCommand(mode string, makeCmd func(flags *flag.FlagSet) CommandRunner) {
	if _, dup := modeCommand[mode]; dup {
		log.Fatalf("clitool: duplicate mode %q registered", mode)
	}
	flags := flag.NewFlagSet(mode+" options", flag.ContinueOnError)
	flags.Usage = func() {}

	var help bool
	flags.BoolVar(&help, "help", false, "help for this mode")
	wantHelp[mode] = &help
	modeFlags[mode] = flags
	modeCommand[mode] = makeCmd(flags)
}

func hasFlags(flags *flag.FlagSet) bool {
	any := false
	flags.VisitAll(func(*flag.Flag) { any = true })
	return any
}

func Errorf(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, format, args...)
}

func PrintLicenses() {
	for _, text := range legal.Licenses() {
		fmt.Fprintln(Stderr, text)
	}
}

func usage(msg string) {
	cmdName := filepath.Base(os.Args[0])
	if msg != "" {
		Errorf("Error: %v\n", msg)
	}
	Errorf("\nUsage: %s [globalopts] <mode> [modeopts] [modeargs]\n\nModes:\n\n", cmdName)

	names := make([]string, 0, len(modeCommand))
	for name := range modeCommand {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if des, ok := modeCommand[name].(describer); ok {
			Errorf("  %s: %s\n", name, des.Describe())
		} else {
			Errorf("  %s\n", name)
		}
	}
	Errorf("\nFor mode-specific help:\n\n  %s <mode> -help\n\nGlobal options:\n", cmdName)
	flag.PrintDefaults()
	Exit(1)
}

func help(mode string) {
	cmd := modeCommand[mode]
	cmdFlags := modeFlags[mode]
	cmdFlags.SetOutput(Stderr)
	if des, ok := cmd.(describer); ok {
		Errorf("%s\n", des.Describe())
	}
	Errorf("\n")
	cmd.Usage()
	if hasFlags(cmdFlags) {
		cmdFlags.PrintDefaults()
	}
}

// Main dispatches os.Args[1] (after global flags) to its registered mode.
func Main() {
	flag.Parse()
	args := flag.Args()

	if *FlagLegal {
		PrintLicenses()
		return
	}
	if *FlagHelp {
		usage("")
	}
	if len(args) == 0 {
		usage("no mode given")
	}

	mode := args[0]
	cmd, ok := modeCommand[mode]
	if !ok {
		usage(fmt.Sprintf("unknown mode %q", mode))
	}

	cmdFlags := modeFlags[mode]
	cmdFlags.SetOutput(Stderr)
	err := cmdFlags.Parse(args[1:])
	if err != nil {
		err = ErrUsage
	} else if *wantHelp[mode] {
		help(mode)
		return
	} else {
		err = cmd.RunCommand(cmdFlags.Args())
	}

	if ue, isUsage := err.(UsageError); isUsage {
		Errorf("%s\n", ue)
		cmd.Usage()
		Errorf("\nGlobal options:\n")
		flag.PrintDefaults()
		if hasFlags(cmdFlags) {
			Errorf("\nMode-specific options for mode %q:\n", mode)
			cmdFlags.PrintDefaults()
		}
		Exit(1)
	}

	PreExit()
	if err != nil {
		if !ExitWithFailure {
			Errorf("Error: %v\n", err)
		}
		Exit(2)
	}
}
