package main

import (
	"flag"
	"fmt"
	"os"

	"visopsys.dev/kernel/internal/clitool"
	"visopsys.dev/kernel/internal/osutil"
	"visopsys.dev/kernel/kernel/pkgdb"
)

func openDB(flags *flag.FlagSet) (*pkgdb.DB, pkgdb.KeyValue, error) {
	path := flags.Lookup("db").Value.String()
	kv, err := pkgdb.Open("kvfile", path)
	if err != nil {
		return nil, nil, fmt.Errorf("software: open database: %w", err)
	}
	return pkgdb.NewDB(kv), kv, nil
}

type listCmd struct{ flags *flag.FlagSet }

func (listCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: software list [-db=PATH]") }
func (listCmd) Describe() string { return "list installed packages" }

func (c listCmd) RunCommand(args []string) error {
	db, kv, err := openDB(c.flags)
	if err != nil {
		return err
	}
	defer kv.Close()
	entries, err := db.List()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(clitool.Stdout, "%s %s (%s) %s\n", e.Name, e.Version, e.Arch, e.Checksum)
	}
	return nil
}

type removeCmd struct{ flags *flag.FlagSet }

func (removeCmd) Usage() { fmt.Fprintln(clitool.Stderr, "usage: software remove -db=PATH NAME") }
func (removeCmd) Describe() string { return "remove an installed package" }

func (c removeCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return clitool.ErrUsage
	}
	db, kv, err := openDB(c.flags)
	if err != nil {
		return err
	}
	defer kv.Close()
	return db.Remove(args[0])
}

type verifyCmd struct{ flags *flag.FlagSet }

func (verifyCmd) Usage() {
	fmt.Fprintln(clitool.Stderr, "usage: software verify -db=PATH NAME")
}
func (verifyCmd) Describe() string { return "verify an installed package's checksum against disk" }

func (c verifyCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return clitool.ErrUsage
	}
	db, kv, err := openDB(c.flags)
	if err != nil {
		return err
	}
	defer kv.Close()

	entry, err := db.Get(args[0])
	if err != nil {
		return err
	}
	files := make(map[string][]byte, len(entry.Files))
	for _, path := range entry.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("software: reading %s: %w", path, err)
		}
		files[path] = data
	}
	ok, err := db.Verify(args[0], files)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("software: %s failed checksum verification", args[0])
	}
	fmt.Fprintf(clitool.Stdout, "%s: ok\n", args[0])
	return nil
}

func registerDBFlag(flags *flag.FlagSet) {
	flags.String("db", osutil.DefaultPkgDBPath(), "installation database path")
}

func init() {
	clitool.RegisterCommand("list", func(flags *flag.FlagSet) clitool.CommandRunner {
		registerDBFlag(flags)
		return listCmd{flags: flags}
	})
	clitool.RegisterCommand("remove", func(flags *flag.FlagSet) clitool.CommandRunner {
		registerDBFlag(flags)
		return removeCmd{flags: flags}
	})
	clitool.RegisterCommand("verify", func(flags *flag.FlagSet) clitool.CommandRunner {
		registerDBFlag(flags)
		return verifyCmd{flags: flags}
	})
}
