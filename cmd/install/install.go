// Command install registers a package in the kernel's installation
// database, computing its checksum from the files it places on disk.
// Grounded on programs/install.c's role, narrowed to the installation
// database's add operation per the installation-database supplement.
package main

import (
	"flag"
	"fmt"
	"os"

	"visopsys.dev/kernel/internal/clitool"
	"visopsys.dev/kernel/internal/osutil"
	"visopsys.dev/kernel/kernel/pkgdb"
)

func main() {
	clitool.Main()
}

type addCmd struct {
	flags *flag.FlagSet
}

func (c *addCmd) Usage() {
	fmt.Fprintln(clitool.Stderr, "usage: install add -name=NAME -version=VER -arch=ARCH [-db=PATH] file [file...]")
}
func (*addCmd) Describe() string { return "register a package in the installation database" }

func (c *addCmd) RunCommand(args []string) error {
	if len(args) == 0 {
		return clitool.ErrUsage
	}
	name := c.flags.Lookup("name").Value.String()
	version := c.flags.Lookup("version").Value.String()
	arch := c.flags.Lookup("arch").Value.String()
	desc := c.flags.Lookup("desc").Value.String()
	dbPath := c.flags.Lookup("db").Value.String()
	if name == "" || version == "" {
		return clitool.UsageError("-name and -version are required")
	}

	files := make(map[string][]byte, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[path] = data
	}

	kv, err := pkgdb.Open("kvfile", dbPath)
	if err != nil {
		return fmt.Errorf("install: open database: %w", err)
	}
	defer kv.Close()

	db := pkgdb.NewDB(kv)
	entry := pkgdb.Entry{
		Name:        name,
		Version:     version,
		Arch:        arch,
		Description: desc,
		Files:       args,
		Checksum:    pkgdb.ChecksumFiles(files),
	}
	if err := db.Add(entry); err != nil {
		return err
	}
	fmt.Fprintf(clitool.Stdout, "installed %s %s (%s)\n", name, version, entry.Checksum)
	return nil
}

func init() {
	clitool.RegisterCommand("add", func(flags *flag.FlagSet) clitool.CommandRunner {
		flags.String("name", "", "package name")
		flags.String("version", "", "package version")
		flags.String("arch", "", "package architecture")
		flags.String("desc", "", "package description")
		flags.String("db", osutil.DefaultPkgDBPath(), "installation database path")
		return &addCmd{flags: flags}
	})
}
