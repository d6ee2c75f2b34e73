// Command test runs a battery of self-contained smoke checks against the
// kernel's own packages, the Go-native analogue of programs/test.c's
// self-test driver (the original table of libc format-string/math checks
// has no counterpart here; Go's own `go test` already covers per-package
// correctness, so this driver instead sanity-checks that the packages
// compose correctly end to end).
package main

import (
	"fmt"
	"os"

	"visopsys.dev/kernel/kernel/editcore"
	"visopsys.dev/kernel/kernel/pkgdb"
	"visopsys.dev/kernel/kernel/syscall"
	"visopsys.dev/kernel/kernel/vfs"
)

type check struct {
	name string
	run  func() error
}

func checkVFSRoundTrip() error {
	driver := vfs.NewMemDriver(512, false)
	facade := vfs.NewFacade(driver)
	w, err := facade.StreamOpen("/f", vfs.ModeCreate|vfs.ModeWrite)
	if err != nil {
		return err
	}
	if _, err := w.StreamWrite([]byte("hello, kernel")); err != nil {
		return err
	}
	if err := w.StreamClose(); err != nil {
		return err
	}
	r, err := facade.StreamOpen("/f", vfs.ModeRead)
	if err != nil {
		return err
	}
	buf := make([]byte, 32)
	n, err := r.StreamRead(buf)
	if err != nil {
		return err
	}
	if string(buf[:n]) != "hello, kernel" {
		return fmt.Errorf("got %q", buf[:n])
	}
	return nil
}

func checkEditcoreRows() error {
	driver := vfs.NewMemDriver(512, false)
	facade := vfs.NewFacade(driver)
	w, _ := facade.StreamOpen("/f", vfs.ModeCreate|vfs.ModeWrite)
	w.StreamWrite([]byte("line one\nline two\n"))
	w.StreamClose()
	r, err := facade.StreamOpen("/f", vfs.ModeRead)
	if err != nil {
		return err
	}
	state := editcore.New(r, 80)
	if _, err := state.OffsetForRow(1); err != nil {
		return err
	}
	return nil
}

func checkPkgdbRoundTrip() error {
	db := pkgdb.NewDB(pkgdb.NewMemKV())
	files := map[string][]byte{"/bin/x": []byte("payload")}
	e := pkgdb.Entry{Name: "selftest", Version: "0", Files: []string{"/bin/x"}, Checksum: pkgdb.ChecksumFiles(files)}
	if err := db.Add(e); err != nil {
		return err
	}
	ok, err := db.Verify("selftest", files)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("checksum verification failed")
	}
	return nil
}

func checkSyscallGateway() error {
	table := syscall.NewDefaultTable(syscall.Handlers{
		Version: func() string { return "selftest" },
	})
	gw := syscall.NewGateway(table)
	ret, err := gw.ProcessCall([]interface{}{1, syscall.FnVersion}, 1)
	if err != nil {
		return err
	}
	if ret != "selftest" {
		return fmt.Errorf("got %v", ret)
	}
	return nil
}

func main() {
	checks := []check{
		{"vfs stream round-trip", checkVFSRoundTrip},
		{"editcore row mapping", checkEditcoreRows},
		{"pkgdb add/verify", checkPkgdbRoundTrip},
		{"syscall gateway dispatch", checkSyscallGateway},
	}

	failed := 0
	for _, c := range checks {
		if err := c.run(); err != nil {
			fmt.Printf("FAIL %s: %v\n", c.name, err)
			failed++
			continue
		}
		fmt.Printf("PASS %s\n", c.name)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
