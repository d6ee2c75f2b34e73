// Command keymap views and converts Visopsys KeyMap files, recognising them
// by their own magic (the kernel's file-class loader has no KeyMap class),
// grounded on programs/keymap.c.
package main

import (
	"visopsys.dev/kernel/internal/clitool"
)

func main() {
	clitool.Main()
}
