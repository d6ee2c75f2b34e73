// Command software lists, removes, and verifies entries in the kernel's
// installation database. Grounded on programs/software.c's role, narrowed
// to the installation database's list/remove/verify operations.
package main

import (
	"visopsys.dev/kernel/internal/clitool"
)

func main() {
	clitool.Main()
}
