// Command edit inspects a host file's row/offset mapping through
// kernel/editcore, loading it into an in-memory vfs facade so the same
// streamRead/streamSeek path the kernel's editor would use is exercised.
// Grounded on programs/edit.c, narrowed to the screen/line mapping
// supplement (there is no terminal UI here, matching editcore's own scope).
package main

import (
	"visopsys.dev/kernel/internal/clitool"
)

func main() {
	clitool.Main()
}
