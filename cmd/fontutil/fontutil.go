// Command fontutil lists, inspects, and converts Visopsys Bitmap Font
// (VBF) files through the kernel's file-class loader, grounded on
// programs/fontutil.c and dispatched through the shared clitool mode
// registry the way pkg/cmdmain dispatches camput's "file"/"blob" modes.
package main

import (
	"visopsys.dev/kernel/internal/clitool"
)

func main() {
	clitool.Main()
}
