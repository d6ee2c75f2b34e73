package loader

import (
	"bytes"
	"debug/elf"
)

// getSymbolsELF implements loaderGetSymbols for the ELF class: it reads
// data's symbol table via debug/elf (no pack example or the teacher itself
// parses ELF directly, and no ecosystem dependency in the retrieved corpus
// does either; debug/elf is the standard library's own purpose-built ELF
// reader, so it is used here rather than hand-rolling a section-header
// walker -- see DESIGN.md).
func getSymbolsELF(data []byte) (*SymbolTable, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := newSymbolTable()
	syms, err := f.Symbols()
	if err != nil {
		// A stripped image has no .symtab; that is not an error for
		// loaderGetSymbols, just an empty table.
		return table, nil
	}
	for _, s := range syms {
		if s.Name == "" || s.Section == elf.SHN_UNDEF {
			continue
		}
		table.add(s.Name, uint32(s.Value))
	}
	return table, nil
}

// entryPointELF returns data's ELF entry point, the address
// loaderExecProgram transfers control to after layout and link.
func entryPointELF(data []byte) (uint32, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return uint32(f.Entry), nil
}
