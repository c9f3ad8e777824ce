package relocate

import (
	"debug/elf"
	"fmt"
	"strings"
)

// Metadata is the dynamic-linking state embedded in an executable.
type Metadata struct {
	// Interpreter is the loader path from the PT_INTERP segment, if any.
	Interpreter string
	// RunPath holds the DT_RUNPATH (or legacy DT_RPATH) entries.
	RunPath []string
}

// Inspect reads the embedded interpreter and run-time search path of an ELF
// executable. It is used to report what the shipped binary actually contains
// after patching; callers decide whether the result is acceptable.
func Inspect(path string) (*Metadata, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ELF %s: %w", path, err)
	}

	defer func() {
		_ = f.Close()
	}()

	meta := new(Metadata)

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_INTERP {
			continue
		}

		raw := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(raw, 0); err != nil {
			return nil, fmt.Errorf("read interpreter of %s: %w", path, err)
		}

		meta.Interpreter = strings.TrimRight(string(raw), "\x00")

		break
	}

	runpath, err := f.DynString(elf.DT_RUNPATH)
	if err == nil && len(runpath) == 0 {
		runpath, err = f.DynString(elf.DT_RPATH)
	}

	if err == nil {
		for _, entry := range runpath {
			if entry == "" {
				continue
			}

			meta.RunPath = append(meta.RunPath, strings.Split(entry, ":")...)
		}
	}

	return meta, nil
}
