package objfile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMinimalObjectRoundTrips(t *testing.T) {
	w := New()
	text := w.AddSection(".text", SHT_PROGBITS, SHF_ALLOC|SHF_EXECINSTR)
	w.SetCurrent(text)
	w.AddSymbol(text, "main", STB_GLOBAL, STT_FUNC, w.CurrentSize())
	w.Append([]byte{0x55, 0x48, 0x89, 0xE5, 0x5D, 0xC3})

	path := t.TempDir() + "/out.o"
	if err := w.Finish(path); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	obj, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	var sawText, sawSymtab, sawStrtab, sawShstrtab bool
	for _, s := range obj.Sections {
		switch s.Name {
		case ".text":
			sawText = true
			if s.Flags != SHF_ALLOC|SHF_EXECINSTR {
				t.Errorf(".text flags = %#x", s.Flags)
			}
		case ".symtab":
			sawSymtab = true
		case ".strtab":
			sawStrtab = true
		case ".shstrtab":
			sawShstrtab = true
		}
	}
	if !sawText || !sawSymtab || !sawStrtab || !sawShstrtab {
		t.Fatalf("missing expected sections: %+v", obj.Sections)
	}

	if len(obj.Symbols) != 2 { // null + main
		t.Fatalf("got %d symbols, want 2", len(obj.Symbols))
	}
	if obj.Symbols[1].Name != "main" {
		t.Errorf("symbol 1 name = %q, want main", obj.Symbols[1].Name)
	}
	if obj.Symbols[1].Bind != STB_GLOBAL {
		t.Errorf("symbol 1 bind = %d, want STB_GLOBAL", obj.Symbols[1].Bind)
	}
}

func TestLocalsPrecedeGlobalsInSymtab(t *testing.T) {
	w := New()
	text := w.AddSection(".text", SHT_PROGBITS, SHF_ALLOC|SHF_EXECINSTR)
	w.SetCurrent(text)
	w.AddSymbol(text, "g1", STB_GLOBAL, STT_FUNC, 0)
	w.AddSymbol(text, "l1", STB_LOCAL, STT_FUNC, 0)
	w.AddSymbol(text, "g2", STB_GLOBAL, STT_FUNC, 0)

	path := t.TempDir() + "/out.o"
	if err := w.Finish(path); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	obj, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	// symbols[0] is null, symbols[1] must be the one local (l1), then globals.
	if obj.Symbols[1].Name != "l1" {
		t.Errorf("first non-null symbol = %q, want l1 (locals precede globals)", obj.Symbols[1].Name)
	}

	var symtabInfo uint32
	for _, s := range obj.Sections {
		if s.Name == ".symtab" {
			symtabInfo = s.Info
		}
	}
	if symtabInfo != 2 { // null symbol + l1
		t.Errorf(".symtab info = %d, want 2 local entries", symtabInfo)
	}

	want := []Symbol{
		{Name: "", Bind: STB_LOCAL, Type: STT_NOTYPE, Section: SHN_UNDEF, Value: 0},
		{Name: "l1", Bind: STB_LOCAL, Type: STT_FUNC, Section: uint16(text), Value: 0},
		{Name: "g1", Bind: STB_GLOBAL, Type: STT_FUNC, Section: uint16(text), Value: 0},
		{Name: "g2", Bind: STB_GLOBAL, Type: STT_FUNC, Section: uint16(text), Value: 0},
	}
	if diff := cmp.Diff(want, obj.Symbols); diff != "" {
		t.Errorf("symbol table mismatch (-want +got):\n%s", diff)
	}
}
