// Package objfile implements the ELF64 relocatable writer: an
// append-only section/symbol/string table builder that assembles a
// well-formed little-endian ET_REL object for EM_X86_64 on
// finalisation.
package objfile

import (
	"encoding/binary"
	"os"
)

// Section and symbol table constants (System V ELF64, subset needed
// here).
const (
	SHT_NULL     = 0
	SHT_PROGBITS = 1
	SHT_SYMTAB   = 2
	SHT_STRTAB   = 3

	SHF_ALLOC     = 0x2
	SHF_EXECINSTR = 0x4

	STB_LOCAL  = 0
	STB_GLOBAL = 1

	STT_NOTYPE = 0
	STT_FUNC   = 2

	SHN_UNDEF = 0

	EM_X86_64 = 0x3E
	ET_REL    = 1

	ehdrSize = 0x40
	shdrSize = 0x40
	symSize  = 24
)

type section struct {
	name       string
	nameOffset uint32
	shType     uint32
	flags      uint64
	data       []byte
	link       uint32
	info       uint32
	entsize    uint64
}

type symbol struct {
	name       string
	nameOffset uint32
	bind       uint8
	typ        uint8
	section    int // index into Writer.sections, or SHN_UNDEF
	value      uint64
}

// Writer accumulates sections, symbols, and their backing string tables
// until Finish assembles and writes the object file.
type Writer struct {
	sections []section
	symbols  []symbol
	current  int

	shstrtab []byte
	strtab   []byte
}

// New creates a Writer with the mandatory null section (index 0) and
// null symbol (index 0).
func New() *Writer {
	w := &Writer{
		shstrtab: []byte{0},
		strtab:   []byte{0},
	}
	w.sections = append(w.sections, section{name: "", shType: SHT_NULL})
	w.symbols = append(w.symbols, symbol{name: "", section: SHN_UNDEF})
	return w
}

func (w *Writer) addshstr(name string) uint32 {
	off := uint32(len(w.shstrtab))
	w.shstrtab = append(w.shstrtab, []byte(name)...)
	w.shstrtab = append(w.shstrtab, 0)
	return off
}

func (w *Writer) addstr(name string) uint32 {
	off := uint32(len(w.strtab))
	w.strtab = append(w.strtab, []byte(name)...)
	w.strtab = append(w.strtab, 0)
	return off
}

// AddSection appends a new section and returns its index.
func (w *Writer) AddSection(name string, shType uint32, flags uint64) int {
	idx := len(w.sections)
	w.sections = append(w.sections, section{
		name:       name,
		nameOffset: w.addshstr(name),
		shType:     shType,
		flags:      flags,
	})
	return idx
}

// SetCurrent makes section idx the target of subsequent Append calls.
func (w *Writer) SetCurrent(idx int) {
	w.current = idx
}

// Append appends data to the current section and returns the offset at
// which it was written (its value relative to the section start, used
// for symbol values).
func (w *Writer) Append(data []byte) uint64 {
	offset := uint64(len(w.sections[w.current].data))
	w.sections[w.current].data = append(w.sections[w.current].data, data...)
	return offset
}

// CurrentSize returns the current section's size so far.
func (w *Writer) CurrentSize() uint64 {
	return uint64(len(w.sections[w.current].data))
}

// AddSymbol appends a symbol bound to sectionIdx and returns its index.
func (w *Writer) AddSymbol(sectionIdx int, name string, bind, typ uint8, value uint64) int {
	idx := len(w.symbols)
	w.symbols = append(w.symbols, symbol{
		name:       name,
		nameOffset: w.addstr(name),
		bind:       bind,
		typ:        typ,
		section:    sectionIdx,
		value:      value,
	})
	return idx
}

// Finish assembles .symtab, .strtab, and .shstrtab, computes section
// file offsets, and writes the complete ELF64 object to path. The
// output file is created only here, at the very end of the pipeline,
// so a fatal error in an earlier stage never leaves a partial object
// on disk.
func (w *Writer) Finish(path string) error {
	symtabData, localCount := w.buildSymtab()
	symtabIdx := len(w.sections)
	w.sections = append(w.sections, section{
		name:       ".symtab",
		nameOffset: w.addshstr(".symtab"),
		shType:     SHT_SYMTAB,
		data:       symtabData,
		info:       uint32(localCount),
		entsize:    symSize,
	})

	strtabIdx := len(w.sections)
	w.sections = append(w.sections, section{
		name:       ".strtab",
		nameOffset: w.addshstr(".strtab"),
		shType:     SHT_STRTAB,
		data:       w.strtab,
	})
	w.sections[symtabIdx].link = uint32(strtabIdx)

	shstrtabIdx := len(w.sections)
	w.sections = append(w.sections, section{
		name:       ".shstrtab",
		nameOffset: w.addshstr(".shstrtab"),
		shType:     SHT_STRTAB,
		data:       w.shstrtab,
	})

	offsets := make([]uint64, len(w.sections))
	cur := uint64(ehdrSize + shdrSize*len(w.sections))
	for i := 1; i < len(w.sections); i++ { // index 0 (null) has offset 0
		offsets[i] = cur
		cur += uint64(len(w.sections[i].data))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeHeader(f, len(w.sections), shstrtabIdx); err != nil {
		return err
	}
	for i, s := range w.sections {
		if err := writeSectionHeader(f, s, offsets[i]); err != nil {
			return err
		}
	}
	for _, s := range w.sections {
		if _, err := f.Write(s.data); err != nil {
			return err
		}
	}
	return nil
}

// buildSymtab emits the symbol table by iterating symbols twice: all
// locals first, then all globals, returning the data and the count of
// local entries for the section header's info field.
func (w *Writer) buildSymtab() ([]byte, int) {
	var data []byte
	localCount := 0
	for _, s := range w.symbols {
		if s.bind == STB_LOCAL {
			data = append(data, encodeSym(s)...)
			localCount++
		}
	}
	for _, s := range w.symbols {
		if s.bind != STB_LOCAL {
			data = append(data, encodeSym(s)...)
		}
	}
	return data, localCount
}

func encodeSym(s symbol) []byte {
	buf := make([]byte, symSize)
	binary.LittleEndian.PutUint32(buf[0:4], s.nameOffset)
	buf[4] = s.bind<<4 | s.typ
	buf[5] = 0 // other
	binary.LittleEndian.PutUint16(buf[6:8], uint16(s.section))
	binary.LittleEndian.PutUint64(buf[8:16], s.value)
	binary.LittleEndian.PutUint64(buf[16:24], 0) // size
	return buf
}

func writeHeader(f *os.File, shnum, shstrndx int) error {
	var hdr [ehdrSize]byte
	copy(hdr[0:4], []byte{0x7F, 'E', 'L', 'F'})
	hdr[4] = 2    // ELFCLASS64
	hdr[5] = 1    // ELFDATA2LSB (little-endian)
	hdr[6] = 1    // EV_CURRENT
	hdr[7] = 0    // ELFOSABI_SYSV
	binary.LittleEndian.PutUint16(hdr[16:18], ET_REL)
	binary.LittleEndian.PutUint16(hdr[18:20], EM_X86_64)
	binary.LittleEndian.PutUint32(hdr[20:24], 1) // EV_CURRENT
	binary.LittleEndian.PutUint16(hdr[52:54], ehdrSize)
	binary.LittleEndian.PutUint64(hdr[40:48], ehdrSize) // e_shoff
	binary.LittleEndian.PutUint16(hdr[58:60], shdrSize)
	binary.LittleEndian.PutUint16(hdr[60:62], uint16(shnum))
	binary.LittleEndian.PutUint16(hdr[62:64], uint16(shstrndx))
	_, err := f.Write(hdr[:])
	return err
}

func writeSectionHeader(f *os.File, s section, offset uint64) error {
	var buf [shdrSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], s.nameOffset)
	binary.LittleEndian.PutUint32(buf[4:8], s.shType)
	binary.LittleEndian.PutUint64(buf[8:16], s.flags)
	binary.LittleEndian.PutUint64(buf[16:24], 0) // addr
	binary.LittleEndian.PutUint64(buf[24:32], offset)
	binary.LittleEndian.PutUint64(buf[32:40], uint64(len(s.data)))
	binary.LittleEndian.PutUint32(buf[40:44], s.link)
	binary.LittleEndian.PutUint32(buf[44:48], s.info)
	binary.LittleEndian.PutUint64(buf[48:56], 0) // addralign
	binary.LittleEndian.PutUint64(buf[56:64], s.entsize)
	_, err := f.Write(buf[:])
	return err
}
