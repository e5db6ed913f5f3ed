// Reader parses an ELF64 relocatable object independently of Writer, so
// that tooling (cmd/curlc-dump) and tests can cross-check what Writer
// actually wrote.
package objfile

import (
	"encoding/binary"
	"fmt"
	"os"
)

// SectionHeader is one parsed section-header-table entry.
type SectionHeader struct {
	Name    string
	Type    uint32
	Flags   uint64
	Offset  uint64
	Size    uint64
	Link    uint32
	Info    uint32
	EntSize uint64
}

// Symbol is one parsed .symtab entry, with its name already resolved
// through .strtab.
type Symbol struct {
	Name    string
	Bind    uint8
	Type    uint8
	Section uint16
	Value   uint64
}

// Object is a parsed ELF64 relocatable.
type Object struct {
	Sections []SectionHeader
	Symbols  []Symbol
}

// Read parses the ELF64 object at path.
func Read(path string) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*Object, error) {
	if len(data) < ehdrSize || data[0] != 0x7F || string(data[1:4]) != "ELF" {
		return nil, fmt.Errorf("objfile: not an ELF file")
	}
	if data[4] != 2 {
		return nil, fmt.Errorf("objfile: not a 64-bit object")
	}

	shoff := binary.LittleEndian.Uint64(data[40:48])
	shnum := binary.LittleEndian.Uint16(data[60:62])
	shstrndx := binary.LittleEndian.Uint16(data[62:64])

	type raw struct {
		nameOff uint32
		typ     uint32
		flags   uint64
		offset  uint64
		size    uint64
		link    uint32
		info    uint32
		entsize uint64
	}

	raws := make([]raw, shnum)
	for i := range raws {
		base := shoff + uint64(i)*shdrSize
		h := data[base : base+shdrSize]
		raws[i] = raw{
			nameOff: binary.LittleEndian.Uint32(h[0:4]),
			typ:     binary.LittleEndian.Uint32(h[4:8]),
			flags:   binary.LittleEndian.Uint64(h[8:16]),
			offset:  binary.LittleEndian.Uint64(h[24:32]),
			size:    binary.LittleEndian.Uint64(h[32:40]),
			link:    binary.LittleEndian.Uint32(h[40:44]),
			info:    binary.LittleEndian.Uint32(h[44:48]),
			entsize: binary.LittleEndian.Uint64(h[56:64]),
		}
	}

	shstrtab := data[raws[shstrndx].offset : raws[shstrndx].offset+raws[shstrndx].size]

	obj := &Object{}
	var symtabIdx = -1
	for i, r := range raws {
		obj.Sections = append(obj.Sections, SectionHeader{
			Name:    cstr(shstrtab, r.nameOff),
			Type:    r.typ,
			Flags:   r.flags,
			Offset:  r.offset,
			Size:    r.size,
			Link:    r.link,
			Info:    r.info,
			EntSize: r.entsize,
		})
		if r.typ == SHT_SYMTAB {
			symtabIdx = i
		}
	}

	if symtabIdx >= 0 {
		r := raws[symtabIdx]
		strtab := data[raws[r.link].offset : raws[r.link].offset+raws[r.link].size]
		symtab := data[r.offset : r.offset+r.size]
		count := len(symtab) / symSize
		for i := 0; i < count; i++ {
			e := symtab[i*symSize : (i+1)*symSize]
			nameOff := binary.LittleEndian.Uint32(e[0:4])
			info := e[4]
			shndx := binary.LittleEndian.Uint16(e[6:8])
			value := binary.LittleEndian.Uint64(e[8:16])
			obj.Symbols = append(obj.Symbols, Symbol{
				Name:    cstr(strtab, nameOff),
				Bind:    info >> 4,
				Type:    info & 0xF,
				Section: shndx,
				Value:   value,
			})
		}
	}

	return obj, nil
}

// ReadSectionData re-reads path and slices out sh's raw bytes. Intended
// for tooling that wants a section's contents, not just its header.
func ReadSectionData(path string, sh SectionHeader) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data[sh.Offset : sh.Offset+sh.Size], nil
}

func cstr(buf []byte, off uint32) string {
	end := off
	for end < uint32(len(buf)) && buf[end] != 0 {
		end++
	}
	return string(buf[off:end])
}
