// Package fixture builds synthetic compound files and record streams for tests.
package fixture

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// Container layout constants written by the builder.
const (
	SectorSize     = 512
	MiniSectorSize = 64
	MiniCutoff     = 4096
	EntrySize      = 128

	EndOfChain uint32 = 0xFFFFFFFE
	FreeSect   uint32 = 0xFFFFFFFF
	FATSect    uint32 = 0xFFFFFFFD
	DIFATSect  uint32 = 0xFFFFFFFC
	NoStream   uint32 = 0xFFFFFFFF

	inlineDIFAT = 109
	difatSlots  = SectorSize/4 - 1
)

// Node is a stream or storage to place in a container.
type Node struct {
	Name     string
	Data     []byte
	Storage  bool
	Children []Node
}

// Stream returns a stream node.
func Stream(name string, data []byte) Node {
	return Node{Name: name, Data: data}
}

// Storage returns a storage node.
func Storage(name string, children ...Node) Node {
	return Node{Name: name, Storage: true, Children: children}
}

// Image is a built container with the locations tests need to corrupt it.
type Image struct {
	Bytes []byte

	FATSectors       []uint32
	DIFATSectors     []uint32
	DirectorySector  uint32
	MiniFATSector    uint32
	MiniStreamSector uint32

	// EntryIDs maps a slash-joined node path to its directory entry id.
	EntryIDs map[string]uint32
}

// SectorOffset returns the file offset of sector s.
func SectorOffset(s uint32) int {
	return (int(s) + 1) * SectorSize
}

// SetFAT overwrites the FAT entry for sector s.
func (img *Image) SetFAT(sector, next uint32) {
	fatSector := img.FATSectors[sector/(SectorSize/4)]
	off := SectorOffset(fatSector) + int(sector%(SectorSize/4))*4
	binary.LittleEndian.PutUint32(img.Bytes[off:], next)
}

// SetMiniFAT overwrites the mini-FAT entry for mini-sector s.
func (img *Image) SetMiniFAT(sector, next uint32) {
	off := SectorOffset(img.MiniFATSector) + int(sector)*4
	binary.LittleEndian.PutUint32(img.Bytes[off:], next)
}

// PutU16 writes a little-endian uint16 at off.
func (img *Image) PutU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(img.Bytes[off:], v)
}

// PutU32 writes a little-endian uint32 at off.
func (img *Image) PutU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(img.Bytes[off:], v)
}

// EntryOffset returns the file offset of directory entry id.
func (img *Image) EntryOffset(id uint32) int {
	perSector := uint32(SectorSize / EntrySize)
	return SectorOffset(img.DirectorySector+id/perSector) + int(id%perSector)*EntrySize
}

// CFB builds a container holding the given top-level nodes.
func CFB(nodes ...Node) []byte {
	return Build(nodes...).Bytes
}

// SchDoc builds a container with a single FileHeader stream of encoded records.
func SchDoc(payloads ...string) []byte {
	return CFB(Stream("FileHeader", Records(payloads...)))
}

type dirEntry struct {
	name     string
	kind     byte
	left     uint32
	right    uint32
	child    uint32
	start    uint32
	size     uint64
	data     []byte
	children []uint32
}

// Build lays out FAT sectors first, then any DIFAT sectors, then the directory, the mini-FAT,
// the mini-stream and finally every large stream.
func Build(nodes ...Node) *Image {
	entries := []*dirEntry{{name: "Root Entry", kind: 5}}
	ids := map[string]uint32{}
	flatten(entries[0], nodes, "", &entries, ids)

	for _, e := range entries {
		e.left, e.right, e.child = NoStream, NoStream, NoStream
	}
	for _, e := range entries {
		if e.kind == 1 || e.kind == 5 {
			e.child = balance(entries, e.children)
		}
	}

	var (
		miniStream []byte
		miniFAT    []uint32
		big        []*dirEntry
	)
	for _, e := range entries[1:] {
		if e.kind != 2 || len(e.data) == 0 {
			e.start = EndOfChain
			continue
		}
		e.size = uint64(len(e.data))
		if len(e.data) >= MiniCutoff {
			big = append(big, e)
			continue
		}
		first := uint32(len(miniFAT)) //nolint:gosec // Test sizes.
		n := ceilDiv(len(e.data), MiniSectorSize)
		for i := range n {
			next := first + uint32(i) + 1 //nolint:gosec // Test sizes.
			if i == n-1 {
				next = EndOfChain
			}
			miniFAT = append(miniFAT, next)
		}
		e.start = first
		miniStream = append(miniStream, pad(e.data, MiniSectorSize)...)
	}

	dirSectors := ceilDiv(len(entries)*EntrySize, SectorSize)
	miniFATSectors := ceilDiv(len(miniFAT)*4, SectorSize)
	miniStreamSectors := ceilDiv(len(miniStream), SectorSize)
	bodySectors := dirSectors + miniFATSectors + miniStreamSectors
	for _, e := range big {
		bodySectors += ceilDiv(len(e.data), SectorSize)
	}

	fatSectors, difatSectors := 1, 0
	for {
		difatSectors = ceilDiv(max(fatSectors-inlineDIFAT, 0), difatSlots)
		if fatSectors*(SectorSize/4) >= fatSectors+difatSectors+bodySectors {
			break
		}
		fatSectors++
	}

	img := &Image{EntryIDs: ids, MiniFATSector: EndOfChain, MiniStreamSector: EndOfChain}
	fat := make([]uint32, 0, fatSectors*(SectorSize/4))
	var body []byte

	for i := range fatSectors {
		img.FATSectors = append(img.FATSectors, uint32(i)) //nolint:gosec // Test sizes.
		fat = append(fat, FATSect)
	}
	for range difatSectors {
		img.DIFATSectors = append(img.DIFATSectors, uint32(len(fat))) //nolint:gosec // Test sizes.
		fat = append(fat, DIFATSect)
	}

	allocate := func(data []byte) uint32 {
		n := ceilDiv(len(data), SectorSize)
		first := uint32(len(fat)) //nolint:gosec // Test sizes.
		for i := range n {
			next := first + uint32(i) + 1 //nolint:gosec // Test sizes.
			if i == n-1 {
				next = EndOfChain
			}
			fat = append(fat, next)
		}
		body = append(body, pad(data, SectorSize)...)
		return first
	}

	// The directory is allocated before its contents are final, so reserve space and fill later.
	img.DirectorySector = allocate(make([]byte, dirSectors*SectorSize))
	dirOffset := 0

	if len(miniFAT) > 0 {
		img.MiniFATSector = allocate(u32s(pad32(miniFAT, SectorSize/4)))
	}
	if len(miniStream) > 0 {
		img.MiniStreamSector = allocate(miniStream)
		entries[0].start = img.MiniStreamSector
		entries[0].size = uint64(len(miniStream))
	} else {
		entries[0].start = EndOfChain
	}
	for _, e := range big {
		e.start = allocate(e.data)
	}

	dir := make([]byte, 0, dirSectors*SectorSize)
	for _, e := range entries {
		dir = append(dir, encodeEntry(e)...)
	}
	for len(dir) < dirSectors*SectorSize {
		dir = append(dir, encodeEntry(&dirEntry{left: NoStream, right: NoStream, child: NoStream})...)
	}
	copy(body[dirOffset:], dir)

	for len(fat) < fatSectors*(SectorSize/4) {
		fat = append(fat, FreeSect)
	}

	out := header(img, fatSectors, len(miniFAT))
	out = append(out, u32s(fat)...)
	out = append(out, difat(img)...)
	out = append(out, body...)
	img.Bytes = out
	return img
}

func flatten(parent *dirEntry, nodes []Node, prefix string, entries *[]*dirEntry, ids map[string]uint32) {
	for _, node := range nodes {
		entry := &dirEntry{name: node.Name, kind: 2, data: node.Data}
		if node.Storage {
			entry.kind = 1
		}
		id := uint32(len(*entries)) //nolint:gosec // Test sizes.
		*entries = append(*entries, entry)
		parent.children = append(parent.children, id)

		path := prefix + node.Name
		ids[path] = id
		if node.Storage {
			flatten(entry, node.Children, path+"/", entries, ids)
		}
	}
}

// balance links ids into a balanced sibling tree whose in-order walk preserves their order.
func balance(entries []*dirEntry, ids []uint32) uint32 {
	if len(ids) == 0 {
		return NoStream
	}
	mid := len(ids) / 2
	root := ids[mid]
	entries[root].left = balance(entries, ids[:mid])
	entries[root].right = balance(entries, ids[mid+1:])
	return root
}

func encodeEntry(e *dirEntry) []byte {
	out := make([]byte, EntrySize)
	if e.kind != 0 {
		name, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(e.name))
		if err != nil {
			panic(err)
		}
		copy(out[0:64], name)
		binary.LittleEndian.PutUint16(out[64:], uint16(len(name)+2)) //nolint:gosec // Names are short.
	}
	out[66] = e.kind
	out[67] = 1
	binary.LittleEndian.PutUint32(out[68:], e.left)
	binary.LittleEndian.PutUint32(out[72:], e.right)
	binary.LittleEndian.PutUint32(out[76:], e.child)
	binary.LittleEndian.PutUint32(out[116:], e.start)
	binary.LittleEndian.PutUint64(out[120:], e.size)
	return out
}

func header(img *Image, fatSectors, miniFATEntries int) []byte {
	out := make([]byte, SectorSize)
	copy(out, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(out[24:], 0x003E)
	binary.LittleEndian.PutUint16(out[26:], 0x0003)
	binary.LittleEndian.PutUint16(out[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(out[30:], 9)
	binary.LittleEndian.PutUint16(out[32:], 6)
	binary.LittleEndian.PutUint32(out[44:], uint32(fatSectors)) //nolint:gosec // Test sizes.
	binary.LittleEndian.PutUint32(out[48:], img.DirectorySector)
	binary.LittleEndian.PutUint32(out[56:], MiniCutoff)
	binary.LittleEndian.PutUint32(out[60:], img.MiniFATSector)
	binary.LittleEndian.PutUint32(out[64:], uint32(ceilDiv(miniFATEntries*4, SectorSize))) //nolint:gosec // Test sizes.
	binary.LittleEndian.PutUint32(out[68:], EndOfChain)
	if len(img.DIFATSectors) > 0 {
		binary.LittleEndian.PutUint32(out[68:], img.DIFATSectors[0])
		binary.LittleEndian.PutUint32(out[72:], uint32(len(img.DIFATSectors))) //nolint:gosec // Test sizes.
	}
	for i := range inlineDIFAT {
		slot := FreeSect
		if i < len(img.FATSectors) {
			slot = img.FATSectors[i]
		}
		binary.LittleEndian.PutUint32(out[76+i*4:], slot)
	}
	return out
}

// difat encodes the FAT locations past the inline header slots, each sector
// ending with a link to the next.
func difat(img *Image) []byte {
	if len(img.DIFATSectors) == 0 {
		return nil
	}
	rest := img.FATSectors[inlineDIFAT:]
	out := make([]uint32, 0, len(img.DIFATSectors)*(SectorSize/4))
	for i := range img.DIFATSectors {
		for j := range difatSlots {
			slot := FreeSect
			if k := i*difatSlots + j; k < len(rest) {
				slot = rest[k]
			}
			out = append(out, slot)
		}
		next := EndOfChain
		if i+1 < len(img.DIFATSectors) {
			next = img.DIFATSectors[i+1]
		}
		out = append(out, next)
	}
	return u32s(out)
}

func u32s(values []uint32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

func pad(data []byte, size int) []byte {
	out := append([]byte(nil), data...)
	for len(out)%size != 0 {
		out = append(out, 0)
	}
	return out
}

func pad32(values []uint32, size int) []uint32 {
	out := append([]uint32(nil), values...)
	for len(out)%size != 0 {
		out = append(out, FreeSect)
	}
	return out
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
