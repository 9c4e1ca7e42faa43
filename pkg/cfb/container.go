// Package cfb reads version 3 Compound File Binary containers: a FAT-based
// file system of storages and streams packed into 512-byte sectors.
//
// Open validates the header and eagerly resolves the FAT, the directory,
// the storage tree and the mini-stream. The resulting Container is immutable
// and safe for concurrent readers.
package cfb

import (
	"errors"
	"slices"
	"strings"

	"github.com/yaklabco/gosch/pkg/bytecursor"
	"github.com/yaklabco/gosch/pkg/diag"
)

// Container is an opened compound file.
type Container struct {
	data   []byte
	header Header

	fat     FAT
	miniFAT FAT

	dirChain []uint32
	entries  []DirectoryEntry
	children [][]uint32

	miniStream []byte
	miniChain  []uint32

	totalSectors int
	warnings     []diag.Warning
}

// Open parses a container held entirely in memory.
// The container keeps a reference to data; callers must not modify it afterwards.
func Open(data []byte) (*Container, error) {
	var warn diag.List

	hdr, err := parseHeader(data, &warn)
	if err != nil {
		return nil, err
	}

	ss := hdr.SectorSize()
	container := &Container{
		data:         data,
		header:       *hdr,
		totalSectors: (len(data) - HeaderSize + ss - 1) / ss,
	}

	if err := container.loadFAT(); err != nil {
		return nil, err
	}
	if err := container.loadDirectory(&warn); err != nil {
		return nil, err
	}
	if err := container.buildTree(&warn); err != nil {
		return nil, err
	}
	if err := container.loadMiniStream(); err != nil {
		return nil, err
	}

	container.warnings = warn.All()
	return container, nil
}

// Header returns a copy of the parsed header.
func (c *Container) Header() Header {
	return c.header
}

// Warnings returns the non-fatal anomalies found while opening.
func (c *Container) Warnings() []diag.Warning {
	return slices.Clone(c.warnings)
}

// SectorCount returns the number of (possibly partial) sectors after the header.
func (c *Container) SectorCount() int {
	return c.totalSectors
}

// Root returns the root storage entry.
func (c *Container) Root() DirectoryEntry {
	return c.entries[0]
}

// Entries returns every directory entry, unused slots included, indexed by id.
func (c *Container) Entries() []DirectoryEntry {
	return slices.Clone(c.entries)
}

// Entry returns the entry with the given id.
func (c *Container) Entry(id uint32) (DirectoryEntry, bool) {
	if int64(id) >= int64(len(c.entries)) {
		return DirectoryEntry{}, false
	}
	return c.entries[id], true
}

// Children returns the ids of a storage's children in sibling-tree order.
func (c *Container) Children(id uint32) []uint32 {
	if int64(id) >= int64(len(c.children)) {
		return nil
	}
	return slices.Clone(c.children[id])
}

// Chain returns the regular FAT chain starting at sector start.
func (c *Container) Chain(start uint32) ([]uint32, error) {
	return c.chain(start)
}

// ReadStream returns a copy of the content of a stream entry.
// Streams smaller than the mini-stream cutoff are read from the mini-stream;
// the root entry is always read through the regular FAT.
func (c *Container) ReadStream(id uint32) ([]byte, error) {
	entry, ok := c.Entry(id)
	if !ok || entry.Kind == KindUnused {
		return nil, &StreamError{ID: id, Err: ErrStreamNotFound}
	}
	if !entry.IsStream() && entry.Kind != KindRoot {
		return nil, &StreamError{ID: id, Name: entry.Name, Err: ErrNotStream}
	}

	if id == 0 || entry.Size >= uint64(c.header.MiniStreamCutoff) {
		return c.readRegular(entry.StartSector, entry.Size)
	}
	return c.readMini(entry.StartSector, entry.Size)
}

// Find resolves a path of entry names from the root. Names match case-insensitively.
func (c *Container) Find(path ...string) (DirectoryEntry, error) {
	current := uint32(0)
	for _, name := range path {
		next, found := c.childByName(current, name)
		if !found {
			return DirectoryEntry{}, &StreamError{ID: NoStream, Name: strings.Join(path, "/"), Err: ErrStreamNotFound}
		}
		current = next
	}
	return c.entries[current], nil
}

// ReadPath finds a stream by path and reads it.
func (c *Container) ReadPath(path ...string) ([]byte, error) {
	entry, err := c.Find(path...)
	if err != nil {
		return nil, err
	}
	return c.ReadStream(entry.ID)
}

// WalkFunc is called for each entry below the root with the names leading to it.
type WalkFunc func(path []string, entry DirectoryEntry) error

// SkipStorage returned from a WalkFunc skips the children of the current storage.
//
//nolint:errname,revive,staticcheck,gochecknoglobals // Named like fs.SkipDir.
var SkipStorage = errors.New("skip this storage")

// Walk visits the tree depth-first in sibling order.
func (c *Container) Walk(fn WalkFunc) error {
	return c.walk(0, nil, fn)
}

func (c *Container) walk(id uint32, prefix []string, fn WalkFunc) error {
	for _, child := range c.children[id] {
		entry := c.entries[child]
		path := append(slices.Clone(prefix), entry.Name)

		err := fn(path, entry)
		if errors.Is(err, SkipStorage) {
			continue
		}
		if err != nil {
			return err
		}

		if entry.IsStorage() {
			if err := c.walk(child, path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Container) childByName(parent uint32, name string) (uint32, bool) {
	for _, child := range c.children[parent] {
		if strings.EqualFold(c.entries[child].Name, name) {
			return child, true
		}
	}
	return 0, false
}

// sectorOffset returns the file offset of sector s.
func (c *Container) sectorOffset(s uint32) int64 {
	return (int64(s) + 1) * int64(c.header.SectorSize())
}

// sector returns the bytes of sector s. The last sector of the file may be short.
func (c *Container) sector(s uint32) ([]byte, error) {
	if s > MaxRegSect {
		return nil, corruptf(noOffset, s, "unexpected sentinel 0x%08X used as a sector", s)
	}
	off := c.sectorOffset(s)
	if off >= int64(len(c.data)) {
		return nil, corruptf(off, s, "sector %d lies beyond the end of the file (%d bytes)", s, len(c.data))
	}

	cur := bytecursor.New(c.data)
	if err := cur.Seek(int(off)); err != nil {
		return nil, &CorruptContainerError{Offset: off, Sector: s, Message: "seek failed", Err: err}
	}
	return cur.Read(min(c.header.SectorSize(), cur.Remaining()))
}

// chain follows the regular FAT and fills in file offsets on failure.
func (c *Container) chain(start uint32) ([]uint32, error) {
	chain, err := c.fat.Chain(start, c.totalSectors)
	if err != nil {
		var corrupt *CorruptContainerError
		if errors.As(err, &corrupt) && corrupt.Sector <= MaxRegSect {
			corrupt.Offset = c.sectorOffset(corrupt.Sector)
		}
		return nil, err
	}
	return chain, nil
}

// miniSectorOffset maps mini-sector s to a file offset through the root entry's chain.
func (c *Container) miniSectorOffset(s uint32) int64 {
	if s > MaxRegSect {
		return noOffset
	}
	ss := int64(c.header.SectorSize())
	pos := int64(s) * int64(c.header.MiniSectorSize())
	idx := pos / ss
	if idx >= int64(len(c.miniChain)) {
		return noOffset
	}
	return c.sectorOffset(c.miniChain[idx]) + pos%ss
}

// readSectors concatenates the given sectors.
func (c *Container) readSectors(chain []uint32, limit uint64) ([]byte, error) {
	out := make([]byte, 0, limit)
	for _, s := range chain {
		if uint64(len(out)) >= limit {
			break
		}
		b, err := c.sector(s)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *Container) readRegular(start uint32, size uint64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	chain, err := c.chain(start)
	if err != nil {
		return nil, err
	}

	sectorSize := uint64(c.header.SectorSize()) //nolint:gosec // Validated shift.
	if uint64(len(chain))*sectorSize < size {
		return nil, corruptf(c.sectorOffset(start), start,
			"chain of %d sectors cannot hold a %d-byte stream", len(chain), size)
	}

	out, err := c.readSectors(chain, size)
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) < size {
		return nil, corruptf(c.sectorOffset(start), start, "stream of %d bytes is truncated at %d bytes", size, len(out))
	}
	return out, nil
}

func (c *Container) readMini(start uint32, size uint64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	chain, err := c.miniFAT.Chain(start, len(c.miniFAT))
	if err != nil {
		var corrupt *CorruptContainerError
		if errors.As(err, &corrupt) {
			corrupt.Offset = c.miniSectorOffset(corrupt.Sector)
		}
		return nil, err
	}

	miniSize := c.header.MiniSectorSize()
	if uint64(len(chain))*uint64(miniSize) < size { //nolint:gosec // Validated shift.
		return nil, corruptf(c.miniSectorOffset(start), start, "mini chain of %d sectors cannot hold a %d-byte stream", len(chain), size)
	}

	out := make([]byte, 0, size)
	cur := bytecursor.New(c.miniStream)
	for _, s := range chain {
		if uint64(len(out)) >= size {
			break
		}
		off := int64(s) * int64(miniSize)
		if off >= int64(len(c.miniStream)) {
			return nil, corruptf(c.miniSectorOffset(s), s, "mini sector %d lies beyond the mini stream (%d bytes)", s, len(c.miniStream))
		}
		if err := cur.Seek(int(off)); err != nil {
			return nil, &CorruptContainerError{Offset: c.miniSectorOffset(s), Sector: s, Message: "mini stream seek failed", Err: err}
		}
		b, err := cur.Read(min(miniSize, cur.Remaining()))
		if err != nil {
			return nil, &CorruptContainerError{Offset: c.miniSectorOffset(s), Sector: s, Message: "mini stream read failed", Err: err}
		}
		out = append(out, b...)
	}

	if uint64(len(out)) < size {
		return nil, corruptf(c.miniSectorOffset(start), start, "mini stream of %d bytes is truncated at %d bytes", size, len(out))
	}
	return out[:size], nil
}

// loadFAT collects the FAT sector locations from the header and the DIFAT chain,
// then decodes the table.
func (c *Container) loadFAT() error {
	want := int(c.header.FATSectors)
	if want > c.totalSectors {
		return corruptf(offFATSectors, c.header.FATSectors,
			"header declares %d FAT sectors but the file holds %d sectors", want, c.totalSectors)
	}

	locations := make([]uint32, 0, want)
	for _, s := range c.header.DIFAT {
		if len(locations) == want {
			break
		}
		locations = append(locations, s)
	}

	perSector := c.header.SectorSize()/4 - 1
	next := c.header.FirstDIFATSector
	for walked := 0; len(locations) < want; walked++ {
		if next == EndOfChain || next == FreeSect || walked >= int(c.header.DIFATSectors) {
			return corruptf(offDIFATSectors, next,
				"DIFAT lists %d of %d FAT sectors", len(locations), want)
		}

		sector, err := c.sector(next)
		if err != nil {
			return err
		}
		cur := bytecursor.New(sector)
		for i := 0; i < perSector && len(locations) < want; i++ {
			loc, err := cur.ReadU32LE()
			if err != nil {
				return &CorruptContainerError{Offset: c.sectorOffset(next), Sector: next, Message: "short DIFAT sector", Err: err}
			}
			locations = append(locations, loc)
		}
		if err := cur.Seek(perSector * 4); err != nil {
			return &CorruptContainerError{Offset: c.sectorOffset(next), Sector: next, Message: "short DIFAT sector", Err: err}
		}
		link, err := cur.ReadU32LE()
		if err != nil {
			return &CorruptContainerError{Offset: c.sectorOffset(next), Sector: next, Message: "short DIFAT sector", Err: err}
		}
		next = link
	}

	fat := make(FAT, 0, want*c.header.SectorSize()/4)
	for _, loc := range locations {
		sector, err := c.sector(loc)
		if err != nil {
			return err
		}
		if fat, err = decodeFATSector(fat, sector); err != nil {
			return &CorruptContainerError{Offset: c.sectorOffset(loc), Sector: loc, Message: "short FAT sector", Err: err}
		}
	}

	c.fat = fat
	return nil
}

func (c *Container) loadDirectory(warn *diag.List) error {
	chain, err := c.chain(c.header.FirstDirectorySector)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		return corruptf(offFirstDirSector, c.header.FirstDirectorySector, "directory chain is empty")
	}

	ss := c.header.SectorSize()
	stream, err := c.readSectors(chain, uint64(len(chain)*ss)) //nolint:gosec // Positive product.
	if err != nil {
		return err
	}

	c.dirChain = chain
	entries, err := parseDirectory(stream, c.entryOffset, warn)
	if err != nil {
		return err
	}
	c.entries = entries
	return nil
}

// entryOffset returns the file offset of directory entry id.
func (c *Container) entryOffset(id uint32) int64 {
	perSector := uint32(c.header.SectorSize() / DirEntrySize) //nolint:gosec // Small constant.
	idx := id / perSector
	if int64(idx) >= int64(len(c.dirChain)) {
		return noOffset
	}
	return c.sectorOffset(c.dirChain[idx]) + int64(id%perSector)*DirEntrySize
}

// buildTree resolves every storage's children, breadth-first from the root.
// An entry may appear in at most one sibling tree.
func (c *Container) buildTree(warn *diag.List) error {
	if len(c.entries) == 0 || c.entries[0].Kind != KindRoot {
		return corruptf(c.entryOffset(0), 0, "entry 0 is not the root storage")
	}

	c.children = make([][]uint32, len(c.entries))
	visited := make([]bool, len(c.entries))
	visited[0] = true

	queue := []uint32{0}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		ids, err := c.walkSiblings(c.entries[parent].Child, visited)
		if err != nil {
			return err
		}

		kids := make([]uint32, 0, len(ids))
		for _, id := range ids {
			if c.entries[id].Kind == KindUnused {
				warn.Addf(diag.CodeDirectoryEntry, c.entryOffset(id), diag.NoRecord,
					"unused entry %d is linked under entry %d; ignoring it", id, parent)
				continue
			}
			kids = append(kids, id)
			if c.entries[id].IsStorage() {
				queue = append(queue, id)
			}
		}
		c.children[parent] = kids
	}

	return nil
}

// walkSiblings returns the in-order traversal of the sibling tree rooted at root.
// It is iterative so hostile trees cannot exhaust the stack.
func (c *Container) walkSiblings(root uint32, visited []bool) ([]uint32, error) {
	var (
		out   []uint32
		stack []uint32
	)

	cur := root
	for cur != NoStream || len(stack) > 0 {
		for cur != NoStream {
			if int64(cur) >= int64(len(c.entries)) {
				return nil, corruptf(noOffset, cur, "directory link to entry %d is out of range (%d entries)", cur, len(c.entries))
			}
			if visited[cur] {
				return nil, corruptf(c.entryOffset(cur), cur, "directory tree reaches entry %d twice", cur)
			}
			visited[cur] = true
			stack = append(stack, cur)
			cur = c.entries[cur].Left
		}

		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		cur = c.entries[cur].Right
	}

	return out, nil
}

// loadMiniStream reads the root entry's stream and the mini-FAT.
func (c *Container) loadMiniStream() error {
	root := c.entries[0]
	if root.Size > 0 && root.StartSector != EndOfChain {
		chain, err := c.chain(root.StartSector)
		if err != nil {
			return err
		}
		stream, err := c.readRegular(root.StartSector, root.Size)
		if err != nil {
			return err
		}
		c.miniChain = chain
		c.miniStream = stream
	}

	if c.header.FirstMiniFATSector == EndOfChain || c.header.MiniFATSectors == 0 {
		return nil
	}

	chain, err := c.chain(c.header.FirstMiniFATSector)
	if err != nil {
		return err
	}
	for _, s := range chain {
		sector, err := c.sector(s)
		if err != nil {
			return err
		}
		if c.miniFAT, err = decodeFATSector(c.miniFAT, sector); err != nil {
			return &CorruptContainerError{Offset: c.sectorOffset(s), Sector: s, Message: "short mini FAT sector", Err: err}
		}
	}
	return nil
}
