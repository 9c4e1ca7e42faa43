package cfb

import (
	"github.com/yaklabco/gosch/pkg/bytecursor"
)

// FAT is a sector allocation table: entry i holds the sector that follows sector i.
// The same type backs both the regular FAT and the mini-FAT.
type FAT []uint32

// Next returns the successor of sector s, or FreeSect if s is outside the table.
func (f FAT) Next(s uint32) uint32 {
	if int64(s) >= int64(len(f)) {
		return FreeSect
	}
	return f[s]
}

// Chain follows the table from start until ENDOFCHAIN and returns the visited sectors.
//
// A chain that revisits a sector, runs longer than limit, hits another sentinel,
// or leaves the table fails with a CorruptContainerError whose Sector is the
// offending entry. Offset is left unknown; callers that know the sector size fill it in.
func (f FAT) Chain(start uint32, limit int) ([]uint32, error) {
	var chain []uint32
	visited := make(map[uint32]struct{})

	for cur := start; cur != EndOfChain; cur = f[cur] {
		switch {
		case cur > MaxRegSect:
			return nil, corruptf(noOffset, cur, "unexpected sentinel 0x%08X in chain starting at sector %d", cur, start)
		case int64(cur) >= int64(len(f)):
			return nil, corruptf(noOffset, cur, "sector %d is outside the allocation table (%d entries)", cur, len(f))
		case len(chain) >= limit:
			return nil, corruptf(noOffset, cur, "chain starting at sector %d exceeds %d sectors", start, limit)
		}
		if _, seen := visited[cur]; seen {
			return nil, corruptf(noOffset, cur, "chain starting at sector %d revisits sector %d", start, cur)
		}
		visited[cur] = struct{}{}
		chain = append(chain, cur)
	}

	return chain, nil
}

// decodeFATSector appends the little-endian entries of one table sector.
func decodeFATSector(dst FAT, sector []byte) (FAT, error) {
	cur := bytecursor.New(sector)
	for cur.Remaining() >= 4 {
		v, err := cur.ReadU32LE()
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}
