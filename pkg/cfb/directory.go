package cfb

import (
	"bytes"
	"fmt"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/yaklabco/gosch/pkg/bytecursor"
	"github.com/yaklabco/gosch/pkg/diag"
)

// EntryKind is the object type of a directory entry.
type EntryKind uint8

// Directory entry kinds.
const (
	KindUnused    EntryKind = 0
	KindStorage   EntryKind = 1
	KindStream    EntryKind = 2
	KindLockBytes EntryKind = 3
	KindProperty  EntryKind = 4
	KindRoot      EntryKind = 5
)

// String returns the kind name.
func (k EntryKind) String() string {
	switch k {
	case KindUnused:
		return "unused"
	case KindStorage:
		return "storage"
	case KindStream:
		return "stream"
	case KindLockBytes:
		return "lockbytes"
	case KindProperty:
		return "property"
	case KindRoot:
		return "root"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Color is the red-black tree color of a directory entry.
type Color uint8

// Red-black colors.
const (
	ColorRed   Color = 0
	ColorBlack Color = 1
)

// maxNameBytes is the size of the UTF-16 name field, terminator included.
const maxNameBytes = 64

// filetimeEpochOffset is the number of 100ns intervals between 1601-01-01 and 1970-01-01.
const filetimeEpochOffset = 116444736000000000

// DirectoryEntry is one 128-byte directory record.
type DirectoryEntry struct {
	// ID is the entry's index in the directory.
	ID uint32

	Name  string
	Kind  EntryKind
	Color Color

	// Left, Right and Child are entry ids or NoStream.
	Left  uint32
	Right uint32
	Child uint32

	CLSID     [16]byte
	StateBits uint32

	// Created and Modified are raw FILETIME values.
	Created  uint64
	Modified uint64

	StartSector uint32

	// Size is the stream size. The high 32 bits are ignored for version 3 files.
	Size uint64
}

// IsStream reports whether the entry holds stream data.
func (e *DirectoryEntry) IsStream() bool {
	return e.Kind == KindStream
}

// IsStorage reports whether the entry can have children.
func (e *DirectoryEntry) IsStorage() bool {
	return e.Kind == KindStorage || e.Kind == KindRoot
}

// CreatedTime converts the creation FILETIME. A zero FILETIME yields the zero time.
func (e *DirectoryEntry) CreatedTime() time.Time {
	return filetimeToTime(e.Created)
}

// ModifiedTime converts the modification FILETIME.
func (e *DirectoryEntry) ModifiedTime() time.Time {
	return filetimeToTime(e.Modified)
}

func filetimeToTime(ft uint64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	ticks := int64(ft) - filetimeEpochOffset //nolint:gosec // FILETIME fits in int64 until year 30828.
	return time.Unix(ticks/1e7, (ticks%1e7)*100).UTC()
}

// parseDirectory decodes every entry in the concatenated directory sectors.
// sectorOffset maps an entry id to its file offset for error reporting.
func parseDirectory(stream []byte, sectorOffset func(id uint32) int64, warn *diag.List) ([]DirectoryEntry, error) {
	count := len(stream) / DirEntrySize
	entries := make([]DirectoryEntry, 0, count)
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	cur := bytecursor.New(stream)
	for i := range count {
		id := uint32(i) //nolint:gosec // bounded by stream length.
		raw, err := cur.Read(DirEntrySize)
		if err != nil {
			return nil, &CorruptContainerError{Offset: sectorOffset(id), Sector: id, Message: "truncated directory entry", Err: err}
		}

		entry, entryErr := decodeEntry(id, raw, decoder.Bytes)
		if entryErr != nil {
			entryErr.Offset = sectorOffset(id)
			return nil, entryErr
		}

		switch entry.Kind {
		case KindUnused, KindStorage, KindStream, KindRoot:
		default:
			warn.Addf(diag.CodeDirectoryEntry, sectorOffset(id), diag.NoRecord,
				"entry %d has unsupported kind %s; treating it as unused", id, entry.Kind)
			entry.Kind = KindUnused
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// decodeEntry decodes a single 128-byte entry.
func decodeEntry(id uint32, raw []byte, decodeUTF16 func([]byte) ([]byte, error)) (DirectoryEntry, *CorruptContainerError) {
	entry := DirectoryEntry{ID: id}
	cur := bytecursor.New(raw)

	// Entry layout is fixed and raw is exactly DirEntrySize bytes, so reads below cannot fail.
	nameField, _ := cur.Read(maxNameBytes)
	nameLen, _ := cur.ReadU16LE()
	kind, _ := cur.ReadU8()
	color, _ := cur.ReadU8()
	entry.Kind = EntryKind(kind)
	entry.Color = Color(color)
	entry.Left, _ = cur.ReadU32LE()
	entry.Right, _ = cur.ReadU32LE()
	entry.Child, _ = cur.ReadU32LE()
	clsid, _ := cur.Read(len(entry.CLSID))
	copy(entry.CLSID[:], clsid)
	entry.StateBits, _ = cur.ReadU32LE()
	entry.Created, _ = cur.ReadU64LE()
	entry.Modified, _ = cur.ReadU64LE()
	entry.StartSector, _ = cur.ReadU32LE()
	size, _ := cur.ReadU64LE()
	entry.Size = size & 0xFFFFFFFF

	if entry.Kind == KindUnused {
		return entry, nil
	}

	if nameLen > maxNameBytes || nameLen%2 != 0 {
		return entry, corruptf(noOffset, id, "entry %d declares invalid name length %d", id, nameLen)
	}

	name := nameField[:nameLen]
	// The stored length includes the UTF-16 terminator.
	for len(name) >= 2 && name[len(name)-1] == 0 && name[len(name)-2] == 0 {
		name = name[:len(name)-2]
	}
	decoded, err := decodeUTF16(name)
	if err != nil {
		return entry, &CorruptContainerError{Offset: noOffset, Sector: id, Message: fmt.Sprintf("entry %d name is not UTF-16", id), Err: err}
	}
	entry.Name = string(bytes.TrimRight(decoded, "\x00"))

	return entry, nil
}
