package cfb

import (
	"bytes"
	"fmt"

	"github.com/yaklabco/gosch/pkg/bytecursor"
	"github.com/yaklabco/gosch/pkg/diag"
)

// Layout constants of the supported (version 3) container generation.
const (
	HeaderSize       = 512
	DirEntrySize     = 128
	InlineDIFATSlots = 109

	SupportedMajorVersion    uint16 = 0x0003
	SupportedMinorVersion    uint16 = 0x003E
	LittleEndianMarker       uint16 = 0xFFFE
	SupportedSectorShift     uint16 = 0x0009
	SupportedMiniSectorShift uint16 = 0x0006

	// Version 3 files must declare zero directory sectors.
	SupportedDirectorySectors uint32 = 0
)

// Sector sentinels.
const (
	MaxRegSect uint32 = 0xFFFFFFFA
	DIFSect    uint32 = 0xFFFFFFFC
	FATSect    uint32 = 0xFFFFFFFD
	EndOfChain uint32 = 0xFFFFFFFE
	FreeSect   uint32 = 0xFFFFFFFF

	// NoStream terminates sibling and child links in the directory.
	NoStream uint32 = 0xFFFFFFFF
)

// Signature is the magic number at offset 0.
//
//nolint:gochecknoglobals // Read-only magic number.
var Signature = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Header field offsets.
const (
	offSignature        = 0
	offCLSID            = 8
	offMinorVersion     = 24
	offMajorVersion     = 26
	offByteOrder        = 28
	offSectorShift      = 30
	offMiniSectorShift  = 32
	offReserved         = 34
	offDirectorySectors = 40
	offFATSectors       = 44
	offFirstDirSector   = 48
	offTransaction      = 52
	offMiniCutoff       = 56
	offFirstMiniFAT     = 60
	offMiniFATSectors   = 64
	offFirstDIFAT       = 68
	offDIFATSectors     = 72
	offDIFAT            = 76
)

// Header is the fixed-layout container header. It is immutable once parsed.
type Header struct {
	Signature            [8]byte
	CLSID                [16]byte
	MinorVersion         uint16
	MajorVersion         uint16
	ByteOrder            uint16
	SectorShift          uint16
	MiniSectorShift      uint16
	Reserved             [6]byte
	DirectorySectors     uint32
	FATSectors           uint32
	FirstDirectorySector uint32
	TransactionSignature uint32
	MiniStreamCutoff     uint32
	FirstMiniFATSector   uint32
	MiniFATSectors       uint32
	FirstDIFATSector     uint32
	DIFATSectors         uint32
	DIFAT                [InlineDIFATSlots]uint32
}

// SectorSize returns the regular sector size in bytes.
func (h *Header) SectorSize() int {
	return 1 << h.SectorShift
}

// MiniSectorSize returns the mini-sector size in bytes.
func (h *Header) MiniSectorSize() int {
	return 1 << h.MiniSectorShift
}

// headerReader reads header fields in order, remembering the first failure.
type headerReader struct {
	cur *bytecursor.Cursor
	err error
}

func (r *headerReader) bytes(dst []byte) {
	if r.err != nil {
		return
	}
	b, err := r.cur.Read(len(dst))
	if err != nil {
		r.err = err
		return
	}
	copy(dst, b)
}

func (r *headerReader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.cur.ReadU16LE()
	r.err = err
	return v
}

func (r *headerReader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.cur.ReadU32LE()
	r.err = err
	return v
}

// parseHeader decodes and validates the header at the start of data.
func parseHeader(data []byte, warn *diag.List) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, &FormatError{
			Field:   "header",
			Offset:  0,
			Message: fmt.Sprintf("file is %d bytes, smaller than the %d-byte header", len(data), HeaderSize),
		}
	}

	reader := &headerReader{cur: bytecursor.New(data[:HeaderSize])}
	hdr := &Header{}

	reader.bytes(hdr.Signature[:])
	reader.bytes(hdr.CLSID[:])
	hdr.MinorVersion = reader.u16()
	hdr.MajorVersion = reader.u16()
	hdr.ByteOrder = reader.u16()
	hdr.SectorShift = reader.u16()
	hdr.MiniSectorShift = reader.u16()
	reader.bytes(hdr.Reserved[:])
	hdr.DirectorySectors = reader.u32()
	hdr.FATSectors = reader.u32()
	hdr.FirstDirectorySector = reader.u32()
	hdr.TransactionSignature = reader.u32()
	hdr.MiniStreamCutoff = reader.u32()
	hdr.FirstMiniFATSector = reader.u32()
	hdr.MiniFATSectors = reader.u32()
	hdr.FirstDIFATSector = reader.u32()
	hdr.DIFATSectors = reader.u32()
	for i := range hdr.DIFAT {
		hdr.DIFAT[i] = reader.u32()
	}
	if reader.err != nil {
		return nil, &FormatError{Field: "header", Offset: int64(reader.cur.Pos()), Message: reader.err.Error()}
	}

	if err := hdr.validate(warn); err != nil {
		return nil, err
	}
	return hdr, nil
}

// validate checks every field against the supported container generation.
func (h *Header) validate(warn *diag.List) error {
	if h.Signature != Signature {
		return &FormatError{Field: "signature", Offset: offSignature,
			Message: fmt.Sprintf("got % X, want % X", h.Signature[:], Signature[:])}
	}

	if h.CLSID != [16]byte{} {
		warn.Addf(diag.CodeHeaderCLSID, offCLSID, diag.NoRecord, "header CLSID is not all zeroes")
	}

	if h.MajorVersion != SupportedMajorVersion {
		return &FormatError{Field: "major version", Offset: offMajorVersion,
			Message: fmt.Sprintf("got 0x%04X, only 0x%04X is supported", h.MajorVersion, SupportedMajorVersion)}
	}
	if h.MinorVersion != SupportedMinorVersion {
		return &FormatError{Field: "minor version", Offset: offMinorVersion,
			Message: fmt.Sprintf("got 0x%04X, only 0x%04X is supported", h.MinorVersion, SupportedMinorVersion)}
	}
	if h.ByteOrder != LittleEndianMarker {
		return &FormatError{Field: "byte order", Offset: offByteOrder,
			Message: fmt.Sprintf("got 0x%04X, want 0x%04X", h.ByteOrder, LittleEndianMarker)}
	}
	if h.SectorShift != SupportedSectorShift {
		return &FormatError{Field: "sector shift", Offset: offSectorShift,
			Message: fmt.Sprintf("got %d, want %d", h.SectorShift, SupportedSectorShift)}
	}
	if h.MiniSectorShift != SupportedMiniSectorShift {
		return &FormatError{Field: "mini sector shift", Offset: offMiniSectorShift,
			Message: fmt.Sprintf("got %d, want %d", h.MiniSectorShift, SupportedMiniSectorShift)}
	}

	if !bytes.Equal(h.Reserved[:], make([]byte, len(h.Reserved))) {
		warn.Addf(diag.CodeHeaderReserved, offReserved, diag.NoRecord, "reserved header field is not all zeroes")
	}

	if h.DirectorySectors != SupportedDirectorySectors {
		return &FormatError{Field: "directory sector count", Offset: offDirectorySectors,
			Message: fmt.Sprintf("got %d, version 3 containers require %d", h.DirectorySectors, SupportedDirectorySectors)}
	}

	return nil
}
