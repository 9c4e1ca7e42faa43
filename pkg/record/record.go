// Package record splits a schematic stream into length-prefixed records.
//
// Each record is a little-endian uint16 payload length, a padding byte, a marker
// byte and the payload. The first record is the document header and has index -1.
package record

import (
	"bytes"

	"github.com/yaklabco/gosch/pkg/attrs"
	"github.com/yaklabco/gosch/pkg/bytecursor"
	"github.com/yaklabco/gosch/pkg/diag"
)

const (
	// HeaderIndex is the index of the leading header pseudo-record.
	HeaderIndex = -1

	// NoTypeID marks a record without a readable |RECORD=n| tag.
	NoTypeID = -1

	// PrefixSize is the length+padding+marker prefix of every record.
	PrefixSize = 4

	// minTaggedLength is the shortest payload that can carry a type tag.
	minTaggedLength = 12
)

//nolint:gochecknoglobals // Read-only literal.
var recordTag = []byte("|RECORD=")

// Record is one decoded record. Payload aliases the decoded stream.
type Record struct {
	Index   int    `json:"index"`
	Offset  int64  `json:"offset"`
	Payload []byte `json:"-"`
	TypeID  int    `json:"typeId"`
}

// IsHeader reports whether r is the header pseudo-record.
func (r Record) IsHeader() bool {
	return r.Index == HeaderIndex
}

// Text returns the payload as text without its terminator.
func (r Record) Text() string {
	return attrs.Text(r.Payload)
}

// Attributes returns the raw ordered attribute pairs.
func (r Record) Attributes() []attrs.Attribute {
	return attrs.Parse(r.Payload)
}

// Map returns the normalized attribute map.
func (r Record) Map() attrs.Map {
	return attrs.FromPayload(r.Payload)
}

// Decode splits stream into records. Non-zero padding bytes and untagged records
// are reported to warn; a bad marker or truncated record aborts decoding.
func Decode(stream []byte, warn *diag.List) ([]Record, error) {
	cur := bytecursor.New(stream)
	var records []Record

	for index := HeaderIndex; !cur.AtEnd(); index++ {
		offset := int64(cur.Pos())

		prefix, err := cur.Read(PrefixSize)
		if err != nil {
			return nil, &TruncatedError{Index: index, Offset: offset, Want: PrefixSize, Have: cur.Remaining()}
		}
		prefixCursor := bytecursor.New(prefix)
		length, _ := prefixCursor.ReadU16LE()
		padding, _ := prefixCursor.ReadU8()
		marker, _ := prefixCursor.ReadU8()

		if marker != 0 {
			return nil, &InvalidMarkerError{Index: index, Offset: offset, Marker: marker}
		}
		if padding != 0 {
			warn.Addf(diag.CodeRecordPadding, offset+2, index, "padding byte is 0x%02X, want 0x00", padding)
		}

		payload, err := cur.Read(int(length))
		if err != nil {
			return nil, &TruncatedError{Index: index, Offset: offset, Want: int(length), Have: cur.Remaining()}
		}

		rec := Record{
			Index:   index,
			Offset:  offset,
			Payload: payload,
			TypeID:  ExtractTypeID(payload),
		}
		if rec.TypeID == NoTypeID && !rec.IsHeader() {
			warn.Addf(diag.CodeRecordID, offset, index, "record has no |RECORD=n| tag")
		}
		records = append(records, rec)
	}

	return records, nil
}

// ExtractTypeID reads the integer following a leading |RECORD= tag.
// It returns NoTypeID for short payloads, a missing tag, or a non-numeric id.
func ExtractTypeID(payload []byte) int {
	if len(payload) < minTaggedLength || !bytes.HasPrefix(payload, recordTag) {
		return NoTypeID
	}

	rest := payload[len(recordTag):]
	if end := bytes.IndexByte(rest, '|'); end >= 0 {
		rest = rest[:end]
	} else {
		rest = bytes.TrimRight(rest, "\x00")
	}
	if len(rest) == 0 {
		return NoTypeID
	}

	id := 0
	for _, c := range rest {
		if c < '0' || c > '9' {
			return NoTypeID
		}
		id = id*10 + int(c-'0')
		if id > 1<<24 {
			return NoTypeID
		}
	}
	return id
}
