package fixture

import "encoding/binary"

// Records encodes text payloads as a record stream. Each payload gets a NUL
// terminator, a zero pad byte and a zero marker.
func Records(payloads ...string) []byte {
	var out []byte
	for _, payload := range payloads {
		out = append(out, Record(append([]byte(payload), 0), 0, 0)...)
	}
	return out
}

// Record encodes one raw record with explicit pad and marker bytes.
func Record(payload []byte, padByte, marker byte) []byte {
	out := binary.LittleEndian.AppendUint16(nil, uint16(len(payload))) //nolint:gosec // Test payloads are short.
	out = append(out, padByte, marker)
	return append(out, payload...)
}
