package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/internal/testutil/fixture"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/record"
)

func TestDecode_SingleRecord(t *testing.T) {
	t.Parallel()

	payload := []byte("HEADER=Protel for Windows\x00")
	var warn diag.List

	records, err := record.Decode(fixture.Record(payload, 0, 0), &warn)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, record.HeaderIndex, rec.Index)
	assert.True(t, rec.IsHeader())
	assert.Len(t, rec.Payload, len(payload))
	assert.Equal(t, int64(0), rec.Offset)
	assert.Equal(t, record.NoTypeID, rec.TypeID)
	assert.Equal(t, 0, warn.Len(), "the header record needs no type tag")
}

func TestDecode_Sequence(t *testing.T) {
	t.Parallel()

	stream := fixture.Records(
		"|HEADER=Protel for Windows - Schematic Capture Binary File Version 5.0|",
		"|RECORD=31|FONTIDCOUNT=1|",
		"|RECORD=1|LIBREFERENCE=RES|",
		"|RECORD=34|OWNERINDEX=1|TEXT=R1|",
	)

	records, err := record.Decode(stream, nil)
	require.NoError(t, err)
	require.Len(t, records, 4)

	indices := make([]int, 0, len(records))
	ids := make([]int, 0, len(records))
	for _, rec := range records {
		indices = append(indices, rec.Index)
		ids = append(ids, rec.TypeID)
	}
	assert.Equal(t, []int{-1, 0, 1, 2}, indices)
	assert.Equal(t, []int{-1, 31, 1, 34}, ids)

	assert.Equal(t, "R1", records[3].Map().Get("text"))
	assert.Equal(t, "|RECORD=1|LIBREFERENCE=RES|", records[2].Text())
	assert.Len(t, records[1].Attributes(), 2)
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	records, err := record.Decode(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecode_InvalidMarker(t *testing.T) {
	t.Parallel()

	stream := append(fixture.Records("|HEADER=x|"), fixture.Record([]byte("|RECORD=1|A=B|\x00"), 0, 0x01)...)

	_, err := record.Decode(stream, nil)
	require.ErrorIs(t, err, record.ErrInvalidRecordMarker)

	var markerErr *record.InvalidMarkerError
	require.ErrorAs(t, err, &markerErr)
	assert.Equal(t, 0, markerErr.Index)
	assert.Equal(t, int64(4+len("|HEADER=x|")+1), markerErr.Offset)
	assert.Equal(t, byte(0x01), markerErr.Marker)
}

func TestDecode_Truncated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stream []byte
		want   int
	}{
		{
			name:   "payload past end",
			stream: []byte{0x10, 0x00, 0x00, 0x00, 'a', 'b'},
			want:   16,
		},
		{
			name:   "partial prefix",
			stream: append(fixture.Records("|HEADER=x|"), 0x05, 0x00),
			want:   record.PrefixSize,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := record.Decode(testCase.stream, nil)
			require.ErrorIs(t, err, record.ErrTruncatedRecord)

			var truncErr *record.TruncatedError
			require.ErrorAs(t, err, &truncErr)
			assert.Equal(t, testCase.want, truncErr.Want)
		})
	}
}

func TestDecode_Warnings(t *testing.T) {
	t.Parallel()

	stream := fixture.Records("|HEADER=x|")
	stream = append(stream, fixture.Record([]byte("|RECORD=1|LIBREFERENCE=X|\x00"), 0x07, 0)...)
	stream = append(stream, fixture.Record([]byte("|OWNERINDEX=1|\x00"), 0, 0)...)

	var warn diag.List
	records, err := record.Decode(stream, &warn)
	require.NoError(t, err)
	require.Len(t, records, 3)

	warnings := warn.All()
	require.Len(t, warnings, 2)
	assert.Equal(t, diag.CodeRecordPadding, warnings[0].Code)
	assert.Equal(t, 0, warnings[0].Record)
	assert.Equal(t, diag.CodeRecordID, warnings[1].Code)
	assert.Equal(t, 1, warnings[1].Record)
}

func TestExtractTypeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		expected int
	}{
		{"tagged", "|RECORD=17|STYLE=2|\x00", 17},
		{"tag at end", "|RECORD=123456\x00", 123456},
		{"too short", "|RECORD=1|\x00", record.NoTypeID},
		{"twelve bytes", "|RECORD=41|\x00", 41},
		{"not at start", "|OWNER=1|RECORD=2|", record.NoTypeID},
		{"non numeric", "|RECORD=abc|X=1|", record.NoTypeID},
		{"signed", "|RECORD=-5|X=1|", record.NoTypeID},
		{"empty id", "|RECORD=|X=1|", record.NoTypeID},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, record.ExtractTypeID([]byte(testCase.payload)))
		})
	}
}
