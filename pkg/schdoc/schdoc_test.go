package schdoc_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/internal/testutil/fixture"
	"github.com/yaklabco/gosch/pkg/cfb"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/document"
	"github.com/yaklabco/gosch/pkg/record"
	"github.com/yaklabco/gosch/pkg/schdoc"
	"github.com/yaklabco/gosch/pkg/schematic"
)

const header = "|HEADER=Protel for Windows - Schematic Capture Binary File Version 5.0|"

func TestParse(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	doc, err := schdoc.Parse(fixture.SchDoc(
		header,
		"|RECORD=31|SHEETSTYLE=0|",
		"|RECORD=1|LIBREFERENCE=RES|",
		"|RECORD=34|OWNERINDEX=1|TEXT=R1|",
	), schdoc.Options{Logger: logging.NewWithWriter(&logs, "debug")})
	require.NoError(t, err)

	assert.Equal(t, schdoc.DefaultStream, doc.Stream())
	assert.Equal(t, 3, doc.Len())
	assert.Len(t, doc.Records(), 4)
	assert.Empty(t, doc.Warnings())
	assert.Equal(t, "Root Entry", doc.Container().Root().Name)

	sheet, ok := doc.Sheet()
	require.True(t, ok)
	assert.Equal(t, schematic.KindSheet, sheet.Kind)

	designator, ok := doc.Object(2)
	require.True(t, ok)
	assert.Equal(t, "R1", doc.FullDesignator(designator))

	assert.Contains(t, logs.String(), "records decoded")
	assert.Contains(t, logs.String(), "objects built")
}

func TestParse_MergedWarnings(t *testing.T) {
	t.Parallel()

	stream := append(fixture.Records(header), fixture.Record([]byte("|RECORD=1|OWNERINDEX=-1|\x00"), 7, 0)...)
	data := fixture.CFB(fixture.Stream("FileHeader", stream))

	doc, err := schdoc.Parse(data, schdoc.Options{})
	require.NoError(t, err)

	warnings := doc.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, diag.CodeRecordPadding, warnings[0].Code)
	assert.Equal(t, diag.CodeMissingSheet, warnings[1].Code)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not a container", func(t *testing.T) {
		t.Parallel()

		_, err := schdoc.Parse([]byte("plain text"), schdoc.Options{})
		require.ErrorIs(t, err, cfb.ErrFormat)
		assert.Contains(t, err.Error(), "open container")
	})

	t.Run("missing stream", func(t *testing.T) {
		t.Parallel()

		data := fixture.CFB(fixture.Stream("Other", []byte("x")))
		_, err := schdoc.Parse(data, schdoc.Options{})
		require.ErrorIs(t, err, schdoc.ErrStreamNotFound)
		require.ErrorIs(t, err, cfb.ErrStreamNotFound)
	})

	t.Run("bad marker", func(t *testing.T) {
		t.Parallel()

		data := fixture.CFB(fixture.Stream("FileHeader", fixture.Record([]byte("|HEADER=x|\x00"), 0, 1)))
		_, err := schdoc.Parse(data, schdoc.Options{})
		require.ErrorIs(t, err, record.ErrInvalidRecordMarker)
		assert.Contains(t, err.Error(), "decode records")
	})

	t.Run("abort policy", func(t *testing.T) {
		t.Parallel()

		data := fixture.SchDoc(header, "|RECORD=17|TEXT=GND|")
		_, err := schdoc.Parse(data, schdoc.Options{Policy: document.PolicyAbort})
		require.ErrorIs(t, err, schematic.ErrMissingRequiredAttribute)
	})
}

func TestParse_NestedStream(t *testing.T) {
	t.Parallel()

	data := fixture.CFB(fixture.Storage("Sub", fixture.Stream("Records", fixture.Records(header, "|RECORD=31|"))))

	doc, err := schdoc.Parse(data, schdoc.Options{Stream: "sub/records"})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "top.SchDoc")
	require.NoError(t, os.WriteFile(path, fixture.SchDoc(header, "|RECORD=31|"), 0o600))

	doc, err := schdoc.ParseFile(path, schdoc.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())

	_, err = schdoc.ParseFile(filepath.Join(t.TempDir(), "missing.SchDoc"), schdoc.Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}
