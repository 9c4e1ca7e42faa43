package schdoc_test

import (
	"testing"

	"github.com/yaklabco/gosch/internal/testutil/fixture"
	"github.com/yaklabco/gosch/pkg/document"
	"github.com/yaklabco/gosch/pkg/schdoc"
)

func FuzzParse(f *testing.F) {
	f.Add(fixture.SchDoc(header, "|RECORD=31|", "|RECORD=1|LIBREFERENCE=RES|", "|RECORD=34|OWNERINDEX=1|TEXT=R1|"))
	f.Add(fixture.SchDoc(header, "|RECORD=34|OWNERINDEX=7|", "|RECORD=999|"))
	f.Add(fixture.SchDoc())
	f.Add([]byte("not a container"))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := schdoc.Parse(data, schdoc.Options{Policy: document.PolicyGeneric})
		if err != nil {
			if doc != nil {
				t.Fatalf("Parse returned a document with error %v", err)
			}
			return
		}

		// Every object must be reachable by its own index.
		for _, obj := range doc.Objects() {
			got, ok := doc.Object(obj.RecordIndex)
			if !ok || got != obj {
				t.Fatalf("object %d not found by index", obj.RecordIndex)
			}
		}
	})
}

func FuzzParseStream(f *testing.F) {
	f.Add(fixture.Records(header, "|RECORD=31|", "|RECORD=34|OWNERINDEX=0|TEXT=R1|"))
	f.Add(fixture.Records("|RECORD=1|DESIGNITEMID=|", "|||", "|=x|"))
	f.Add([]byte{0xff, 0xff, 0xff, 0x7f})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, stream []byte) {
		data := fixture.CFB(fixture.Stream(schdoc.DefaultStream, stream))
		_, _ = schdoc.Parse(data, schdoc.Options{})
	})
}

func BenchmarkParse(b *testing.B) {
	payloads := []string{header, "|RECORD=31|SHEETSTYLE=0|"}
	for range 500 {
		payloads = append(payloads,
			"|RECORD=1|DESIGNITEMID=RES-10K|COMPONENTDESCRIPTION=Resistor|LOCATION.X=100|LOCATION.Y=200|",
			"|RECORD=34|OWNERINDEX=1|TEXT=R1|",
		)
	}
	data := fixture.SchDoc(payloads...)

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		if _, err := schdoc.Parse(data, schdoc.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
