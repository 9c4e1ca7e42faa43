package document_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/internal/testutil/fixture"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/document"
	"github.com/yaklabco/gosch/pkg/record"
	"github.com/yaklabco/gosch/pkg/schematic"
)

const header = "|HEADER=Protel for Windows - Schematic Capture Binary File Version 5.0|"

// decode turns payloads into records; the header is prepended.
func decode(t *testing.T, payloads ...string) []record.Record {
	t.Helper()

	recs, err := record.Decode(fixture.Records(append([]string{header}, payloads...)...), nil)
	require.NoError(t, err)
	return recs
}

func buildGraph(t *testing.T, opts document.Options, payloads ...string) *document.Graph {
	t.Helper()

	graph, err := document.Build(decode(t, payloads...), opts)
	require.NoError(t, err)
	return graph
}

func codes(warnings []diag.Warning) []diag.Code {
	out := make([]diag.Code, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Code)
	}
	return out
}

func TestBuild_TwoRecords(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=1|OWNERINDEX=-1|LIBREFERENCE=RES|",
		"|RECORD=34|OWNERINDEX=0|TEXT=R1|",
	)

	require.Equal(t, 2, graph.Len())
	assert.Len(t, graph.Records(), 3, "header is retained")

	roots := graph.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, schematic.KindComponent, roots[0].Kind)

	designator, ok := graph.Object(1)
	require.True(t, ok)
	parent, ok := graph.Parent(designator)
	require.True(t, ok)
	assert.Same(t, roots[0], parent)
	assert.Empty(t, graph.Children(designator))

	_, ok = graph.Sheet()
	assert.False(t, ok)
	assert.Equal(t, []diag.Code{diag.CodeMissingSheet}, codes(graph.Warnings()))
}

func TestBuild_ChildOrderAndRoots(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=31|SHEETSTYLE=0|",
		"|RECORD=1|OWNERINDEX=-1|",
		"|RECORD=2|OWNERINDEX=1|LOCATION.X=0|LOCATION.Y=0|NAME=B|",
		"|RECORD=34|OWNERINDEX=1|TEXT=U1|",
		"|RECORD=2|OWNERINDEX=1|LOCATION.X=0|LOCATION.Y=10|NAME=A|",
		"|RECORD=27|OWNERINDEX=99|X1=0|Y1=0|X2=1|Y2=1|",
	)

	assert.Empty(t, graph.Warnings())

	sheet, ok := graph.Sheet()
	require.True(t, ok)
	assert.Equal(t, 0, sheet.RecordIndex)

	roots := graph.Roots()
	require.Len(t, roots, 3, "sheet, component and the wire with a dangling owner")
	assert.Equal(t, []int{0, 1, 5}, []int{roots[0].RecordIndex, roots[1].RecordIndex, roots[2].RecordIndex})

	component, ok := graph.Object(1)
	require.True(t, ok)
	kids := graph.Children(component)
	require.Len(t, kids, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{kids[0].RecordIndex, kids[1].RecordIndex, kids[2].RecordIndex})

	assert.Len(t, graph.OfKind(schematic.KindPin), 2)
	assert.Empty(t, graph.OfKind(schematic.KindBus))
}

func TestObject_Resolve(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{}, "|RECORD=31|", "|RECORD=1|OWNERINDEX=-1|")

	obj, ok := graph.Object(1)
	require.True(t, ok)
	assert.Equal(t, schematic.KindComponent, obj.Kind)

	_, ok = graph.Object(2)
	assert.False(t, ok)
	_, ok = graph.Object(record.HeaderIndex)
	assert.False(t, ok)

	foreign := &schematic.Object{RecordIndex: 1}
	_, ok = graph.Parent(foreign)
	assert.False(t, ok, "objects from another graph are not resolved")
	assert.Nil(t, graph.Children(foreign))
}

func TestFindParent(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=31|",
		"|RECORD=1|OWNERINDEX=-1|",
		"|RECORD=44|OWNERINDEX=1|",
		"|RECORD=45|OWNERINDEX=2|MODELTYPE=PCBLIB|",
		"|RECORD=1|OWNERINDEX=4|",
	)

	impl, ok := graph.Object(3)
	require.True(t, ok)

	comp, ok := graph.FindParent(impl, schematic.KindComponent)
	require.True(t, ok)
	assert.Equal(t, 1, comp.RecordIndex)

	_, ok = graph.FindParent(impl, schematic.KindSheet)
	assert.False(t, ok)

	self, ok := graph.Object(4)
	require.True(t, ok)
	_, ok = graph.FindParent(self, schematic.KindSheet)
	assert.False(t, ok, "self-owned object terminates")
}

func TestFindParent_Cycle(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=31|",
		"|RECORD=1|OWNERINDEX=2|",
		"|RECORD=34|OWNERINDEX=1|TEXT=R1|",
	)

	obj, ok := graph.Object(2)
	require.True(t, ok)
	_, ok = graph.FindParent(obj, schematic.KindSheet)
	assert.False(t, ok)

	visited := 0
	require.NoError(t, graph.Walk(func(*schematic.Object, int) error {
		visited++
		return nil
	}))
	assert.Equal(t, 1, visited, "only the sheet is reachable from a root")
}

func TestBuild_SelfOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payloads []string
		self     int
		children int
		visited  int
	}{
		{
			name:     "lone self-owner",
			payloads: []string{"|RECORD=31|", "|RECORD=1|OWNERINDEX=1|"},
			self:     1,
			visited:  2,
		},
		{
			name: "self-owner keeps its children",
			payloads: []string{
				"|RECORD=31|",
				"|RECORD=1|OWNERINDEX=1|",
				"|RECORD=34|OWNERINDEX=1|TEXT=R1|",
			},
			self:     1,
			children: 1,
			visited:  3,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			graph := buildGraph(t, document.Options{}, testCase.payloads...)

			obj, ok := graph.Object(testCase.self)
			require.True(t, ok)

			_, ok = graph.Parent(obj)
			assert.False(t, ok)
			assert.Contains(t, graph.Roots(), obj)
			assert.NotContains(t, graph.Children(obj), obj)
			assert.Len(t, graph.Children(obj), testCase.children)

			visited := 0
			require.NoError(t, graph.Walk(func(*schematic.Object, int) error {
				visited++
				return nil
			}))
			assert.Equal(t, testCase.visited, visited)

			require.Len(t, graph.Warnings(), 1)
			assert.Equal(t, diag.CodeSelfOwner, graph.Warnings()[0].Code)
			assert.Equal(t, testCase.self, graph.Warnings()[0].Record)
		})
	}
}

func TestWalk(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=31|",
		"|RECORD=1|OWNERINDEX=-1|",
		"|RECORD=34|OWNERINDEX=1|TEXT=R1|",
		"|RECORD=41|OWNERINDEX=1|NAME=Value|TEXT=10k|",
		"|RECORD=1|OWNERINDEX=-1|",
	)

	type visit struct {
		record int
		depth  int
	}

	var got []visit
	require.NoError(t, graph.Walk(func(o *schematic.Object, depth int) error {
		got = append(got, visit{o.RecordIndex, depth})
		return nil
	}))
	assert.Equal(t, []visit{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 0}}, got)

	got = got[:0]
	require.NoError(t, graph.Walk(func(o *schematic.Object, depth int) error {
		got = append(got, visit{o.RecordIndex, depth})
		if o.Is(schematic.KindComponent) {
			return document.SkipChildren
		}
		return nil
	}))
	assert.Equal(t, []visit{{0, 0}, {1, 0}, {4, 0}}, got)

	stop := errors.New("stop")
	err := graph.Walk(func(*schematic.Object, int) error { return stop })
	require.ErrorIs(t, err, stop)
}

func TestBuild_MissingAttributePolicies(t *testing.T) {
	t.Parallel()

	payloads := []string{
		"|RECORD=31|",
		"|RECORD=2|OWNERINDEX=-1|LOCATION.Y=5|",
		"|RECORD=25|LOCATION.X=1|LOCATION.Y=1|TEXT=NET|",
	}

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		graph := buildGraph(t, document.Options{OnMissingAttribute: document.PolicySkip}, payloads...)
		assert.Equal(t, 2, graph.Len())
		_, ok := graph.Object(1)
		assert.False(t, ok)
		assert.Equal(t, []diag.Code{diag.CodeObjectSkipped}, codes(graph.Warnings()))
		assert.Equal(t, 1, graph.Warnings()[0].Record)
	})

	t.Run("abort", func(t *testing.T) {
		t.Parallel()

		_, err := document.Build(decode(t, payloads...), document.Options{OnMissingAttribute: document.PolicyAbort})
		require.ErrorIs(t, err, schematic.ErrMissingRequiredAttribute)

		var missing *schematic.MissingAttributeError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, 1, missing.Record)
		assert.Equal(t, "locationx", missing.Attribute)
	})

	t.Run("generic", func(t *testing.T) {
		t.Parallel()

		graph := buildGraph(t, document.Options{OnMissingAttribute: document.PolicyGeneric}, payloads...)
		assert.Equal(t, 3, graph.Len())
		obj, ok := graph.Object(1)
		require.True(t, ok)
		assert.Equal(t, schematic.KindUnknown, obj.Kind)
		assert.True(t, obj.Unknown)
		assert.Equal(t, 2, obj.TypeID)
		assert.Equal(t, "5", obj.Attributes.Get("locationy"))
		assert.Equal(t, []diag.Code{diag.CodeObjectGeneric}, codes(graph.Warnings()))
	})
}

func TestBuild_SheetAndTypeWarnings(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=31|SHEETSTYLE=1|",
		"|RECORD=200|OWNERINDEX=-1|FOO=bar|",
		"|RECORD=31|SHEETSTYLE=2|",
	)

	assert.Equal(t, []diag.Code{diag.CodeUnknownRecordType, diag.CodeMultipleSheets}, codes(graph.Warnings()))

	sheet, ok := graph.Sheet()
	require.True(t, ok)
	assert.Equal(t, 0, sheet.RecordIndex, "first sheet wins")

	unknown, ok := graph.Object(1)
	require.True(t, ok)
	assert.True(t, unknown.Unknown)
	assert.Equal(t, "bar", unknown.Attributes.Get("foo"))
}

func TestRecordQueries(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=31|",
		"|RECORD=1|OWNERINDEX=-1|",
		"|RECORD=44|OWNERINDEX=1|",
		"|RECORD=45|OWNERINDEX=2|MODELTYPE=PCBLIB|",
		"|RECORD=45|OWNERINDEX=2|MODELTYPE=SIM|",
		"|RECORD=41|OWNERINDEX=1|NAME=Value|",
	)

	parent, ok := graph.FindParentRecord(3, 1)
	require.True(t, ok)
	assert.Equal(t, 1, parent.Index)

	self, ok := graph.FindParentRecord(3, 45)
	require.True(t, ok)
	assert.Equal(t, 3, self.Index)

	_, ok = graph.FindParentRecord(3, 31)
	assert.False(t, ok)
	_, ok = graph.FindParentRecord(42, 1)
	assert.False(t, ok)

	assert.Len(t, graph.ChildRecords(2), 2)
	assert.Len(t, graph.ChildRecords(2, 45), 2)
	assert.Empty(t, graph.ChildRecords(2, 46))

	children := graph.ChildRecords(1)
	require.Len(t, children, 2)
	assert.Equal(t, 2, children[0].Index)
	assert.Equal(t, 5, children[1].Index)
}

func TestParts(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t, document.Options{},
		"|RECORD=31|",
		"|RECORD=1|CURRENTPARTID=2|PARTCOUNT=5|",
		"|RECORD=34|OWNERINDEX=1|TEXT=U1|",
		"|RECORD=2|OWNERINDEX=1|OWNERPARTID=1|LOCATION.X=0|LOCATION.Y=0|",
		"|RECORD=2|OWNERINDEX=1|OWNERPARTID=2|LOCATION.X=0|LOCATION.Y=0|",
		"|RECORD=2|OWNERINDEX=1|OWNERPARTID=-1|LOCATION.X=0|LOCATION.Y=0|",
		"|RECORD=48|OWNERINDEX=1|",
		"|RECORD=41|OWNERINDEX=6|NAME=Model|",
		"|RECORD=41|OWNERINDEX=1|NAME=Value|",
	)

	designator, ok := graph.Object(2)
	require.True(t, ok)
	assert.Equal(t, "U1B", graph.FullDesignator(designator))

	comp, ok := graph.Object(1)
	require.True(t, ok)
	assert.Empty(t, graph.FullDesignator(comp))

	tests := []struct {
		record   int
		expected bool
	}{
		{3, false},
		{4, true},
		{5, true},
		{2, true},
	}
	for _, testCase := range tests {
		obj, ok := graph.Object(testCase.record)
		require.True(t, ok)
		assert.Equal(t, testCase.expected, graph.InCurrentPart(obj), "record %d", testCase.record)
	}

	implParam, ok := graph.Object(7)
	require.True(t, ok)
	assert.True(t, graph.IsImplementationParameter(implParam))

	compParam, ok := graph.Object(8)
	require.True(t, ok)
	assert.False(t, graph.IsImplementationParameter(compParam))
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected document.Policy
		wantErr  bool
	}{
		{"", document.PolicySkip, false},
		{"skip", document.PolicySkip, false},
		{"ABORT", document.PolicyAbort, false},
		{" generic ", document.PolicyGeneric, false},
		{"ignore", document.PolicySkip, true},
	}

	for _, testCase := range tests {
		policy, err := document.ParsePolicy(testCase.input)
		if testCase.wantErr {
			require.Error(t, err, testCase.input)
			continue
		}
		require.NoError(t, err, testCase.input)
		assert.Equal(t, testCase.expected, policy)
		assert.Equal(t, testCase.expected.String(), document.PolicyNames()[int(policy)])
	}
}
