package schematic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/pkg/attrs"
	"github.com/yaklabco/gosch/pkg/record"
	"github.com/yaklabco/gosch/pkg/schematic"
)

func rec(index int, payload string) record.Record {
	data := []byte(payload + "\x00")
	return record.Record{Index: index, Payload: data, TypeID: record.ExtractTypeID(data)}
}

func TestDefaultRegistry_Entries(t *testing.T) {
	t.Parallel()

	reg := schematic.DefaultRegistry()
	assert.Same(t, reg, schematic.DefaultRegistry(), "default registry is built once")

	entries := reg.Entries()
	require.Len(t, entries, 34)
	assert.Equal(t, reg.Len(), len(entries))

	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].ID, entries[i].ID, "entries must be sorted by id")
	}

	for _, entry := range entries {
		assert.NotEqual(t, schematic.KindUnknown, entry.Kind, "id %d", entry.ID)
		assert.Equal(t, entry.Kind.String(), entry.Name, "id %d", entry.ID)
		assert.NotNil(t, entry.Decode, "id %d", entry.ID)
	}

	entry, ok := reg.Lookup(31)
	require.True(t, ok)
	assert.Equal(t, schematic.KindSheet, entry.Kind)

	_, ok = reg.Lookup(19)
	assert.False(t, ok)

	entry, ok = reg.ForKind(schematic.KindWire)
	require.True(t, ok)
	assert.Equal(t, 27, entry.ID)
}

func TestRegistry_EveryEntryDecodesEmptyVariants(t *testing.T) {
	t.Parallel()

	for _, entry := range schematic.DefaultRegistry().Entries() {
		data, err := entry.Decode(rec(0, "|RECORD=1|").Map(), 0)
		if err != nil {
			// Only kinds that need a placement may fail on an empty map.
			assert.ErrorIs(t, err, schematic.ErrMissingRequiredAttribute, "id %d", entry.ID)
			continue
		}
		require.NotNil(t, data, "id %d", entry.ID)
		assert.Equal(t, entry.Kind, data.Kind(), "id %d", entry.ID)
	}
}

func TestBuild_CommonFields(t *testing.T) {
	t.Parallel()

	obj, err := schematic.DefaultRegistry().Build(rec(7, "|RECORD=34|OWNERINDEX=3|INDEXINSHEET=-1|OWNERPARTID=2|TEXT=R1|"))
	require.NoError(t, err)

	assert.Equal(t, 7, obj.RecordIndex)
	assert.Equal(t, 34, obj.TypeID)
	assert.Equal(t, schematic.KindDesignator, obj.Kind)
	assert.Equal(t, 3, obj.OwnerIndex)
	assert.Equal(t, -1, obj.IndexInSheet)
	require.NotNil(t, obj.OwnerPartID)
	assert.Equal(t, 2, *obj.OwnerPartID)
	assert.False(t, obj.Unknown)
	assert.Len(t, obj.Raw, 5)
	assert.Equal(t, "R1", obj.Attributes.Get("text"))

	designator, ok := schematic.As[*schematic.Designator](obj)
	require.True(t, ok)
	assert.Equal(t, "R1", designator.Text)

	_, ok = schematic.As[*schematic.Pin](obj)
	assert.False(t, ok)
}

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	obj, err := schematic.DefaultRegistry().Build(rec(0, "|RECORD=1|LIBREFERENCE=RES|"))
	require.NoError(t, err)

	assert.Equal(t, schematic.NoOwner, obj.OwnerIndex)
	assert.Equal(t, -1, obj.IndexInSheet)
	assert.Nil(t, obj.OwnerPartID)

	component, ok := schematic.As[*schematic.Component](obj)
	require.True(t, ok)
	assert.Equal(t, "RES", component.LibReference)
	assert.Equal(t, -1, component.CurrentPartID)
	assert.Equal(t, 1, component.PartCount)
	assert.Empty(t, component.Description)
}

func TestBuild_UnknownType(t *testing.T) {
	t.Parallel()

	obj, err := schematic.DefaultRegistry().Build(rec(2, "|RECORD=215|OWNERINDEX=1|FOO=bar|"))
	require.NoError(t, err)

	assert.True(t, obj.Unknown)
	assert.Equal(t, schematic.KindUnknown, obj.Kind)
	assert.Equal(t, 215, obj.TypeID)
	assert.Equal(t, 1, obj.OwnerIndex)
	assert.Equal(t, "bar", obj.Attributes.Get("foo"))
	assert.IsType(t, &schematic.Generic{}, obj.Data)
}

func TestBuild_MissingRequiredAttribute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		kind      schematic.Kind
		attribute string
		value     string
	}{
		{"pin without location", "|RECORD=2|PINLENGTH=30|", schematic.KindPin, "locationx", ""},
		{"junction without y", "|RECORD=29|LOCATION.X=10|", schematic.KindJunction, "locationy", ""},
		{"arc without radius", "|RECORD=12|LOCATION.X=1|LOCATION.Y=2|", schematic.KindArc, "radius", ""},
		{"line without corner", "|RECORD=13|LOCATION.X=1|LOCATION.Y=2|", schematic.KindLine, "cornerx", ""},
		{"label with bad x", "|RECORD=4|LOCATION.X=abc|LOCATION.Y=2|", schematic.KindLabel, "locationx", "abc"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			obj, err := schematic.DefaultRegistry().Build(rec(5, testCase.payload))
			assert.Nil(t, obj)
			require.ErrorIs(t, err, schematic.ErrMissingRequiredAttribute)

			var missing *schematic.MissingAttributeError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, 5, missing.Record)
			assert.Equal(t, testCase.kind, missing.Kind)
			assert.Equal(t, testCase.attribute, missing.Attribute)
			assert.Equal(t, testCase.value, missing.Value)
		})
	}
}

func TestBuildGeneric(t *testing.T) {
	t.Parallel()

	obj := schematic.DefaultRegistry().BuildGeneric(rec(5, "|RECORD=2|OWNERINDEX=4|"))
	assert.True(t, obj.Unknown)
	assert.Equal(t, schematic.KindUnknown, obj.Kind)
	assert.Equal(t, 2, obj.TypeID)
	assert.Equal(t, 4, obj.OwnerIndex)
}

func TestNewRegistry_Custom(t *testing.T) {
	t.Parallel()

	reg := schematic.NewRegistry([]schematic.Entry{
		{ID: 9, Kind: schematic.KindImage, Name: "Image", Decode: func(attrs.Map, int) (schematic.Variant, error) {
			return &schematic.Image{}, nil
		}},
	})
	assert.Equal(t, 1, reg.Len())

	obj, err := reg.Build(rec(0, "|RECORD=9|X=1|"))
	require.NoError(t, err)
	assert.Equal(t, schematic.KindImage, obj.Kind)

	obj, err = reg.Build(rec(1, "|RECORD=1|LIBREFERENCE=X|"))
	require.NoError(t, err)
	assert.True(t, obj.Unknown, "a custom registry only knows its own entries")
}
