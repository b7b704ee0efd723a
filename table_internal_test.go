package lptable

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		value Value
		kind  Kind
		name  string
	}{
		{Int32(-5), KindInt32, "int32"},
		{Float(2.5), KindFloat, "float"},
		{String("s"), KindString, "string"},
		{Int32s{1, 2}, KindInt32s, "int32s"},
		{Floats{0.5}, KindFloats, "floats"},
		{Strings{"a"}, KindStrings, "strings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.name, tt.value.Kind().String())
		})
	}
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same int32", Int32(1), Int32(1), true},
		{"different int32", Int32(1), Int32(2), false},
		{"int32 vs float", Int32(1), Float(1), false},
		{"same string", String("x"), String("x"), true},
		{"same floats", Floats{1, 2}, Floats{1, 2}, true},
		{"floats order", Floats{1, 2}, Floats{2, 1}, false},
		{"nil and empty ints", Int32s(nil), Int32s{}, true},
		{"strings length", Strings{"a"}, Strings{"a", "b"}, false},
		{"NaN", Float(math.NaN()), Float(math.NaN()), false},
		{"both nil", nil, nil, true},
		{"one nil", nil, Int32(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestCloneValueDetachesSequences(t *testing.T) {
	ints := Int32s{1, 2, 3}
	c := cloneValue(ints).(Int32s)
	c[0] = 99
	assert.Equal(t, int32(1), ints[0])

	assert.Equal(t, String("s"), cloneValue(String("s")))
	assert.Nil(t, cloneValue(nil))
}

func TestFindSlotFullSentinel(t *testing.T) {
	tbl, err := New(4, 0.75, WithHashFunc(func(string) uint64 { return 1 }))
	require.NoError(t, err)

	// Fill every slot directly; the load factor guard never allows this
	// through Put.
	for i, k := range []string{"a", "b", "c", "d"} {
		tbl.slots[i] = slot{state: slotOccupied, key: k, value: Int32(int32(i))}
	}
	tbl.count = 4

	assert.Equal(t, 4, tbl.findSlot("missing"))
	assert.Equal(t, 2, tbl.findSlot("c"))

	_, ok := tbl.Get("missing")
	assert.False(t, ok)
	assert.False(t, tbl.Remove("missing"))
}

func TestPutGrowsWhenNoSlotIsFree(t *testing.T) {
	tbl, err := New(4, 0.75, WithHashFunc(func(string) uint64 { return 1 }))
	require.NoError(t, err)

	for i, k := range []string{"a", "b", "c", "d"} {
		tbl.slots[i] = slot{state: slotOccupied, key: k, value: Int32(int32(i))}
	}
	// A count below the guard forces Put down the second-resize path.
	tbl.count = 1

	require.True(t, tbl.Put("e", Int32(4)))
	assert.Equal(t, 8, len(tbl.slots))
	assert.Equal(t, 5, tbl.count)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		_, ok := tbl.Get(k)
		assert.True(t, ok, k)
	}
}

func TestResizeLogging(t *testing.T) {
	var buf bytes.Buffer
	tbl, err := New(2, 0.5, WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)

	tbl.Put("a", Int32(1))
	tbl.Put("b", Int32(2))

	out := buf.String()
	assert.True(t, strings.Contains(out, "resize start: slots=2 used=1"), out)
	assert.True(t, strings.Contains(out, "resize complete: slots=4 used=1"), out)
}

func TestWithHashFuncNilKeepsDefault(t *testing.T) {
	tbl, err := New(4, 0.75, WithHashFunc(nil))
	require.NoError(t, err)
	require.NotNil(t, tbl.hash)
	assert.True(t, tbl.Put("k", Int32(1)))
}
