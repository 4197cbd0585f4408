package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStr_AlternateKeysAndNumericCoercion(t *testing.T) {
	m := map[string]any{"title": "", "name": "Tee", "price": float64(799)}
	assert.Equal(t, "Tee", Str(m, "title", "name"))
	assert.Equal(t, "799", Str(m, "price"))
	assert.Equal(t, "", Str(m, "missing"))
}

func TestNum_AcceptsNumericStrings(t *testing.T) {
	m := map[string]any{"a": "12.5", "b": float64(3), "c": "abc"}
	assert.Equal(t, 12.5, Num(m, "a"))
	assert.Equal(t, 3.0, Num(m, "b"))
	assert.Equal(t, 0.0, Num(m, "c"))
	assert.Equal(t, 0.0, Num(m, "missing"))
}

func TestBool(t *testing.T) {
	m := map[string]any{"isBundleItem": false, "isCombo": true}
	assert.True(t, Bool(m, "isCombo"))
	assert.False(t, Bool(m, "isBundleItem"))
	assert.False(t, Bool(m, "isBundleItem", "isCombo"), "first present key wins")
}

func TestStrMap(t *testing.T) {
	m := map[string]any{"sizes": map[string]any{"p1": "M", "p2": float64(42)}}
	assert.Equal(t, map[string]string{"p1": "M", "p2": "42"}, StrMap(m, "sizes"))
	assert.Nil(t, StrMap(m, "missing"))
}

func TestTime_Variants(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, want, Time(map[string]any{"t": "2024-03-01T10:00:00Z"}, "t"))
	assert.Equal(t, want, Time(map[string]any{"t": want}, "t"))
	assert.Equal(t, want, Time(map[string]any{"t": float64(want.UnixMilli())}, "t"))
	assert.True(t, Time(map[string]any{}, "t").IsZero())
}
