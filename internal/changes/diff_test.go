package changes

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		original map[string]string
		final    map[string]string
		expected ChangeSet
	}{
		{
			name:     "empty to empty",
			original: map[string]string{},
			final:    map[string]string{},
			expected: ChangeSet{},
		},
		{
			name:     "added key",
			original: map[string]string{},
			final:    map[string]string{"building:levels": "5"},
			expected: ChangeSet{Add("building:levels", "5")},
		},
		{
			name:     "modified key",
			original: map[string]string{"surface": "asphalt"},
			final:    map[string]string{"surface": "gravel"},
			expected: ChangeSet{Modify("surface", "asphalt", "gravel")},
		},
		{
			name:     "deleted key",
			original: map[string]string{"smoothness": "good"},
			final:    map[string]string{},
			expected: ChangeSet{Delete("smoothness", "good")},
		},
		{
			name:     "empty value is not absence",
			original: map[string]string{"name": ""},
			final:    map[string]string{},
			expected: ChangeSet{Delete("name", "")},
		},
		{
			name:     "mixed",
			original: map[string]string{"a": "1", "b": "2", "c": "3"},
			final:    map[string]string{"a": "1", "b": "x", "d": "4"},
			expected: ChangeSet{Modify("b", "2", "x"), Delete("c", "3"), Add("d", "4")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Diff(tt.original, tt.final))
		})
	}
}

func TestDiff_SameMapIsEmpty(t *testing.T) {
	tags := map[string]string{"highway": "residential", "name": "Main Street"}
	assert.True(t, Diff(tags, tags).IsEmpty())
}

func TestDiff_DoesNotMutateInputs(t *testing.T) {
	original := map[string]string{"a": "1"}
	final := map[string]string{"a": "2", "b": "3"}

	cs := Diff(original, final)
	_, err := cs.ApplyTo(original)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a": "1"}, original)
	assert.Equal(t, map[string]string{"a": "2", "b": "3"}, final)
}

func TestDiff_ApplyRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		t1 := randomTags(rng)
		t2 := randomTags(rng)

		applied, err := Diff(t1, t2).ApplyTo(t1)
		require.NoError(t, err)
		assert.Equal(t, t2, applied)
	}
}

func TestBuilder_EquivalentToDiff(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		original := randomTags(rng)
		b := NewBuilder(original)
		working := copyTags(original)

		for n := rng.Intn(12); n > 0; n-- {
			key := fmt.Sprintf("k%d", rng.Intn(6))
			if rng.Intn(3) == 0 {
				b.Remove(key)
				delete(working, key)
			} else {
				value := fmt.Sprintf("v%d", rng.Intn(3))
				b.Set(key, value)
				working[key] = value
			}
		}

		cs, tags := b.Create()
		assert.Equal(t, Diff(original, working), cs)
		assert.Equal(t, working, tags)
		assert.Equal(t, !cs.IsEmpty(), b.HasChanges())
	}
}

func TestBuilder_SetBackToOriginalCancelsChange(t *testing.T) {
	b := NewBuilder(map[string]string{"surface": "asphalt"})

	b.Set("surface", "gravel")
	assert.True(t, b.HasChanges())

	b.Set("surface", "asphalt")
	assert.False(t, b.HasChanges())
	assert.Empty(t, b.Changes())
}

func TestBuilder_NoIntermediateValues(t *testing.T) {
	b := NewBuilder(map[string]string{"surface": "asphalt"})
	b.Set("surface", "gravel")
	b.Set("surface", "concrete")
	b.Set("lit", "yes")
	b.Remove("lit")

	assert.Equal(t, ChangeSet{Modify("surface", "asphalt", "concrete")}, b.Changes())
}

func TestBuilder_RemoveThenSet(t *testing.T) {
	b := NewBuilder(map[string]string{"name": "Old"})
	b.Remove("name")
	assert.Equal(t, ChangeSet{Delete("name", "Old")}, b.Changes())

	b.Set("name", "New")
	assert.Equal(t, ChangeSet{Modify("name", "Old", "New")}, b.Changes())
}

func TestBuilder_RemoveMissingKeyIsNoop(t *testing.T) {
	b := NewBuilder(map[string]string{})
	b.Remove("nothing")
	assert.False(t, b.HasChanges())
}

func TestBuilder_OriginalIsCopied(t *testing.T) {
	original := map[string]string{"a": "1"}
	b := NewBuilder(original)
	b.Set("a", "2")

	assert.Equal(t, "1", original["a"])
	v, ok := b.Original("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func randomTags(rng *rand.Rand) map[string]string {
	tags := make(map[string]string)
	for n := rng.Intn(6); n > 0; n-- {
		tags[fmt.Sprintf("k%d", rng.Intn(6))] = fmt.Sprintf("v%d", rng.Intn(3))
	}
	return tags
}
