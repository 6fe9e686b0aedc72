package merge

import (
	"errors"
	"testing"

	"github.com/nbroyles/nblayer/internal/storage"
	"github.com/nbroyles/nblayer/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stringCmp = storage.OrderedComparator[string]()

func TestIterator_MostRecentWins(t *testing.T) {
	// layers are given most recent first
	layer4 := test.NewStringLayer(map[string]string{"ohhh": "brother", "whoomp": "there it is"})
	layer3 := test.NewStringLayer(map[string]string{"yerrr": "ayyy", "howdy": "time"})
	layer2 := test.NewStringLayer(map[string]string{"aaa": "blarg", "foo": "butt"})
	layer1 := test.NewStringLayer(map[string]string{"foo": "bar", "baz": "bax"})

	iter, err := NewIterator[string, string](stringCmp, layer4, layer3, layer2, layer1)
	require.NoError(t, err)
	defer iter.Close()

	assert.Equal(t, test.StringItems(
		"aaa", "blarg",
		"baz", "bax",
		"foo", "butt",
		"howdy", "time",
		"ohhh", "brother",
		"whoomp", "there it is",
		"yerrr", "ayyy",
	), test.Collect[string, string](t, iter))
}

func TestIterator_Seek(t *testing.T) {
	newer := test.NewStringLayer(map[string]string{"b": "new", "d": "4"})
	older := test.NewStringLayer(map[string]string{"a": "1", "b": "old", "c": "3"})

	iter, err := NewIterator[string, string](stringCmp, newer, older)
	require.NoError(t, err)
	defer iter.Close()

	require.NoError(t, iter.Seek(storage.IncludedBound("b")))
	assert.Equal(t, storage.NewItem("b", "new"), *iter.Get())

	require.NoError(t, iter.Advance())
	assert.Equal(t, storage.NewItem("c", "3"), *iter.Get())

	require.NoError(t, iter.DiscardOrAdvance())
	assert.Equal(t, storage.NewItem("d", "4"), *iter.Get())

	require.NoError(t, iter.Advance())
	assert.Nil(t, iter.Get())

	// advancing past the end stays there
	require.NoError(t, iter.Advance())
	assert.Nil(t, iter.Get())
}

func TestIterator_AdvanceWithoutSeek(t *testing.T) {
	layer := test.NewStringLayer(map[string]string{"a": "1", "b": "2"})

	iter, err := NewIterator[string, string](stringCmp, layer)
	require.NoError(t, err)
	defer iter.Close()

	assert.Nil(t, iter.Get())
	require.NoError(t, iter.Advance())
	assert.Equal(t, storage.NewItem("a", "1"), *iter.Get())
}

func TestIterator_EmptyLayers(t *testing.T) {
	iter, err := NewIterator[string, string](stringCmp, test.NewStringLayer(nil), test.NewStringLayer(nil))
	require.NoError(t, err)
	defer iter.Close()

	assert.Empty(t, test.Collect[string, string](t, iter))

	none, err := NewIterator[string, string](stringCmp)
	require.NoError(t, err)
	assert.Empty(t, test.Collect[string, string](t, none))
	none.Close()
}

func TestIterator_DuplicatesWithinLayer(t *testing.T) {
	layer := test.NewStaticLayer(stringCmp, test.StringItems("a", "first", "a", "second", "b", "1")...)

	iter, err := NewIterator[string, string](stringCmp, layer)
	require.NoError(t, err)
	defer iter.Close()

	assert.Equal(t, test.StringItems("a", "first", "b", "1"), test.Collect[string, string](t, iter))
}

func TestLayers(t *testing.T) {
	newer := test.NewStringLayer(map[string]string{"a": "new"})
	older := test.NewStringLayer(map[string]string{"a": "old", "z": "26"})

	test.AssertLayer(t, Layers[string, string](stringCmp, newer, older), test.StringItems("a", "new", "z", "26")...)
}

type closeCounter struct {
	storage.Layer[string, string]
	closed *int
}

type countingIterator struct {
	storage.LayerIterator[string, string]
	closed *int
}

func (c *closeCounter) Iterator() (storage.LayerIterator[string, string], error) {
	iter, err := c.Layer.Iterator()
	if err != nil {
		return nil, err
	}

	return &countingIterator{LayerIterator: iter, closed: c.closed}, nil
}

func (c *countingIterator) Close() {
	*c.closed++
	c.LayerIterator.Close()
}

type brokenLayer struct{}

func (brokenLayer) Iterator() (storage.LayerIterator[string, string], error) {
	return nil, errors.New("disk on fire")
}

func TestIterator_OpenFailureClosesOpened(t *testing.T) {
	closed := 0
	ok := &closeCounter{Layer: test.NewStringLayer(map[string]string{"a": "1"}), closed: &closed}

	_, err := NewIterator[string, string](stringCmp, ok, ok, brokenLayer{})
	assert.EqualError(t, err, "could not open iterator for layer 2: disk on fire")
	assert.Equal(t, 2, closed)
}

func TestIterator_CloseClosesAll(t *testing.T) {
	closed := 0
	ok := &closeCounter{Layer: test.NewStringLayer(map[string]string{"a": "1"}), closed: &closed}

	iter, err := NewIterator[string, string](stringCmp, ok, ok, ok)
	require.NoError(t, err)

	iter.Close()
	assert.Equal(t, 3, closed)
	assert.Nil(t, iter.Get())
}
