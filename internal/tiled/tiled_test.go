package tiled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMap = `{
  "width": 4, "height": 2, "tilewidth": 32, "tileheight": 32,
  "layers": [
    {
      "name": "Terrain", "type": "tilelayer",
      "width": 4, "height": 2,
      "data": [0, 0, 5, 5, 1, 1, 1, 1]
    },
    {
      "name": "Zones", "type": "objectgroup",
      "objects": [
        {
          "id": 1, "name": "trench", "class": "black",
          "x": 0, "y": 32, "width": 128, "height": 32,
          "properties": [
            {"name": "depth", "type": "float", "value": 42.5},
            {"name": "sticky", "type": "bool", "value": true}
          ]
        },
        {"id": 2, "name": "lamp", "type": "light", "x": 64, "y": 10, "point": true}
      ]
    }
  ]
}`

func TestDecode_Sample(t *testing.T) {
	m, err := Decode([]byte(sampleMap))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Width)
	assert.Equal(t, 2, m.Height)

	w, h := m.PixelSize()
	assert.Equal(t, 128, w)
	assert.Equal(t, 64, h)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"width": 0, "height": 2, "tilewidth": 32, "tileheight": 32}`))
	assert.Error(t, err, "zero width must fail")

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)

	short := `{
	  "width": 4, "height": 2, "tilewidth": 32, "tileheight": 32,
	  "layers": [{"name": "t", "type": "tilelayer", "width": 4, "height": 2, "data": [1, 2, 3]}]
	}`
	_, err = Decode([]byte(short))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 tiles")
}

func TestMap_LayerLookupIsCaseInsensitive(t *testing.T) {
	m, err := Decode([]byte(sampleMap))
	require.NoError(t, err)

	objs, ok := m.ObjectLayer("zones")
	require.True(t, ok)
	assert.Len(t, objs, 2)

	l, ok := m.TileLayer("TERRAIN")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0, 5, 5, 1, 1, 1, 1}, l.Data)

	_, ok = m.ObjectLayer("missing")
	assert.False(t, ok)
}

func TestObject_KindPrefersTypeThenClass(t *testing.T) {
	m, err := Decode([]byte(sampleMap))
	require.NoError(t, err)
	objs, _ := m.ObjectLayer("Zones")

	assert.Equal(t, "black", objs[0].Kind(), "class carries the kind on newer maps")
	assert.Equal(t, "light", objs[1].Kind())
	assert.True(t, objs[1].Point)
}

func TestObject_PropertyFormatting(t *testing.T) {
	m, err := Decode([]byte(sampleMap))
	require.NoError(t, err)
	objs, _ := m.ObjectLayer("Zones")
	trench := objs[0]

	v, ok := trench.StringProperty("DEPTH")
	require.True(t, ok)
	assert.Equal(t, "42.5", v)

	v, ok = trench.StringProperty("sticky")
	require.True(t, ok)
	assert.Equal(t, "true", v)

	_, ok = trench.StringProperty("nope")
	assert.False(t, ok)
}
