package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())

			data, err := c.Marshal(sample{Name: "edges.dat", Count: 3})
			require.NoError(t, err)

			var got sample
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, sample{Name: "edges.dat", Count: 3}, got)
		})
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsInteroperate(t *testing.T) {
	in := sample{Name: "größer🐙", Count: 7}
	codecs := []Codec{JSON{}, GoJSON{}}

	for _, enc := range codecs {
		data, err := enc.Marshal(in)
		require.NoError(t, err)
		for _, dec := range codecs {
			var got sample
			require.NoError(t, dec.Unmarshal(data, &got), "%s -> %s", enc.Name(), dec.Name())
			assert.Equal(t, in, got)
		}
	}
}

func TestDefaultIsGoJSON(t *testing.T) {
	assert.Equal(t, "go-json", Default.Name())
}
