package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/errs"
)

func TestKeyValueData_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	kvd := KeyValueData{
		"KTXwriter":       []byte("ktx2tool v1"),
		"KTXorientation":  []byte("rd"),
		"customBinary":    {0x00, 0x01, 0xFF},
		"emptyValueEntry": {},
	}

	data := kvd.Bytes(engine)
	require.NotEmpty(t, data)
	require.Zero(t, len(data)%4)

	parsed, err := ParseKeyValueData(data, engine)
	require.NoError(t, err)
	require.Len(t, parsed, len(kvd))
	for k, v := range kvd {
		require.Equal(t, v, parsed[k], "key %q", k)
	}
}

func TestKeyValueData_DeterministicOrder(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	kvd := KeyValueData{
		"zeta":  []byte("1"),
		"alpha": []byte("2"),
		"mid":   []byte("3"),
	}

	first := kvd.Bytes(engine)
	for range 10 {
		require.Equal(t, first, kvd.Bytes(engine))
	}
}

func TestKeyValueData_Empty(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	require.Nil(t, KeyValueData{}.Bytes(engine))
	require.Nil(t, KeyValueData(nil).Bytes(engine))

	parsed, err := ParseKeyValueData(nil, engine)
	require.NoError(t, err)
	require.Nil(t, parsed)
}

func TestParseKeyValueData_Errors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("short entry header", func(t *testing.T) {
		_, err := ParseKeyValueData([]byte{1, 0}, engine)
		require.ErrorIs(t, err, errs.ErrCorruptFile)
	})

	t.Run("entry length past block", func(t *testing.T) {
		var data []byte
		data = engine.AppendUint32(data, 100)
		data = append(data, 'k', 0)
		_, err := ParseKeyValueData(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptFile)
	})

	t.Run("zero length entry", func(t *testing.T) {
		var data []byte
		data = engine.AppendUint32(data, 0)
		_, err := ParseKeyValueData(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptFile)
	})

	t.Run("missing key terminator", func(t *testing.T) {
		var data []byte
		data = engine.AppendUint32(data, 4)
		data = append(data, 'a', 'b', 'c', 'd')
		_, err := ParseKeyValueData(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptFile)
	})
}
