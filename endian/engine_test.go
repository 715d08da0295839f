package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetEngines(t *testing.T) {
	require.Equal(t, binary.ByteOrder(binary.LittleEndian), GetLittleEndianEngine())
	require.Equal(t, binary.ByteOrder(binary.BigEndian), GetBigEndianEngine())
}

func TestLittleEndianEngine_RoundTrip(t *testing.T) {
	engine := GetLittleEndianEngine()

	b := make([]byte, 8)
	engine.PutUint32(b, 0xAABBCCDD)
	require.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, b[:4])
	require.Equal(t, uint32(0xAABBCCDD), engine.Uint32(b))

	engine.PutUint64(b, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), engine.Uint64(b))

	appended := engine.AppendUint16(nil, 0x1234)
	require.Equal(t, []byte{0x34, 0x12}, appended)
}

func TestCheckEndianness_ConsistentWithNativeFlag(t *testing.T) {
	order := CheckEndianness()
	if IsNativeLittleEndian() {
		require.Equal(t, binary.ByteOrder(binary.LittleEndian), order)
	} else {
		require.Equal(t, binary.ByteOrder(binary.BigEndian), order)
	}
}
