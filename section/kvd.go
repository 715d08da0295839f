package section

import (
	"fmt"
	"sort"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/errs"
)

// KeyValueData is the ordered metadata block of a container file. Each
// entry is a u32 byte length followed by a NUL-terminated key and the raw
// value, padded to a 4-byte boundary. Keys are written in sorted order so
// serialization is deterministic.
type KeyValueData map[string][]byte

// Bytes serializes the key/value block. An empty map serializes to nil.
func (kvd KeyValueData) Bytes(engine endian.EndianEngine) []byte {
	if len(kvd) == 0 {
		return nil
	}

	keys := make([]string, 0, len(kvd))
	for k := range kvd {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []byte
	for _, k := range keys {
		v := kvd[k]
		kvLen := len(k) + 1 + len(v)
		out = engine.AppendUint32(out, uint32(kvLen))
		out = append(out, k...)
		out = append(out, 0)
		out = append(out, v...)
		if pad := (4 - kvLen%4) % 4; pad > 0 {
			for range pad {
				out = append(out, 0)
			}
		}
	}

	return out
}

// ParseKeyValueData parses a key/value block of exactly len(data) bytes.
func ParseKeyValueData(data []byte, engine endian.EndianEngine) (KeyValueData, error) {
	if len(data) == 0 {
		return nil, nil
	}

	kvd := make(KeyValueData)
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("key/value entry header: %w", errs.ErrCorruptFile)
		}

		kvLen := int(engine.Uint32(data[0:4]))
		data = data[4:]
		if kvLen == 0 || kvLen > len(data) {
			return nil, fmt.Errorf("key/value entry length %d: %w", kvLen, errs.ErrCorruptFile)
		}

		entry := data[:kvLen]
		nul := -1
		for i, c := range entry {
			if c == 0 {
				nul = i
				break
			}
		}
		if nul <= 0 {
			return nil, fmt.Errorf("key/value entry missing key terminator: %w", errs.ErrCorruptFile)
		}

		key := string(entry[:nul])
		value := make([]byte, kvLen-nul-1)
		copy(value, entry[nul+1:])
		kvd[key] = value

		advance := kvLen + (4-kvLen%4)%4
		if advance > len(data) {
			advance = len(data) // final entry may omit trailing padding
		}
		data = data[advance:]
	}

	return kvd, nil
}
