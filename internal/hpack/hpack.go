package hpack

import "fmt"

// Decoder decodes HPACK header blocks against a per-connection dynamic
// table, per spec §4.10.
type Decoder struct {
	dyn *dynamicTable
}

// NewDecoder constructs a Decoder with the given initial dynamic table
// size limit.
func NewDecoder(maxTableSize int) *Decoder {
	return &Decoder{dyn: newDynamicTable(maxTableSize)}
}

// Decode parses a full header block into an ordered list of fields,
// dispatching on each field's first byte per spec §4.10:
//   - bit 7=1: indexed field, 7-bit index.
//   - bit 6=1: literal with incremental indexing, 6-bit name index (0 = literal name).
//   - bits 7..5=001: dynamic table size update, 5-bit new size.
//   - bit 4=1: literal never-indexed, 4-bit name index.
//   - else (bits 7..4=0000): literal without indexing, 4-bit name index.
func (d *Decoder) Decode(block []byte) ([]HeaderField, error) {
	var out []HeaderField
	pos := 0
	for pos < len(block) {
		b := block[pos]
		switch {
		case b&0x80 != 0:
			idx, n, err := decodeInt(block[pos:], 7)
			if err != nil {
				return nil, err
			}
			pos += n
			f, err := d.lookup(int(idx))
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		case b&0x40 != 0:
			idx, n, err := decodeInt(block[pos:], 6)
			if err != nil {
				return nil, err
			}
			pos += n
			f, consumed, err := d.decodeLiteral(block[pos:], int(idx))
			if err != nil {
				return nil, err
			}
			pos += consumed
			d.dyn.insert(f.Name, f.Value)
			out = append(out, f)
		case b&0x20 != 0:
			newSize, n, err := decodeInt(block[pos:], 5)
			if err != nil {
				return nil, err
			}
			pos += n
			d.dyn.setMaxSize(int(newSize))
		case b&0x10 != 0:
			idx, n, err := decodeInt(block[pos:], 4)
			if err != nil {
				return nil, err
			}
			pos += n
			f, consumed, err := d.decodeLiteral(block[pos:], int(idx))
			if err != nil {
				return nil, err
			}
			pos += consumed
			out = append(out, f)
		default:
			idx, n, err := decodeInt(block[pos:], 4)
			if err != nil {
				return nil, err
			}
			pos += n
			f, consumed, err := d.decodeLiteral(block[pos:], int(idx))
			if err != nil {
				return nil, err
			}
			pos += consumed
			out = append(out, f)
		}
	}
	return out, nil
}

// lookup resolves a 1-based index into the static table followed by the
// dynamic table, per spec §4.10's "static_size + 1 + dyn_index" scheme.
func (d *Decoder) lookup(index int) (HeaderField, error) {
	if index == 0 {
		return HeaderField{}, fmt.Errorf("hpack: index 0 is invalid")
	}
	if index <= len(staticTable) {
		return staticTable[index-1], nil
	}
	dynIdx := index - len(staticTable) - 1
	f, ok := d.dyn.get(dynIdx)
	if !ok {
		return HeaderField{}, fmt.Errorf("hpack: index %d out of range", index)
	}
	return f, nil
}

// decodeLiteral decodes a literal field's name (indexed or inline) and
// value, returning the bytes consumed from data.
func (d *Decoder) decodeLiteral(data []byte, nameIndex int) (HeaderField, int, error) {
	pos := 0
	var name string
	if nameIndex == 0 {
		s, n, err := decodeString(data[pos:])
		if err != nil {
			return HeaderField{}, 0, err
		}
		pos += n
		name = s
	} else {
		f, err := d.lookup(nameIndex)
		if err != nil {
			return HeaderField{}, 0, err
		}
		name = f.Name
	}
	value, n, err := decodeString(data[pos:])
	if err != nil {
		return HeaderField{}, 0, err
	}
	pos += n
	return HeaderField{Name: name, Value: value}, pos, nil
}

// decodeString decodes spec §4.10's string literal: "a 7-bit prefix
// integer with top bit = Huffman flag, followed by that many raw or
// Huffman-encoded bytes."
func decodeString(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("hpack: empty string literal")
	}
	huffman := data[0]&0x80 != 0
	length, n, err := decodeInt(data, 7)
	if err != nil {
		return "", 0, err
	}
	total := n + int(length)
	if total > len(data) {
		return "", 0, fmt.Errorf("hpack: string literal truncated")
	}
	raw := data[n:total]
	if huffman {
		decoded, err := huffmanDecode(raw)
		if err != nil {
			return "", 0, err
		}
		return string(decoded), total, nil
	}
	return string(raw), total, nil
}

// Encoder encodes header fields into HPACK header blocks, per spec §4.10.
// It emits an indexed field when name and value both match a table entry,
// and otherwise a literal-with-incremental-indexing field (with an
// indexed name when only the name matches), using Huffman encoding only
// when it is shorter than the raw bytes.
type Encoder struct {
	dyn *dynamicTable
}

// NewEncoder constructs an Encoder with the given initial dynamic table
// size limit.
func NewEncoder(maxTableSize int) *Encoder {
	return &Encoder{dyn: newDynamicTable(maxTableSize)}
}

// Encode appends fields to a new header block.
func (e *Encoder) Encode(fields []HeaderField) []byte {
	var block []byte
	for _, f := range fields {
		if idx, ok := e.findFullMatch(f.Name, f.Value); ok {
			block = encodeInt(block, 0x80, 7, uint64(idx))
			continue
		}
		if nameIdx, ok := e.findNameMatch(f.Name); ok {
			block = encodeInt(block, 0x40, 6, uint64(nameIdx))
			block = e.encodeString(block, f.Value)
		} else {
			block = append(block, 0x40)
			block = e.encodeString(block, f.Name)
			block = e.encodeString(block, f.Value)
		}
		e.dyn.insert(f.Name, f.Value)
	}
	return block
}

func (e *Encoder) encodeString(buf []byte, s string) []byte {
	raw := []byte(s)
	huff := huffmanEncode(raw)
	if len(huff) < len(raw) {
		buf = encodeInt(buf, 0x80, 7, uint64(len(huff)))
		return append(buf, huff...)
	}
	buf = encodeInt(buf, 0x00, 7, uint64(len(raw)))
	return append(buf, raw...)
}

func (e *Encoder) findFullMatch(name, value string) (int, bool) {
	for i, f := range staticTable {
		if f.Name == name && f.Value == value {
			return i + 1, true
		}
	}
	for i, f := range e.dyn.entries {
		if f.Name == name && f.Value == value {
			return len(staticTable) + 1 + i, true
		}
	}
	return 0, false
}

func (e *Encoder) findNameMatch(name string) (int, bool) {
	for i, f := range staticTable {
		if f.Name == name {
			return i + 1, true
		}
	}
	for i, f := range e.dyn.entries {
		if f.Name == name {
			return len(staticTable) + 1 + i, true
		}
	}
	return 0, false
}
