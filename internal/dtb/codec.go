// Package dtb implements the .dtb binary database format.
//
// Layout (integers little-endian, variable-length byte sequences
// prefixed with a 4-byte unsigned length):
//
//	magic "DTB1" | version (1 byte)
//	repeated table blocks until end-of-stream:
//	    table name (length-prefixed)
//	    column count (2 bytes)
//	    per column: name (length-prefixed) | type tag (1 byte) | constraint tag (1 byte)
//	    row count (4 bytes)
//	    per row, per column: value encoded by its type
//
// Constraint counters are derived state and never appear in the stream;
// they are rebuilt from the decoded rows.
package dtb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tuannm99/ditabase/internal/engine"
	"github.com/tuannm99/ditabase/internal/record"
)

const (
	// FormatVersion is bumped on any layout change; decode rejects
	// versions it does not know.
	FormatVersion = 1

	// MaxChunkSize caps any single length prefix to bound memory usage
	// on corrupt or hostile input.
	MaxChunkSize = 64 << 20 // 64 MiB
)

var magic = [4]byte{'D', 'T', 'B', '1'}

// ErrCorruptFormat wraps every decode failure caused by the stream
// itself (bad magic, unknown version or tag, truncation).
var ErrCorruptFormat = errors.New("dtb: corrupt format")

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptFormat, fmt.Sprintf(format, args...))
}

// Encode serializes the whole database.
func Encode(db *engine.Database) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, db); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the database to w in creation order.
func EncodeTo(w io.Writer, db *engine.Database) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{FormatVersion}); err != nil {
		return err
	}
	for _, name := range db.TableNames() {
		t, err := db.Table(name)
		if err != nil {
			return err
		}
		if err := encodeTable(w, t); err != nil {
			return fmt.Errorf("dtb: encode table %q: %w", name, err)
		}
	}
	return nil
}

func encodeTable(w io.Writer, t *engine.Table) error {
	if err := writeBytes(w, []byte(t.Name)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(t.Schema.NumCols())); err != nil {
		return err
	}
	for _, col := range t.Schema.Cols {
		if err := writeBytes(w, []byte(col.Name)); err != nil {
			return err
		}
		if _, err := w.Write([]byte{byte(col.Type), byte(col.Constraint)}); err != nil {
			return err
		}
	}

	items := t.Select()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		for _, col := range t.Schema.Cols {
			if err := encodeValue(w, item[col.Name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeValue(w io.Writer, v record.Value) error {
	switch v.Type {
	case record.TypeUuid, record.TypeStr, record.TypePassword:
		return writeBytes(w, []byte(v.Str))
	case record.TypeInt16:
		return binary.Write(w, binary.LittleEndian, int16(v.Int))
	case record.TypeInt32:
		return binary.Write(w, binary.LittleEndian, int32(v.Int))
	case record.TypeInt64:
		return binary.Write(w, binary.LittleEndian, v.Int)
	case record.TypeChar:
		_, err := w.Write([]byte{byte(v.Char)})
		return err
	case record.TypeBool:
		b := byte(0)
		if v.Bool {
			b = 1
		}
		_, err := w.Write([]byte{b})
		return err
	default:
		return fmt.Errorf("dtb: cannot encode value of type %v", v.Type)
	}
}

// Decode reconstructs a database from an encoded byte stream.
func Decode(data []byte) (*engine.Database, error) {
	return DecodeFrom(bytes.NewReader(data))
}

// DecodeFrom reads table blocks until EOF, rebuilding constraint
// counters from the decoded rows.
func DecodeFrom(r io.Reader) (*engine.Database, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, corruptf("short header: %v", err)
	}
	if !bytes.Equal(hdr[:4], magic[:]) {
		return nil, corruptf("bad magic %q", hdr[:4])
	}
	if hdr[4] != FormatVersion {
		return nil, corruptf("unsupported format version %d", hdr[4])
	}

	db := engine.NewDatabase()
	for {
		t, err := decodeTable(r)
		if err == io.EOF {
			return db, nil
		}
		if err != nil {
			return nil, err
		}
		if err := db.AddTable(t); err != nil {
			return nil, corruptf("%v", err)
		}
	}
}

// decodeTable returns io.EOF only at a clean end-of-stream boundary;
// truncation inside a block is a corrupt-format error.
func decodeTable(r io.Reader) (*engine.Table, error) {
	name, err := readBytes(r)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, corruptf("table name: %v", err)
	}

	var colCount uint16
	if err := binary.Read(r, binary.LittleEndian, &colCount); err != nil {
		return nil, corruptf("column count: %v", err)
	}

	cols := make([]record.Column, 0, colCount)
	for i := 0; i < int(colCount); i++ {
		colName, err := readBytes(r)
		if err != nil {
			return nil, corruptf("column name: %v", err)
		}
		var tags [2]byte
		if _, err := io.ReadFull(r, tags[:]); err != nil {
			return nil, corruptf("column tags: %v", err)
		}
		typ, err := record.TypeFromTag(tags[0])
		if err != nil {
			return nil, corruptf("%v", err)
		}
		constraint, err := record.ConstraintFromTag(tags[1])
		if err != nil {
			return nil, corruptf("%v", err)
		}
		cols = append(cols, record.Column{Name: string(colName), Type: typ, Constraint: constraint})
	}

	t, err := engine.NewTable(string(name), cols)
	if err != nil {
		return nil, corruptf("%v", err)
	}

	var rowCount uint32
	if err := binary.Read(r, binary.LittleEndian, &rowCount); err != nil {
		return nil, corruptf("row count: %v", err)
	}
	for i := 0; i < int(rowCount); i++ {
		item := make(engine.Item, len(cols))
		for _, col := range cols {
			v, err := decodeValue(r, col.Type)
			if err != nil {
				return nil, corruptf("row %d, column %q: %v", i, col.Name, err)
			}
			item[col.Name] = v
		}
		t.AppendDecoded(item)
	}

	t.RebuildCounters()
	return t, nil
}

func decodeValue(r io.Reader, typ record.Type) (record.Value, error) {
	switch typ {
	case record.TypeUuid, record.TypeStr, record.TypePassword:
		b, err := readBytes(r)
		if err != nil {
			return record.Value{}, err
		}
		return record.StrValue(typ, string(b)), nil
	case record.TypeInt16:
		var n int16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return record.Value{}, err
		}
		return record.IntValue(typ, int64(n)), nil
	case record.TypeInt32:
		var n int32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return record.Value{}, err
		}
		return record.IntValue(typ, int64(n)), nil
	case record.TypeInt64:
		var n int64
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return record.Value{}, err
		}
		return record.IntValue(typ, n), nil
	case record.TypeChar:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return record.Value{}, err
		}
		return record.CharValue(rune(b[0])), nil
	case record.TypeBool:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return record.Value{}, err
		}
		switch b[0] {
		case 0:
			return record.BoolValue(false), nil
		case 1:
			return record.BoolValue(true), nil
		default:
			return record.Value{}, fmt.Errorf("bad bool byte %d", b[0])
		}
	default:
		return record.Value{}, fmt.Errorf("unknown type %v", typ)
	}
}

func writeBytes(w io.Writer, b []byte) error {
	if len(b) > MaxChunkSize {
		return fmt.Errorf("dtb: chunk too large: %d > %d", len(b), MaxChunkSize)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// readBytes reads a length-prefixed chunk. A clean EOF before the
// prefix propagates as io.EOF so callers can detect end-of-stream.
func readBytes(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > MaxChunkSize {
		return nil, fmt.Errorf("chunk too large: %d > %d", n, MaxChunkSize)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
