// SPDX-License-Identifier: MIT

// Package codec is the binary persistence format for vectors.
//
// Only persisted fields are written: a dense vector's values, a sparse
// vector's (index, value) entries. Caches (norms, the sparse index cache) are
// never stored; decoded vectors start with them unbuilt.
//
// Frame layout (little endian):
//
//	[magic "VSPC"][version u8][kind u8][compression u8][reserved u8]
//	[uncompressed u32][compressed u32][payload...]
//
// Dense payload:  [n u64][n × float64 bits]
// Sparse payload: [nnz u64][nnz × (index u64, value float64 bits)]
//
// A payload that does not shrink below 90% of its size is stored raw
// regardless of the requested compression.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/vecspace/vector"
)

var (
	// ErrCorrupt indicates a frame that cannot be decoded.
	ErrCorrupt = errors.New("codec: corrupt frame")

	// ErrUnknownCompression indicates an unsupported compression id or name.
	ErrUnknownCompression = errors.New("codec: unknown compression")

	// ErrKindMismatch indicates decoding a dense frame as sparse or vice versa.
	ErrKindMismatch = errors.New("codec: vector kind mismatch")

	// ErrTooLarge indicates a payload above the single-block limit.
	ErrTooLarge = errors.New("codec: payload too large")
)

const (
	magic         = "VSPC"
	version uint8 = 1
	headerSize    = 8
)

// Encode serializes v (dense or sparse) with compression c.
// Errors: vector.ErrNilArgument, vector.ErrUnsupportedVectorType,
// ErrUnknownCompression, ErrTooLarge.
func Encode(v vector.Vector, c Compression) ([]byte, error) {
	switch x := v.(type) {
	case *vector.Dense:
		if x == nil {
			return nil, vector.ErrNilArgument
		}
		return EncodeDense(x, c)
	case *vector.Sparse:
		if x == nil {
			return nil, vector.ErrNilArgument
		}
		return EncodeSparse(x, c)
	case nil:
		return nil, vector.ErrNilArgument
	default:
		return nil, vector.ErrUnsupportedVectorType
	}
}

// Decode restores whichever vector kind the frame holds.
func Decode(b []byte) (vector.Vector, error) {
	kind, _, _, err := readHeader(b)
	if err != nil {
		return nil, err
	}
	if kind == vector.KindSparse {
		return DecodeSparse(b)
	}

	return DecodeDense(b)
}

// EncodeDense serializes d's values.
func EncodeDense(d *vector.Dense, c Compression) ([]byte, error) {
	vals := d.Values()
	payload := make([]byte, 8+8*len(vals))
	binary.LittleEndian.PutUint64(payload, uint64(len(vals)))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(payload[8+8*i:], math.Float64bits(v))
	}

	return frame(vector.KindDense, c, payload)
}

// DecodeDense restores a dense vector.
// Errors: ErrCorrupt, ErrKindMismatch, ErrUnknownCompression.
func DecodeDense(b []byte) (*vector.Dense, error) {
	payload, err := unframe(b, vector.KindDense)
	if err != nil {
		return nil, err
	}
	n, body, err := count(payload, 8)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(body[8*i:]))
	}

	return vector.NewDenseFrom(vals), nil
}

// EncodeSparse serializes s's stored entries in ascending index order.
func EncodeSparse(s *vector.Sparse, c Compression) ([]byte, error) {
	entries := s.Entries()
	payload := make([]byte, 8+16*len(entries))
	binary.LittleEndian.PutUint64(payload, uint64(len(entries)))
	for i, e := range entries {
		off := 8 + 16*i
		binary.LittleEndian.PutUint64(payload[off:], uint64(e.Index))
		binary.LittleEndian.PutUint64(payload[off+8:], math.Float64bits(e.Value))
	}

	return frame(vector.KindSparse, c, payload)
}

// DecodeSparse restores a sparse vector; its index cache starts unbuilt.
// Errors: ErrCorrupt (also for out-of-order entries), ErrKindMismatch,
// ErrUnknownCompression.
func DecodeSparse(b []byte) (*vector.Sparse, error) {
	payload, err := unframe(b, vector.KindSparse)
	if err != nil {
		return nil, err
	}
	n, body, err := count(payload, 16)
	if err != nil {
		return nil, err
	}
	entries := make([]vector.Entry, n)
	for i := range entries {
		off := 16 * i
		idx := binary.LittleEndian.Uint64(body[off:])
		if idx > math.MaxInt {
			return nil, fmt.Errorf("entry %d index: %w", i, ErrCorrupt)
		}
		entries[i] = vector.Entry{
			Index: int(idx),
			Value: math.Float64frombits(binary.LittleEndian.Uint64(body[off+8:])),
		}
	}
	s, err := vector.NewSparse(entries...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return s, nil
}

// Write encodes v to w.
func Write(w io.Writer, v vector.Vector, c Compression) error {
	b, err := Encode(v, c)
	if err != nil {
		return err
	}
	_, err = w.Write(b)

	return err
}

// Read decodes one vector from the whole of r.
func Read(r io.Reader) (vector.Vector, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Decode(b)
}

// ---------- framing ----------

func frame(kind vector.Kind, c Compression, payload []byte) ([]byte, error) {
	block, err := compressBlock(payload, c)
	if err != nil {
		return nil, err
	}
	out := make([]byte, headerSize, headerSize+len(block))
	copy(out, magic)
	out[4], out[5], out[6] = version, uint8(kind), uint8(c)

	return append(out, block...), nil
}

func readHeader(b []byte) (vector.Kind, Compression, []byte, error) {
	if len(b) < headerSize || string(b[:4]) != magic {
		return 0, 0, nil, fmt.Errorf("header: %w", ErrCorrupt)
	}
	if b[4] != version {
		return 0, 0, nil, fmt.Errorf("version %d: %w", b[4], ErrCorrupt)
	}
	kind := vector.Kind(b[5])
	if kind != vector.KindDense && kind != vector.KindSparse {
		return 0, 0, nil, fmt.Errorf("kind %d: %w", b[5], ErrCorrupt)
	}
	c := Compression(b[6])
	switch c {
	case None, LZ4, ZSTD:
	default:
		return 0, 0, nil, fmt.Errorf("%v: %w", c, ErrUnknownCompression)
	}

	return kind, c, b[headerSize:], nil
}

func unframe(b []byte, want vector.Kind) ([]byte, error) {
	kind, c, block, err := readHeader(b)
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, fmt.Errorf("have %v, want %v: %w", kind, want, ErrKindMismatch)
	}

	return decompressBlock(block, c)
}

// count reads the leading u64 element count and checks the body holds
// exactly that many elements of width bytes.
func count(payload []byte, width int) (int, []byte, error) {
	if len(payload) < 8 {
		return 0, nil, fmt.Errorf("payload count: %w", ErrCorrupt)
	}
	n := binary.LittleEndian.Uint64(payload)
	body := payload[8:]
	if n > uint64(len(body)/width) || uint64(len(body)) != n*uint64(width) {
		return 0, nil, fmt.Errorf("payload length: %w", ErrCorrupt)
	}

	return int(n), body, nil
}
