// SPDX-License-Identifier: MIT

package codec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression applied to a payload.
type Compression uint8

const (
	// None stores the payload as is.
	None Compression = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Compression = 1
	// ZSTD uses Zstandard (better ratio).
	ZSTD Compression = 2
)

// String returns "none", "lz4", "zstd" or "Compression(n)".
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%q: %w", s, ErrUnknownCompression)
	}
}

// Encoders are stateful and expensive to build; pool them.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) { zstdEncoderPool.Put(enc) }

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) { zstdDecoderPool.Put(dec) }

// Block layout: [uncompressed u32][compressed u32][data...].
// compressed == 0 means data is stored raw.
const blockHeaderSize = 8

// incompressibleRatio: a compressed block larger than this share of the
// input is stored raw instead.
const incompressibleRatio = 0.9

// maxBlockSize bounds a single payload (and the allocation a header can request).
const maxBlockSize = 1 << 30

// compressBlock frames data, compressing it with c when that pays off.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	if len(data) > maxBlockSize {
		return nil, ErrTooLarge
	}
	var packed []byte
	var err error
	switch c {
	case None:
	case LZ4:
		packed, err = compressLZ4(data)
	case ZSTD:
		packed = compressZSTD(data)
	default:
		return nil, fmt.Errorf("%v: %w", c, ErrUnknownCompression)
	}
	if err != nil {
		return nil, err
	}

	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*incompressibleRatio {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}
	out := make([]byte, blockHeaderSize+len(packed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(packed)))
	copy(out[blockHeaderSize:], packed)

	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return buf[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)
	return enc.EncodeAll(data, nil)
}

// decompressBlock reverses compressBlock. block must be exactly one frame.
func decompressBlock(block []byte, c Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("block header: %w", ErrCorrupt)
	}
	rawSize := binary.LittleEndian.Uint32(block[0:])
	packedSize := binary.LittleEndian.Uint32(block[4:])
	body := block[blockHeaderSize:]
	if rawSize > maxBlockSize {
		return nil, fmt.Errorf("block size %d: %w", rawSize, ErrCorrupt)
	}

	if packedSize == 0 {
		if uint64(len(body)) != uint64(rawSize) {
			return nil, fmt.Errorf("raw block size: %w", ErrCorrupt)
		}
		return body, nil
	}
	if uint64(len(body)) != uint64(packedSize) {
		return nil, fmt.Errorf("compressed block size: %w", ErrCorrupt)
	}

	out := make([]byte, rawSize)
	switch c {
	case LZ4:
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w: %w", ErrCorrupt, err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("lz4 size mismatch: %w", ErrCorrupt)
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		decoded, err := dec.DecodeAll(body, out[:0])
		if err != nil {
			return nil, fmt.Errorf("zstd: %w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != rawSize {
			return nil, fmt.Errorf("zstd size mismatch: %w", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%v: %w", c, ErrUnknownCompression)
	}
}
