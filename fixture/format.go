package fixture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	// Magic identifies fixture files (ASCII: "SLOT").
	Magic uint32 = 0x534C4F54
	// Version is the current file format version.
	Version uint16 = 1
	// HeaderSize is the fixed size of the file header in bytes.
	HeaderSize = 32
	// Ext is the file extension of fixture blobs.
	Ext = ".slot"
)

var (
	// ErrInvalidFixture is returned for blobs that are not well-formed fixtures.
	ErrInvalidFixture = errors.New("fixture: invalid fixture")
	// ErrUnsupportedVersion is returned for fixtures written by a newer format.
	ErrUnsupportedVersion = errors.New("fixture: unsupported version")
	// ErrChecksum is returned when the decoded payload does not match its CRC32.
	ErrChecksum = errors.New("fixture: checksum mismatch")
)

// Compression is the payload compression of a fixture.
type Compression uint8

const (
	// CompressionNone stores the words as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd (better ratio).
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("fixture: unknown compression %q", s)
	}
}

// Header is the 32-byte header at the start of every fixture.
//
//	0  Magic       uint32
//	4  Version     uint16
//	6  Width       uint8  record width in words (1 or 2)
//	7  Compression uint8
//	8  Records     uint64
//	16 PayloadLen  uint64 stored payload bytes after the header
//	24 Checksum    uint32 CRC32 (IEEE) of the uncompressed payload
//	28 reserved
//
// All fields and payload words are little-endian.
type Header struct {
	Version     uint16
	Width       uint8
	Compression Compression
	Records     uint64
	PayloadLen  uint64
	Checksum    uint32
}

// RawLen returns the uncompressed payload size in bytes.
func (h Header) RawLen() uint64 {
	return h.Records * uint64(h.Width) * 8
}

// Words returns the number of arena words the records occupy.
func (h Header) Words() uint64 {
	return h.Records * uint64(h.Width)
}

func (h Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	buf[6] = h.Width
	buf[7] = byte(h.Compression)
	binary.LittleEndian.PutUint64(buf[8:], h.Records)
	binary.LittleEndian.PutUint64(buf[16:], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[24:], h.Checksum)
	return buf
}

func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: short header (%d bytes)", ErrInvalidFixture, len(buf))
	}
	if m := binary.LittleEndian.Uint32(buf[0:]); m != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %#x", ErrInvalidFixture, m)
	}

	h := Header{
		Version:     binary.LittleEndian.Uint16(buf[4:]),
		Width:       buf[6],
		Compression: Compression(buf[7]),
		Records:     binary.LittleEndian.Uint64(buf[8:]),
		PayloadLen:  binary.LittleEndian.Uint64(buf[16:]),
		Checksum:    binary.LittleEndian.Uint32(buf[24:]),
	}

	if h.Version == 0 || h.Version > Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.Width != 1 && h.Width != 2 {
		return Header{}, fmt.Errorf("%w: record width %d", ErrInvalidFixture, h.Width)
	}
	if h.Compression > CompressionZstd {
		return Header{}, fmt.Errorf("%w: %s", ErrInvalidFixture, h.Compression)
	}
	// Guard the width multiplication in RawLen.
	if h.Records > 1<<56 {
		return Header{}, fmt.Errorf("%w: %d records", ErrInvalidFixture, h.Records)
	}
	if h.Compression == CompressionNone && h.PayloadLen != h.RawLen() {
		return Header{}, fmt.Errorf("%w: payload %d bytes, want %d", ErrInvalidFixture, h.PayloadLen, h.RawLen())
	}
	return h, nil
}
