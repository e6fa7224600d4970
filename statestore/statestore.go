// Package statestore persists saved paginator state to pluggable blob
// backends. Files are self-describing: a fixed header records the codec
// name and compression mode used at write time, so a store configured one
// way can still open files written another.
//
// Frame layout, little-endian:
//
//	magic   [4]byte "PGST"
//	version uint8
//	compression uint8
//	codecLen uint8, codec name bytes
//	rawSize uint32 (size of the payload before compression)
//	payload
package statestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jamal-wia/Paginator-sub000/blobstore"
	"github.com/jamal-wia/Paginator-sub000/codec"
)

var magic = [4]byte{'P', 'G', 'S', 'T'}

const frameVersion = 1

// maxRawSize bounds the decompressed payload size a frame header may claim.
// The header is untrusted input; a corrupt file must not drive allocation.
const maxRawSize = 256 << 20

// ErrNotFound is returned when no saved state exists under a name.
var ErrNotFound = blobstore.ErrNotFound

// Options configures a Manager.
type Options struct {
	// Codec encodes state payloads. Defaults to codec.Default.
	Codec codec.Codec

	// Compression is applied to encoded payloads. Defaults to
	// CompressionNone; saved state is small, compression is for hosts
	// persisting large caches.
	Compression Compression
}

// Manager saves and loads values of type T through a blob store. The
// zero-cost path is Save/Load of one named document; List and Delete
// manage the namespace.
//
// Manager is safe for concurrent use when the underlying store is.
type Manager[T any] struct {
	store       blobstore.Store
	codec       codec.Codec
	compression Compression
}

// New creates a Manager over store.
func New[T any](store blobstore.Store, optFns ...func(*Options)) (*Manager[T], error) {
	if store == nil {
		return nil, errors.New("statestore: blob store is required")
	}

	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionNone,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	return &Manager[T]{
		store:       store,
		codec:       opts.Codec,
		compression: opts.Compression,
	}, nil
}

// WithCodec sets the codec used for newly written state files.
func WithCodec(c codec.Codec) func(*Options) {
	return func(o *Options) {
		o.Codec = c
	}
}

// WithCompression sets the compression applied to newly written files.
func WithCompression(c Compression) func(*Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// Save encodes v and writes it under name, replacing any previous state of
// that name.
func (m *Manager[T]) Save(ctx context.Context, name string, v T) error {
	raw, err := m.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("statestore: encode %q: %w", name, err)
	}

	payload, used, err := compress(raw, m.compression)
	if err != nil {
		return fmt.Errorf("statestore: compress %q: %w", name, err)
	}

	codecName := m.codec.Name()
	if len(codecName) > 255 {
		return fmt.Errorf("statestore: codec name %q too long", codecName)
	}

	frame := make([]byte, 0, 4+1+1+1+len(codecName)+4+len(payload))
	frame = append(frame, magic[:]...)
	frame = append(frame, frameVersion, byte(used), byte(len(codecName)))
	frame = append(frame, codecName...)
	frame = binary.LittleEndian.AppendUint32(frame, uint32(len(raw)))
	frame = append(frame, payload...)

	return m.store.Put(ctx, name, frame)
}

// Load reads and decodes the state saved under name. The file's own header
// decides the codec and compression, not the Manager's configuration.
func (m *Manager[T]) Load(ctx context.Context, name string) (T, error) {
	var zero T

	frame, err := m.store.Get(ctx, name)
	if err != nil {
		return zero, err
	}

	if len(frame) < 7 || [4]byte(frame[:4]) != magic {
		return zero, fmt.Errorf("statestore: %q is not a state file", name)
	}
	if frame[4] != frameVersion {
		return zero, fmt.Errorf("statestore: %q has unsupported version %d", name, frame[4])
	}
	compression := Compression(frame[5])
	nameLen := int(frame[6])
	rest := frame[7:]
	if len(rest) < nameLen+4 {
		return zero, fmt.Errorf("statestore: %q header truncated", name)
	}

	codecName := string(rest[:nameLen])
	c, ok := codec.ByName(codecName)
	if !ok {
		return zero, fmt.Errorf("statestore: %q written with unknown codec %q", name, codecName)
	}

	rawSize := binary.LittleEndian.Uint32(rest[nameLen:])
	if rawSize > maxRawSize {
		return zero, fmt.Errorf("statestore: %q claims a %d byte payload, limit is %d", name, rawSize, maxRawSize)
	}
	payload := rest[nameLen+4:]

	raw, err := decompress(payload, compression, int(rawSize))
	if err != nil {
		return zero, fmt.Errorf("statestore: decompress %q: %w", name, err)
	}

	var v T
	if err := c.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("statestore: decode %q: %w", name, err)
	}
	return v, nil
}

// Delete removes the state saved under name. Absent names are not an error.
func (m *Manager[T]) Delete(ctx context.Context, name string) error {
	return m.store.Delete(ctx, name)
}

// List returns the names of all saved states with the given prefix.
func (m *Manager[T]) List(ctx context.Context, prefix string) ([]string, error) {
	return m.store.List(ctx, prefix)
}
