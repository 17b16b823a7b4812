// Package blobstore assembles the contiguous data segment that carries every
// embedded program's raw bytes and reports, per program, the address range
// the bytes occupy once the segment sits at its configured base address.
package blobstore

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/minikern/imagepack/lib/directory"
	"github.com/minikern/imagepack/lib/logger"
)

// Config controls segment placement.
type Config struct {
	// Base is the address the assembled segment is assumed to occupy at
	// run time. All reported ranges are relative to it.
	Base uint64

	// Alignment is the minimum alignment of each program's start address.
	// 0 or 1 means byte-exact contiguity between consecutive programs,
	// the default; only the directory table itself is 8-byte aligned.
	// Larger values must be powers of two and produce observable, harmless
	// gaps between one program's end and the next program's start.
	Alignment uint64
}

// DefaultConfig returns a store configuration with byte-exact contiguity at
// base address 0.
func DefaultConfig() Config {
	return Config{Base: 0, Alignment: 1}
}

// Store places program byte sequences back-to-back into a single segment.
// A store backs exactly one image: Embed can succeed once.
type Store struct {
	config   Config
	embedded bool
	segment  []byte
}

// New creates a Store with the given configuration.
func New(config Config) (*Store, error) {
	if config.Alignment == 0 {
		config.Alignment = 1
	}
	if bits.OnesCount64(config.Alignment) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadAlignment, config.Alignment)
	}
	return &Store{config: config}, nil
}

// Embed places each program's bytes into the segment in input order and
// returns the resulting address range per program. Ranges never overlap and
// appear in non-decreasing order; a zero-length program yields an empty
// range at its assigned start.
func (s *Store) Embed(ctx context.Context, programs [][]byte) ([]directory.Range, error) {
	if s.embedded {
		return nil, ErrAlreadyEmbedded
	}

	ranges := make([]directory.Range, 0, len(programs))
	for i, p := range programs {
		// Program 0 starts exactly at Base; padding goes only between
		// programs, even when Base itself is unaligned.
		if pad := s.padding(); i > 0 && pad > 0 {
			s.segment = append(s.segment, make([]byte, pad)...)
		}
		start := s.config.Base + uint64(len(s.segment))
		s.segment = append(s.segment, p...)
		ranges = append(ranges, directory.Range{Start: start, End: start + uint64(len(p))})
	}
	s.embedded = true

	logger.FromContext(ctx).Debug("programs embedded",
		"count", len(programs), "segment_bytes", len(s.segment))
	return ranges, nil
}

// padding returns how many filler bytes the next program needs so that its
// start address satisfies the configured alignment.
func (s *Store) padding() uint64 {
	next := s.config.Base + uint64(len(s.segment))
	if rem := next % s.config.Alignment; rem != 0 {
		return s.config.Alignment - rem
	}
	return 0
}

// Bytes returns the assembled segment. Callers must treat it as read-only.
func (s *Store) Bytes() []byte {
	return s.segment
}

// Slice returns the segment bytes covered by r.
func (s *Store) Slice(r directory.Range) ([]byte, error) {
	if r.Start < s.config.Base || r.End < r.Start ||
		r.End-s.config.Base > uint64(len(s.segment)) {
		return nil, fmt.Errorf("%w: %s", ErrRangeOutOfBounds, r)
	}
	return s.segment[r.Start-s.config.Base : r.End-s.config.Base], nil
}
