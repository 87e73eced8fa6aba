// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
)

// XORKey is the fixed repeating key the builder applies between gzip
// and base64. Obfuscation only; see the package documentation.
const XORKey = "ReviewCatalog-v1"

// ObfuscatedExt is the file-name suffix marking a chunk that must pass
// through Decode. Any other chunk file is plain JSON.
const ObfuscatedExt = ".dat"

var (
	// ErrUnsupported indicates the runtime lacks a required
	// decompression capability. The Go runtime always carries gzip, so
	// this is never produced here; it exists so callers sharing the
	// error taxonomy with other runtimes can test against one sentinel.
	ErrUnsupported = errors.New("codec: decompression not supported")

	// ErrMalformed wraps any base64, XOR-framing, gzip, or JSON failure
	// in the decode pipeline.
	ErrMalformed = errors.New("codec: malformed payload")
)

// IsObfuscated reports whether a chunk file name selects the
// obfuscated transport.
func IsObfuscated(file string) bool {
	return strings.HasSuffix(file, ObfuscatedExt)
}

// Decode reverses the full obfuscation pipeline and parses the result
// as JSON. All whitespace in the input is ignored, matching how the
// blob may be wrapped when embedded in a page.
func Decode(b64 string) (interface{}, error) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, b64)

	raw, err := base64.StdEncoding.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrMalformed, err)
	}
	xorInPlace(raw)

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip header: %v", ErrMalformed, err)
	}
	text, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrMalformed, err)
	}

	var v interface{}
	if err := json.Unmarshal(text, &v); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformed, err)
	}
	return v, nil
}

// Encode runs the builder's forward pipeline: JSON, gzip at best
// compression, XOR, base64. It is the exact inverse of Decode and is
// used by the chunk-build helper and round-trip tests.
func Encode(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return "", fmt.Errorf("encode gzip: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("encode gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("encode gzip: %w", err)
	}

	ob := buf.Bytes()
	xorInPlace(ob)
	return base64.StdEncoding.EncodeToString(ob), nil
}

// xorInPlace applies the repeating-key XOR. The transform is its own
// inverse.
func xorInPlace(data []byte) {
	key := []byte(XORKey)
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
}
