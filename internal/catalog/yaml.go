package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// SourceYAML names catalogs read from a YAML document.
const SourceYAML = "yaml"

// zstdSuffix marks catalog files stored zstd-compressed.
const zstdSuffix = ".zst"

// YAMLSource loads the catalog from a YAML file on every Load, so edits to
// the file are picked up by the next refresh. Paths ending in .zst are
// decompressed first.
type YAMLSource struct {
	Path string
}

func (s YAMLSource) Name() string { return SourceYAML }

func (s YAMLSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(s.Path, zstdSuffix) {
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	d, err := DecodeYAML(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return New(SourceYAML, d)
}

// DecodeYAML reads catalog records. Unknown keys are rejected so typos in
// hand-edited files surface instead of silently zeroing a ceiling.
func DecodeYAML(r io.Reader) (Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if err == io.EOF {
			return Data{}, nil
		}
		return Data{}, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return d, nil
}

// EncodeYAML writes d in the format DecodeYAML reads.
func EncodeYAML(w io.Writer, d Data) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode catalog yaml: %w", err)
	}
	return enc.Close()
}

// WriteFile encodes d to path, zstd-compressing when path ends in .zst.
func WriteFile(path string, d Data) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, zstdSuffix) {
		return EncodeYAML(f, d)
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("open zstd writer: %w", err)
	}
	if err := EncodeYAML(zw, d); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
