package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported sample format")

// Format is a sample file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the encoding from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// ParseSample reads the sample file at path. The SHA-256 of the file
// contents becomes the sample hash, so re-ingesting the same file is a no-op.
func ParseSample(path string) (*model.Sample, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", filepath.Base(path)).Str("hash", s.Hash[:12]).
		Int("players", len(s.Players)).Msg("parsed sample")
	return s, nil
}

// Decode parses sample bytes in the given format and stamps the content hash.
func Decode(data []byte, format Format) (*model.Sample, error) {
	var s model.Sample
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode json sample: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode yaml sample: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	s.Hash = fmt.Sprintf("%x", sha256.Sum256(data))
	normalize(&s)
	return &s, nil
}

func validate(s *model.Sample) error {
	if s.Team == "" {
		return errors.New("sample: team is required")
	}
	seen := make(map[string]bool, len(s.Players))
	for i, p := range s.Players {
		if p.Code == "" {
			return fmt.Errorf("sample: player %d has no code", i)
		}
		if seen[p.Code] {
			return fmt.Errorf("sample: duplicate player code %q", p.Code)
		}
		seen[p.Code] = true
	}
	return nil
}

// normalize fills defaults so downstream code never sees nil stat sets.
func normalize(s *model.Sample) {
	if s.Context == "" {
		s.Context = "baseline"
	}
	if s.TeamStats == nil {
		s.TeamStats = model.StatSet{}
	}
	for i := range s.Players {
		if s.Players[i].Stats == nil {
			s.Players[i].Stats = model.StatSet{}
		}
	}
}
