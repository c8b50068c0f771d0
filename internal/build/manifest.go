package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cruciblehq/cloudimg/internal/paths"
)

// Merges the builder's manifest with the build metadata.
type Manifest struct {
	Input  string            // Manifest written by the builder.
	Output string            // Final manifest to write.
	Info   map[string]string // Build metadata.
}

// On-disk form of the final manifest.
type manifestDocument struct {
	Info      map[string]string    `json:"info"`
	Build     json.RawMessage      `json:"build"`
	Artifacts []ocispec.Descriptor `json:"artifacts"`
}

// Writes the final manifest.
//
// The builder's manifest must be a JSON object; it is embedded unchanged.
// When live is false nothing is read or written.
func (m *Manifest) Run(ctx context.Context, live bool, artifacts []ocispec.Descriptor) error {
	if !live {
		slog.Info("would write manifest", "input", m.Input, "output", m.Output)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	input, err := os.ReadFile(m.Input)
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(input, &fields); err != nil {
		return fmt.Errorf("%s: %w", m.Input, err)
	}
	if fields == nil {
		return fmt.Errorf("%s: build manifest is not a JSON object", m.Input)
	}

	if artifacts == nil {
		artifacts = []ocispec.Descriptor{}
	}

	data, err := json.MarshalIndent(manifestDocument{
		Info:      m.Info,
		Build:     json.RawMessage(input),
		Artifacts: artifacts,
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.Output, append(data, '\n'), paths.DefaultFileMode); err != nil {
		return err
	}

	slog.Info("manifest written", "path", m.Output)
	return nil
}
