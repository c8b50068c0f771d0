package build

import (
	"archive/tar"
	"context"
	_ "crypto/sha512"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cruciblehq/cloudimg/internal/paths"
)

const (

	// Media type of packaged disk image archives.
	MediaTypeImageArchive = "application/x-tar"

	// Name of the disk image inside the archive.
	archiveMember = "disk.raw"
)

// Algorithm used to digest packaged artifacts.
var archiveDigest = digest.SHA512

// Packages a raw disk image into a tar archive.
type Packager struct {
	Input  string // Raw image to package.
	Output string // Archive to write.
}

// Writes the archive and returns a descriptor of it.
//
// When live is false nothing is written and the descriptor is nil.
func (p *Packager) Run(ctx context.Context, live bool) (*ocispec.Descriptor, error) {
	if !live {
		slog.Info("would package image", "input", p.Input, "output", p.Output)
		return nil, nil
	}

	slog.Info("packaging image", "input", p.Input, "output", p.Output)

	in, err := os.Open(p.Input)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, err
	}

	out, err := os.OpenFile(p.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	digester := archiveDigest.Digester()
	counter := &countingWriter{w: io.MultiWriter(out, digester.Hash())}

	if err := writeArchive(ctx, counter, in, info); err != nil {
		return nil, err
	}

	if err := out.Close(); err != nil {
		return nil, err
	}

	desc := &ocispec.Descriptor{
		MediaType: MediaTypeImageArchive,
		Digest:    digester.Digest(),
		Size:      counter.n,
		Annotations: map[string]string{
			ocispec.AnnotationTitle: filepath.Base(p.Output),
		},
	}

	slog.Info("image packaged", "path", p.Output, "digest", desc.Digest, "size", desc.Size)
	return desc, nil
}

// Writes a single-member archive holding the contents of r.
func writeArchive(ctx context.Context, w io.Writer, r io.Reader, info os.FileInfo) error {
	tw := tar.NewWriter(w)

	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     archiveMember,
		Size:     info.Size(),
		Mode:     int64(paths.DefaultFileMode),
		ModTime:  info.ModTime(),
		Format:   tar.FormatGNU,
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if _, err := io.Copy(tw, contextReader{ctx: ctx, r: r}); err != nil {
		return err
	}

	return tw.Close()
}

// Counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Stops reading once the context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
