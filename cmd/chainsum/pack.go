package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/chainsum/compress"
	"github.com/arloliu/chainsum/discover"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		dir   string
		codec string
	)

	cmd := &cobra.Command{
		Use:   "pack [prefix]",
		Short: "Recompress the chain files of a directory in place",
		Long: `pack rewrites every chain file of a run with the chosen codec and removes
the source file once the new one reads back identically. Without a prefix
every run in the directory is packed. "--codec none" restores plain text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := compress.ParseType(codec)
			if err != nil {
				return err
			}

			var prefixes []string
			if len(args) == 1 {
				prefixes = args
			} else if prefixes, err = discover.Prefixes(discover.DirLister{}, dir); err != nil {
				return err
			}

			for _, prefix := range prefixes {
				layout, err := discover.Resolve(discover.DirLister{}, dir, prefix)
				if err != nil {
					return err
				}
				if err := packLayout(cmd.OutOrStdout(), a.logger, layout, target); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory holding the chains")
	cmd.Flags().StringVar(&codec, "codec", compress.TypeZstd.String(), "target codec: none, zstd, s2 or lz4")

	return cmd
}

// packLayout rewrites every file of layout with target. Files already in the
// target format are left alone.
func packLayout(w io.Writer, log *zap.Logger, layout *discover.Layout, target compress.Type) error {
	enc, err := compress.GetCodec(target)
	if err != nil {
		return err
	}

	for _, src := range layout.Paths() {
		typ, base := compress.TypeFromPath(src)
		if typ == target {
			log.Debug("chain file already packed", zap.String("file", src))
			continue
		}
		dst := base + target.Ext()

		n, err := repack(src, dst, typ, enc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s -> %s (%d bytes)\n", src, dst, n)
		log.Info("repacked chain file",
			zap.String("from", src),
			zap.String("to", dst),
			zap.Stringer("codec", target),
			zap.Int("bytes", n))
	}

	return nil
}

func repack(src, dst string, from compress.Type, enc compress.Codec) (int, error) {
	dec, err := compress.GetCodec(from)
	if err != nil {
		return 0, err
	}
	raw, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", src, err)
	}
	data, err := dec.Decompress(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to decompress %s: %w", src, err)
	}
	packed, err := enc.Compress(data)
	if err != nil {
		return 0, fmt.Errorf("failed to compress %s: %w", src, err)
	}
	restored, err := enc.Decompress(packed)
	if err != nil {
		return 0, fmt.Errorf("failed to verify %s: %w", dst, err)
	}
	if !bytes.Equal(restored, data) {
		return 0, fmt.Errorf("failed to verify %s: content differs after round trip", dst)
	}

	if err := writeNew(dst, packed); err != nil {
		return 0, err
	}
	if err := os.Remove(src); err != nil {
		return 0, fmt.Errorf("failed to remove %s: %w", src, err)
	}

	return len(packed), nil
}

// writeNew writes data to a file that must not exist yet.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}
