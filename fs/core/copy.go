package core

import (
	"context"
	"io/fs"
	"path"
	"strings"
)

// CopyTree copies every regular file under srcRoot in src into dst,
// preserving the directory structure and permission bits.
//
// The srcRoot parameter specifies the root directory in the source
// filesystem to copy from. Use "." to copy the entire source filesystem.
//
// Example:
//
//	//go:embed templates/*
//	var templatesFS embed.FS
//
//	err := core.CopyTree(ctx, templatesFS, "templates", remote.Tree(remote.Path("/srv/app")))
func CopyTree(ctx context.Context, src fs.FS, srcRoot string, dst TreeWriter) error {
	return fs.WalkDir(src, srcRoot, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Directories are created on demand by MkdirAll.
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(src, filePath)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		dstPath := filePath
		if srcRoot != "." && srcRoot != "" {
			dstPath = strings.TrimPrefix(filePath, srcRoot)
			dstPath = strings.TrimPrefix(dstPath, "/")
		}

		if dir := path.Dir(dstPath); dir != "." && dir != "" {
			if err := dst.MkdirAll(ctx, dir, 0o755); err != nil {
				return err
			}
		}

		return dst.WriteFile(ctx, dstPath, data, info.Mode().Perm())
	})
}
