package fetch

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/nodeerr"
)

// ExtractTarGz writes every member of the gzip-tar stream r beneath dest.
// All member I/O goes through an os.Root on dest, so links already extracted cannot
// carry a later member outside it. Members that would land outside dest, by name,
// link target, or link chain, fail with nodeerr.ErrExtraction, as does any
// malformed stream.
func ExtractTarGz(r io.Reader, dest string) error {
	root, err := os.OpenRoot(dest)
	if err != nil {
		return fmt.Errorf(messages.FetchOpenRootFmt, dest, err)
	}
	defer func() { _ = root.Close() }()

	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf(messages.FetchMalformedArchiveFmt, nodeerr.ErrExtraction, err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf(messages.FetchMalformedArchiveFmt, nodeerr.ErrExtraction, err)
		}
		name, skip, err := memberPath(hdr.Name)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		if err := extractMember(root, tr, hdr, name); err != nil {
			return err
		}
	}
}

// extractMember writes one member at name, a clean path relative to root.
func extractMember(root *os.Root, tr *tar.Reader, hdr *tar.Header, name string) error {
	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := root.MkdirAll(name, dirMode(hdr)); err != nil {
			return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
		}
		return nil
	case tar.TypeReg:
		return writeRegular(root, tr, hdr, name)
	case tar.TypeSymlink:
		if filepath.IsAbs(hdr.Linkname) || !within(".", filepath.Join(filepath.Dir(name), filepath.FromSlash(hdr.Linkname))) {
			return fmt.Errorf(messages.FetchUnsafeLinkFmt, nodeerr.ErrExtraction, hdr.Name, hdr.Linkname)
		}
		if err := mkdirParent(root, name); err != nil {
			return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
		}
		if err := root.Symlink(hdr.Linkname, name); err != nil {
			return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
		}
		return nil
	case tar.TypeLink:
		source, skip, err := memberPath(hdr.Linkname)
		if err != nil || skip {
			return fmt.Errorf(messages.FetchUnsafeLinkFmt, nodeerr.ErrExtraction, hdr.Name, hdr.Linkname)
		}
		if err := mkdirParent(root, name); err != nil {
			return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
		}
		if err := root.Link(source, name); err != nil {
			return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
		}
		return nil
	}
	return fmt.Errorf(messages.FetchUnsupportedMemberFmt, nodeerr.ErrExtraction, hdr.Name, hdr.Typeflag)
}

func writeRegular(root *os.Root, tr *tar.Reader, hdr *tar.Header, name string) error {
	if err := mkdirParent(root, name); err != nil {
		return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
	}
	mode := os.FileMode(hdr.Mode).Perm()
	if mode == 0 {
		mode = 0o644
	}
	// A regular member never writes through an earlier link of the same name.
	if info, err := root.Lstat(name); err == nil && !info.Mode().IsRegular() {
		if err := root.Remove(name); err != nil {
			return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
		}
	}
	out, err := root.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, err)
	}
	n, copyErr := io.Copy(out, tr)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf(messages.FetchMalformedArchiveFmt, nodeerr.ErrExtraction, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf(messages.FetchWriteMemberFmt, nodeerr.ErrExtraction, hdr.Name, closeErr)
	}
	if n != hdr.Size {
		return fmt.Errorf(messages.FetchShortMemberFmt, nodeerr.ErrExtraction, hdr.Name, hdr.Size, n)
	}
	return nil
}

func mkdirParent(root *os.Root, name string) error {
	parent := filepath.Dir(name)
	if parent == "." {
		return nil
	}
	return root.MkdirAll(parent, 0o755)
}

// memberPath cleans an archive member name into a path relative to the extraction
// root. Names that resolve to the root itself are skipped; absolute names and ..
// escapes are rejected.
func memberPath(name string) (string, bool, error) {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", false, fmt.Errorf(messages.FetchUnsafeMemberFmt, nodeerr.ErrExtraction, name)
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == "." {
		return "", true, nil
	}
	if !filepath.IsLocal(cleaned) {
		return "", false, fmt.Errorf(messages.FetchUnsafeMemberFmt, nodeerr.ErrExtraction, name)
	}
	return cleaned, false, nil
}

func within(root string, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func dirMode(hdr *tar.Header) os.FileMode {
	mode := os.FileMode(hdr.Mode).Perm()
	if mode == 0 {
		return 0o755
	}
	return mode | 0o700
}
