// SPDX-License-Identifier: MPL-2.0

package container

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
)

// ErrNoFileInArchive is returned by ReadTarFile for archives without a
// regular file.
var ErrNoFileInArchive = errors.New("archive contains no regular file")

// ReadTarFile returns the header and content of the first regular file in a
// tar stream, as written by "cp container:path -". The returned reader is
// valid until r is advanced.
func ReadTarFile(r io.Reader) (*tar.Header, io.Reader, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrNoFileInArchive
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg {
			return hdr, tr, nil
		}
	}
}

// WriteTarFile writes content as a single-file tar archive named name, the
// stdin format expected by "cp - container:dir".
func WriteTarFile(w io.Writer, name string, mode int64, content []byte) error {
	tw := tar.NewWriter(w)
	hdr := &tar.Header{
		Name:     name,
		Mode:     mode,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write archive header: %w", err)
	}
	if _, err := tw.Write(content); err != nil {
		return fmt.Errorf("write archive content: %w", err)
	}
	return tw.Close()
}
