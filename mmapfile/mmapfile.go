/*
DESCRIPTION
  mmapfile.go provides a read-only memory mapping of a file for use by the
  parse driver, advising the kernel of sequential access.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mmapfile provides a scoped, read-only memory mapping of a file.
package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory mapping of a file's contents. The zero value
// is not usable; construct one with Open.
type File struct {
	Data []byte

	f *os.File
}

// Open maps the file at path read-only for its entire length and advises
// the kernel that it will be read sequentially. Close must be called to
// release the mapping and the underlying file descriptor.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: could not open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: could not stat file: %w", err)
	}
	size := info.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("mmapfile: file is empty")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: could not mmap file: %w", err)
	}

	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		// Non-fatal: sequential access is advisory only.
		_ = err
	}

	return &File{Data: data, f: f}, nil
}

// Close unmaps the file and closes the underlying file descriptor.
func (m *File) Close() error {
	err := unix.Munmap(m.Data)
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
