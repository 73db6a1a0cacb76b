// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package outfile implements writing of output files
// that are never left half written.
package outfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// BackupSuffix is the suffix added to the name
// of a backup file.
const BackupSuffix = ".backup"

// Write writes a file using the given function.
// The data is written into a temporary file
// in the same directory,
// that replaces the named file
// only if fn returns without errors.
// If the file already exists,
// its permissions are preserved.
func Write(name string, fn func(w io.Writer) error) error {
	pf, err := renameio.NewPendingFile(name,
		renameio.WithTempDir(filepath.Dir(name)),
		renameio.WithPermissions(0644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	bw := bufio.NewWriter(pf)
	if err := fn(bw); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

// Backup copies the content of a file
// into a file with the same name
// and BackupSuffix.
// It returns the name of the backup file,
// or an empty string if the file does not exist.
func Backup(name string) (string, error) {
	in, err := os.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer in.Close()

	bName := name + BackupSuffix
	err = Write(bName, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return "", err
	}
	return bName, nil
}
