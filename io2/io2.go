package io2

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// stat returns nil info and nil error when path does not exist.
func stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return info, err
}

// FileExists reports whether file is an existing regular file or symlink to one.
func FileExists(file string) bool {
	info, err := stat(file)
	return err == nil && info != nil && !info.IsDir()
}

func DirectoryExists(dir string) bool {
	info, err := stat(dir)
	return err == nil && info != nil && info.IsDir()
}

func ResolvePath(path string) (string, error) {
	return filepath.Abs(path)
}

// IsDirectoryEmpty reports whether dir has no entries. A missing dir is an
// error.
func IsDirectoryEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil {
		if err == io.EOF {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func Mkdirp(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// CleanDir removes dir and everything in it, then recreates it empty.
func CleanDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return Mkdirp(dir)
}

// CopyFile overwrites dst with the contents of src, creating parent dirs
// as needed. File mode is taken from src.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := Mkdirp(filepath.Dir(dst)); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// SubDirs returns the names of the immediate subdirectories of dir in
// lexical order. A missing dir yields no names.
func SubDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// JoinCLIFlags joins flags into one space separated value, skipping empty
// entries.
func JoinCLIFlags(flags ...string) string {
	var sb strings.Builder
	for _, f := range flags {
		if f == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f)
	}
	return sb.String()
}
