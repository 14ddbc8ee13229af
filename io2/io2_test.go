package io2

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.hpp")
	dst := filepath.Join(dir, "a", "b", "dst.hpp")
	if err := os.WriteFile(src, []byte("patched"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("original and longer"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "patched" {
		t.Errorf("dst = %q, want %q", got, "patched")
	}
	if err := CopyFile(filepath.Join(dir, "missing"), dst); err == nil {
		t.Errorf("CopyFile(missing) succeeded")
	}
}

func TestSubDirs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x86_64", "arm64", "armv7"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "file"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := SubDirs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"arm64", "armv7", "x86_64"}
	if len(got) != len(want) {
		t.Fatalf("SubDirs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SubDirs[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	missing, err := SubDirs(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Errorf("SubDirs(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestCleanDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	if err := os.MkdirAll(filepath.Join(dir, "stale"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := CleanDir(dir); err != nil {
		t.Fatal(err)
	}
	empty, err := IsDirectoryEmpty(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !empty {
		t.Errorf("%s not empty after CleanDir", dir)
	}
}

func TestJoinCLIFlags(t *testing.T) {
	if got := JoinCLIFlags("-Os", "", "-m32"); got != "-Os -m32" {
		t.Errorf("JoinCLIFlags = %q", got)
	}
}

func TestIsDirectoryEmpty(t *testing.T) {
	dir := t.TempDir()
	if empty, err := IsDirectoryEmpty(dir); err != nil || !empty {
		t.Errorf("IsDirectoryEmpty(new dir) = %v, %v, want true, nil", empty, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configure"), nil, 0755); err != nil {
		t.Fatal(err)
	}
	if empty, err := IsDirectoryEmpty(dir); err != nil || empty {
		t.Errorf("IsDirectoryEmpty(non-empty) = %v, %v, want false, nil", empty, err)
	}
	if _, err := IsDirectoryEmpty(filepath.Join(dir, "missing")); err == nil {
		t.Errorf("IsDirectoryEmpty(missing) succeeded")
	}
}
