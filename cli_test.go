package zb

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCLIArgsDefaults(t *testing.T) {
	root := t.TempDir()
	args, err := ParseCLIArgs([]string{"-root", root})
	if err != nil {
		t.Fatal(err)
	}
	if args.Action != CLIActionBuild {
		t.Errorf("Action = %q, want build", args.Action)
	}
	cfg := args.Config
	if cfg.Version != LibVersion {
		t.Errorf("Version = %q, want %q", cfg.Version, LibVersion)
	}
	if cfg.ArchPolicy != ArchPolicySkip {
		t.Errorf("ArchPolicy = %q, want skip", cfg.ArchPolicy)
	}
	if cfg.DistDir != filepath.Join(root, "dist") {
		t.Errorf("DistDir = %q", cfg.DistDir)
	}
	if cfg.SrcDir != filepath.Join(cfg.BuildDir, "libzmq") {
		t.Errorf("SrcDir = %q, want inside %q", cfg.SrcDir, cfg.BuildDir)
	}
	if diff := cmp.Diff(AllPlatforms, cfg.TargetPlatforms()); diff != "" {
		t.Errorf("TargetPlatforms mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(PlatformArchs[PlatformIos], cfg.TargetArchs(PlatformIos)); diff != "" {
		t.Errorf("TargetArchs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCLIArgs(t *testing.T) {
	root := t.TempDir()
	args, err := ParseCLIArgs([]string{
		"-root", root,
		"-platform", "ios, tvos",
		"-arch", "arm64",
		"-strict",
		"-keep-build",
		"-jobs", "3",
		"-ios-min", "10.0",
		"-sodium", filepath.Join(root, "sodium"),
		"publish",
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := args.Config
	if args.Action != CLIActionPublish {
		t.Errorf("Action = %q, want publish", args.Action)
	}
	if diff := cmp.Diff([]PlatformEnum{PlatformIos, PlatformTvos}, cfg.TargetPlatforms()); diff != "" {
		t.Errorf("TargetPlatforms mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ArchEnum{ArchArm64}, cfg.TargetArchs(PlatformTvos)); diff != "" {
		t.Errorf("TargetArchs mismatch (-want +got):\n%s", diff)
	}
	if cfg.ArchPolicy != ArchPolicyFail || !cfg.KeepBuild || cfg.Jobs != 3 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.MinVersions[PlatformIos] != "10.0" || cfg.MinVersions[PlatformTvos] != MinTvosVersion {
		t.Errorf("MinVersions = %v", cfg.MinVersions)
	}
	if cfg.SodiumDir != filepath.Join(root, "sodium") {
		t.Errorf("SodiumDir = %q", cfg.SodiumDir)
	}
}

func TestParseCLIArgsErrors(t *testing.T) {
	tests := [][]string{
		{"-platform", "android"},
		{"-arch", "arm64e"},
		{"-jobs", "0"},
		{"deploy"},
		{"build", "extra"},
		{"-version", ""},
	}
	for _, args := range tests {
		if _, err := ParseCLIArgs(args); err == nil {
			t.Errorf("ParseCLIArgs(%q) succeeded, want error", args)
		}
	}
}
