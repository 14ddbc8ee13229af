package zb

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPublish(t *testing.T) {
	root := t.TempDir()
	distDir := filepath.Join(root, "dist")
	consumerDir := filepath.Join(root, "SwiftyZeroMQ")
	for _, platform := range AllPlatforms {
		writeFile(t, GetDistLibPath(distDir, platform), "fat")
	}
	runner := &fakeRunner{}

	if err := Publish(runner, &recordLogger{}, distDir, consumerDir, AllPlatforms); err != nil {
		t.Fatal(err)
	}
	var got [][]string
	for _, cmd := range runner.cmds {
		got = append(got, cmd.Args)
	}
	want := [][]string{
		{filepath.Join(distDir, "ios", "lib", "libzmq.a"), filepath.Join(consumerDir, "Libraries", "libzmq-ios.a")},
		{filepath.Join(distDir, "macos", "lib", "libzmq.a"), filepath.Join(consumerDir, "Libraries", "libzmq-macos.a")},
		{filepath.Join(distDir, "tvos", "lib", "libzmq.a"), filepath.Join(consumerDir, "Libraries", "libzmq-tvos.a")},
		{filepath.Join(distDir, "watchos", "lib", "libzmq.a"), filepath.Join(consumerDir, "Libraries", "libzmq-watchos.a")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cp args mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishMissingPlatform(t *testing.T) {
	root := t.TempDir()
	distDir := filepath.Join(root, "dist")
	writeFile(t, GetDistLibPath(distDir, PlatformIos), "fat")
	runner := &fakeRunner{}

	err := Publish(runner, &recordLogger{}, distDir, filepath.Join(root, "consumer"), AllPlatforms)
	if err == nil || !strings.Contains(err.Error(), GetDistLibPath(distDir, PlatformMacos)) {
		t.Fatalf("Publish error = %v, want missing macos library", err)
	}
	if len(runner.cmds) != 1 {
		t.Errorf("commands = %v, want only the ios copy", runner.cmds)
	}
}
