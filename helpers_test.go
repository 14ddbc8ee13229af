package zb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDeveloperDir = "/Applications/Xcode.app/Contents/Developer"
const testLipo = testDeveloperDir + "/Toolchains/XcodeDefault.xctoolchain/usr/bin/lipo"

const testShowSDKs = `iOS SDKs:
	iOS 14.0                      	-sdk iphoneos14.0

iOS Simulator SDKs:
	Simulator - iOS 14.0          	-sdk iphonesimulator14.0

macOS SDKs:
	macOS 11.0                    	-sdk macosx11.0
`

// fakeRunner records every command instead of running it.
type fakeRunner struct {
	cmds []*Command
	// Called for Spawn. Nil succeeds.
	spawn func(cmd *Command) error
	// Called for Output. Nil returns "".
	output func(cmd *Command) (string, error)
}

func (r *fakeRunner) Spawn(cmd *Command) error {
	r.cmds = append(r.cmds, cmd)
	if r.spawn != nil {
		return r.spawn(cmd)
	}
	return nil
}

func (r *fakeRunner) Output(cmd *Command) (string, error) {
	r.cmds = append(r.cmds, cmd)
	if r.output != nil {
		return r.output(cmd)
	}
	return "", nil
}

// commandsNamed returns the recorded commands whose base name is name.
func (r *fakeRunner) commandsNamed(name string) []*Command {
	var res []*Command
	for _, cmd := range r.cmds {
		if filepath.Base(cmd.Name) == name {
			res = append(res, cmd)
		}
	}
	return res
}

type recordLogger struct {
	progress []string
	warnings []string
}

func (l *recordLogger) Progress(msg string) {
	l.progress = append(l.progress, msg)
}

func (l *recordLogger) Warn(msg string) {
	l.warnings = append(l.warnings, msg)
}

func (l *recordLogger) hasWarning(substr string) bool {
	for _, w := range l.warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

// xcodeOutput answers the toolchain queries made during discovery and
// `lipo -archs` for libraries merged through lipoArchs.
func xcodeOutput(showSDKs string, lipoArchs map[string][]string) func(cmd *Command) (string, error) {
	return func(cmd *Command) (string, error) {
		switch {
		case cmd.Name == "xcode-select":
			return testDeveloperDir, nil
		case cmd.Name == "xcrun":
			return testLipo, nil
		case cmd.Name == "xcodebuild":
			return showSDKs, nil
		case cmd.Name == testLipo && len(cmd.Args) == 2 && cmd.Args[0] == "-archs":
			return strings.Join(lipoArchs[cmd.Args[1]], " "), nil
		}
		return "", fmt.Errorf("unexpected command: %v", cmd)
	}
}

func testToolchain() *Toolchain {
	return &Toolchain{
		DeveloperDir: testDeveloperDir,
		Lipo:         testLipo,
		SDKs: []SDKInfo{
			{Platform: PlatformIos, Version: "14.0"},
			{Platform: PlatformMacos, Version: "11.0"},
			{Platform: PlatformTvos, Version: "14.0"},
			{Platform: PlatformWatchos, Version: "7.0"},
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func mkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
}

func argValue(args []string, prefix string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return strings.TrimPrefix(arg, prefix)
		}
	}
	return ""
}
