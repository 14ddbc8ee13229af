package zb

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoSDKs is returned when the toolchain reports none of the supported SDKs.
var ErrNoSDKs = errors.New("no supported SDKs found")

// ErrNoTargetPlatforms is returned when SDKs exist but none of them belongs
// to a selected platform.
var ErrNoTargetPlatforms = errors.New("no SDK installed for any selected platform")

// SDKInfo is one discovered platform SDK.
type SDKInfo struct {
	Platform PlatformEnum
	// Example: 14.0
	Version string
}

// Toolchain holds the paths queried from the installed Xcode.
type Toolchain struct {
	// Example: /Applications/Xcode.app/Contents/Developer
	DeveloperDir string
	// Example: /Applications/Xcode.app/Contents/Developer/Toolchains/XcodeDefault.xctoolchain/usr/bin/lipo
	Lipo string
	// In discovery order.
	SDKs []SDKInfo
}

// SDKVersion returns the discovered SDK version of platform, or "".
func (tc *Toolchain) SDKVersion(platform PlatformEnum) string {
	for _, sdk := range tc.SDKs {
		if sdk.Platform == platform {
			return sdk.Version
		}
	}
	return ""
}

// BinDirs returns the toolchain executable dirs to put in front of PATH.
func (tc *Toolchain) BinDirs() []string {
	root := filepath.Join(tc.DeveloperDir, "Toolchains", "XcodeDefault.xctoolchain")
	return []string{filepath.Join(root, "usr", "bin"), filepath.Join(root, "usr", "sbin")}
}

// DiscoverToolchain queries the developer dir, the lipo path and the list of
// installed SDKs. Any failing query is fatal.
func DiscoverToolchain(runner Runner) (*Toolchain, error) {
	devDir, err := runner.Output(&Command{Name: "xcode-select", Args: []string{"-print-path"}})
	if err != nil {
		return nil, fmt.Errorf("locating developer dir: %w", err)
	}
	if devDir == "" {
		return nil, errors.New("xcode-select returned an empty developer dir")
	}
	lipo, err := runner.Output(&Command{Name: "xcrun", Args: []string{"-sdk", "iphoneos", "-find", "lipo"}})
	if err != nil {
		return nil, fmt.Errorf("locating lipo: %w", err)
	}
	if lipo == "" {
		return nil, errors.New("xcrun could not find lipo")
	}
	sdks, err := DiscoverSDKs(runner)
	if err != nil {
		return nil, err
	}
	return &Toolchain{
		DeveloperDir: devDir,
		Lipo:         lipo,
		SDKs:         sdks,
	}, nil
}

// DiscoverSDKs runs `xcodebuild -showsdks` and parses its output.
func DiscoverSDKs(runner Runner) ([]SDKInfo, error) {
	output, err := runner.Output(&Command{Name: "xcodebuild", Args: []string{"-showsdks"}})
	if err != nil {
		return nil, fmt.Errorf("listing SDKs: %w", err)
	}
	sdks := ParseSDKList(output)
	if len(sdks) == 0 {
		return nil, ErrNoSDKs
	}
	return sdks, nil
}

// ParseSDKList extracts the highest version of each supported platform SDK
// from `xcodebuild -showsdks` output. Platforms are returned in the order
// they first appear.
//
// Sample lines:
//
//	iOS 14.0                      	-sdk iphoneos14.0
//	iOS Simulator 14.0            	-sdk iphonesimulator14.0
//	macOS 11.0                    	-sdk macosx11.0
func ParseSDKList(output string) []SDKInfo {
	var sdks []SDKInfo
	index := map[PlatformEnum]int{}
	for _, line := range strings.Split(output, "\n") {
		platform, version, ok := parseSDKLine(line)
		if !ok {
			continue
		}
		if i, found := index[platform]; found {
			if compareVersions(version, sdks[i].Version) > 0 {
				sdks[i].Version = version
			}
			continue
		}
		index[platform] = len(sdks)
		sdks = append(sdks, SDKInfo{Platform: platform, Version: version})
	}
	return sdks
}

func parseSDKLine(line string) (PlatformEnum, string, bool) {
	fields := strings.Fields(line)
	for i, field := range fields {
		if field != "-sdk" || i+1 >= len(fields) {
			continue
		}
		name := fields[i+1]
		for _, platform := range AllPlatforms {
			prefix := PlatformSDKNames[platform]
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			version := strings.TrimPrefix(name, prefix)
			// Rejects internal SDK names like `macosx.internal`.
			if !isVersion(version) {
				continue
			}
			return platform, version, true
		}
	}
	return "", "", false
}

func isVersion(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}

// compareVersions compares dotted numeric versions. Both must satisfy isVersion.
func compareVersions(a, b string) int {
	ap := strings.Split(a, ".")
	bp := strings.Split(b, ".")
	for i := 0; i < len(ap) || i < len(bp); i++ {
		var x, y int
		if i < len(ap) {
			x, _ = strconv.Atoi(ap[i])
		}
		if i < len(bp) {
			y, _ = strconv.Atoi(bp[i])
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}
