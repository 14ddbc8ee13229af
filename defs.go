package zb

import "path/filepath"

// Pinned libzmq release.
const LibVersion = "4.1.5"

// Example: libzmq.a
const LibFileName = "libzmq.a"

const (
	MinIosVersion     = "9.0"
	MinMacosVersion   = "10.11"
	MinTvosVersion    = "9.0"
	MinWatchosVersion = "2.0"
)

type PlatformEnum string

const (
	PlatformIos     PlatformEnum = "ios"
	PlatformMacos   PlatformEnum = "macos"
	PlatformTvos    PlatformEnum = "tvos"
	PlatformWatchos PlatformEnum = "watchos"
)

// AllPlatforms lists every platform in the order the consumer expects them.
var AllPlatforms = []PlatformEnum{
	PlatformIos,
	PlatformMacos,
	PlatformTvos,
	PlatformWatchos,
}

var SupportedPlatforms = map[PlatformEnum]bool{
	PlatformIos:     true,
	PlatformMacos:   true,
	PlatformTvos:    true,
	PlatformWatchos: true,
}

type ArchEnum string

const (
	ArchArmv7  ArchEnum = "armv7"
	ArchArmv7s ArchEnum = "armv7s"
	ArchArmv7k ArchEnum = "armv7k"
	ArchArm64  ArchEnum = "arm64"
	ArchI386   ArchEnum = "i386"
	ArchX86_64 ArchEnum = "x86_64"
)

var SupportedArchs = map[ArchEnum]bool{
	ArchArmv7:  true,
	ArchArmv7s: true,
	ArchArmv7k: true,
	ArchArm64:  true,
	ArchI386:   true,
	ArchX86_64: true,
}

// PlatformArchs is the nominal arch list of each platform, in build order.
// It is what the pipeline attempts; whether a pair is actually buildable is
// decided by the plan table alone.
var PlatformArchs = map[PlatformEnum][]ArchEnum{
	PlatformIos:     {ArchArmv7, ArchArmv7s, ArchArm64, ArchI386, ArchX86_64},
	PlatformMacos:   {ArchX86_64, ArchI386},
	PlatformTvos:    {ArchArm64, ArchX86_64},
	PlatformWatchos: {ArchArmv7k, ArchI386},
}

// SDK name prefixes as printed by `xcodebuild -showsdks`.
var PlatformSDKNames = map[PlatformEnum]string{
	PlatformIos:     "iphoneos",
	PlatformMacos:   "macosx",
	PlatformTvos:    "appletvos",
	PlatformWatchos: "watchos",
}

var MinPlatformVersions = map[PlatformEnum]string{
	PlatformIos:     MinIosVersion,
	PlatformMacos:   MinMacosVersion,
	PlatformTvos:    MinTvosVersion,
	PlatformWatchos: MinWatchosVersion,
}

// Is32Bit reports whether arch is a 32-bit architecture.
func Is32Bit(arch ArchEnum) bool {
	switch arch {
	case ArchArmv7, ArchArmv7s, ArchArmv7k, ArchI386:
		return true
	}
	return false
}

// IsSimulatorArch reports whether arch runs on the host (simulator or desktop)
// rather than on a device.
func IsSimulatorArch(arch ArchEnum) bool {
	return arch == ArchI386 || arch == ArchX86_64
}

// ${BuildDir}/${Platform}
func GetPlatformBuildDir(buildDir string, platform PlatformEnum) string {
	return filepath.Join(buildDir, string(platform))
}

// ${BuildDir}/${Platform}/${Arch}
func GetArchBuildDir(buildDir string, platform PlatformEnum, arch ArchEnum) string {
	return filepath.Join(GetPlatformBuildDir(buildDir, platform), string(arch))
}

// ${DistDir}/${Platform}
func GetPlatformDistDir(distDir string, platform PlatformEnum) string {
	return filepath.Join(distDir, string(platform))
}

// ${DistDir}/${Platform}/lib/libzmq.a
func GetDistLibPath(distDir string, platform PlatformEnum) string {
	return filepath.Join(GetPlatformDistDir(distDir, platform), "lib", LibFileName)
}

// ${Sodium}/${Platform}
func GetSodiumPlatformDir(sodiumDir string, platform PlatformEnum) string {
	return filepath.Join(sodiumDir, string(platform))
}
