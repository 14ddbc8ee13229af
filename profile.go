package zb

import (
	"fmt"
	"path/filepath"
)

const (
	optimizationFlag = "-Os"
	bitcodeFlag      = "-fembed-bitcode"
)

// UnsupportedError is returned for a (platform, arch) pair missing from the
// build plan table.
type UnsupportedError struct {
	Platform PlatformEnum
	Arch     ArchEnum
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported config. Platform: %s, Arch: %s", e.Platform, e.Arch)
}

// Toolchain platform dir of every buildable pair. Pairs not listed here are
// unsupported regardless of what PlatformArchs says.
var planMatrix = map[PlatformEnum]map[ArchEnum]string{
	PlatformIos: {
		ArchArmv7:  "iPhoneOS",
		ArchArmv7s: "iPhoneOS",
		ArchArm64:  "iPhoneOS",
		ArchI386:   "iPhoneSimulator",
		ArchX86_64: "iPhoneSimulator",
	},
	PlatformMacos: {
		ArchX86_64: "MacOSX",
	},
	PlatformTvos: {
		ArchArm64:  "AppleTVOS",
		ArchX86_64: "AppleTVSimulator",
	},
	PlatformWatchos: {
		ArchArmv7k: "WatchOS",
		ArchI386:   "WatchSimulator",
	},
}

var minVersionFlagNames = map[PlatformEnum]string{
	PlatformIos:     "-mios-version-min",
	PlatformMacos:   "-mmacosx-version-min",
	PlatformTvos:    "-mtvos-version-min",
	PlatformWatchos: "-mwatchos-version-min",
}

// BuildProfile is everything needed to configure libzmq for one
// (platform, arch) pair.
type BuildProfile struct {
	Platform PlatformEnum
	Arch     ArchEnum

	// Example: iPhoneSimulator
	PlatformDir string
	// Example: x86_64-apple-darwin
	Host string
	// Example: ${DeveloperDir}/Platforms/iPhoneOS.platform/Developer/SDKs/iPhoneOS14.0.sdk
	SDKRoot    string
	MinVersion string

	CFlags   []string
	CPPFlags []string
	LDFlags  []string
}

// PlanTable resolves build profiles for the discovered toolchain.
type PlanTable struct {
	toolchain   *Toolchain
	sodiumDir   string
	minVersions map[PlatformEnum]string
}

// NewPlanTable creates a plan table. Platforms missing from minVersions use
// MinPlatformVersions.
func NewPlanTable(toolchain *Toolchain, sodiumDir string, minVersions map[PlatformEnum]string) *PlanTable {
	versions := make(map[PlatformEnum]string, len(MinPlatformVersions))
	for p, v := range MinPlatformVersions {
		versions[p] = v
	}
	for p, v := range minVersions {
		if v != "" {
			versions[p] = v
		}
	}
	return &PlanTable{
		toolchain:   toolchain,
		sodiumDir:   sodiumDir,
		minVersions: versions,
	}
}

// IsSupported reports whether the pair has an entry in the plan table.
func IsSupported(platform PlatformEnum, arch ArchEnum) bool {
	_, ok := planMatrix[platform][arch]
	return ok
}

// GetAutoconfHost returns the configure host triple for arch.
func GetAutoconfHost(arch ArchEnum) string {
	if arch == ArchArm64 {
		return "arm-apple-darwin"
	}
	return string(arch) + "-apple-darwin"
}

// GetSDKRoot returns the SDK path for a toolchain platform dir.
func GetSDKRoot(developerDir, platformDir, sdkVersion string) string {
	return filepath.Join(developerDir, "Platforms", platformDir+".platform", "Developer", "SDKs", platformDir+sdkVersion+".sdk")
}

// Resolve returns the profile of the pair, or an *UnsupportedError.
func (pt *PlanTable) Resolve(platform PlatformEnum, arch ArchEnum) (*BuildProfile, error) {
	platformDir, ok := planMatrix[platform][arch]
	if !ok {
		return nil, &UnsupportedError{Platform: platform, Arch: arch}
	}
	sdkVersion := pt.toolchain.SDKVersion(platform)
	if sdkVersion == "" {
		return nil, fmt.Errorf("no SDK discovered for platform %s", platform)
	}

	minVersion := pt.minVersions[platform]
	sdkRoot := GetSDKRoot(pt.toolchain.DeveloperDir, platformDir, sdkVersion)

	common := []string{
		"-arch", string(arch),
		"-isysroot", sdkRoot,
		minVersionFlagNames[platform] + "=" + minVersion,
		optimizationFlag,
		bitcodeFlag,
	}
	ldFlags := []string{
		"-arch", string(arch),
		"-isysroot", sdkRoot,
	}
	if Is32Bit(arch) {
		if IsSimulatorArch(arch) {
			common = append(common, "-m32")
			ldFlags = append(ldFlags, "-m32")
		} else {
			ldFlags = append(ldFlags, "-mthumb")
		}
	}

	cppFlags := append([]string{}, common...)
	cppFlags = append(cppFlags, "-I"+filepath.Join(GetSodiumPlatformDir(pt.sodiumDir, platform), "include"))

	return &BuildProfile{
		Platform:    platform,
		Arch:        arch,
		PlatformDir: platformDir,
		Host:        GetAutoconfHost(arch),
		SDKRoot:     sdkRoot,
		MinVersion:  minVersion,
		CFlags:      common,
		CPPFlags:    cppFlags,
		LDFlags:     ldFlags,
	}, nil
}
