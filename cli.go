package zb

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mgenware/zmq-builder/io2"
)

// ArchPolicy decides what happens to a (platform, arch) pair that is listed
// for a platform but has no build plan.
type ArchPolicy string

const (
	// Log a warning and continue with the next pair.
	ArchPolicySkip ArchPolicy = "skip"
	// Abort the whole run.
	ArchPolicyFail ArchPolicy = "fail"
)

type Config struct {
	// Repository root. Every default path below is relative to it.
	RootDir string
	Version string

	// Scratch dir, deleted before and after a run.
	BuildDir string
	// Extracted libzmq tree inside BuildDir.
	SrcDir  string
	DistDir string
	// Pre-built libsodium, one ${Platform} subdir each.
	SodiumDir string
	PatchFile string
	// Sibling project receiving the libraries on `publish`.
	ConsumerDir string

	// Empty means every platform.
	Platforms []PlatformEnum
	// Empty means every arch of the platform.
	Arch ArchEnum

	MinVersions map[PlatformEnum]string
	Jobs        int
	ArchPolicy  ArchPolicy
	KeepBuild   bool

	// Environment build commands are derived from.
	BaseEnv []string
}

func DefaultConfig(rootDir string) *Config {
	buildDir := filepath.Join(rootDir, "libzmq_build")
	return &Config{
		RootDir:     rootDir,
		Version:     LibVersion,
		BuildDir:    buildDir,
		SrcDir:      filepath.Join(buildDir, "libzmq"),
		DistDir:     filepath.Join(rootDir, "dist"),
		SodiumDir:   filepath.Join(rootDir, "libsodium-ios", "libsodium_dist"),
		PatchFile:   filepath.Join(rootDir, "patches", "platform-patched.hpp"),
		ConsumerDir: filepath.Join(rootDir, "..", "SwiftyZeroMQ"),
		MinVersions: map[PlatformEnum]string{},
		Jobs:        runtime.NumCPU(),
		ArchPolicy:  ArchPolicySkip,
		BaseEnv:     os.Environ(),
	}
}

// TargetPlatforms returns the platforms selected by the config.
func (cfg *Config) TargetPlatforms() []PlatformEnum {
	if len(cfg.Platforms) > 0 {
		return cfg.Platforms
	}
	return AllPlatforms
}

// TargetArchs returns the archs to attempt for platform, in build order.
func (cfg *Config) TargetArchs(platform PlatformEnum) []ArchEnum {
	if cfg.Arch != "" {
		return []ArchEnum{cfg.Arch}
	}
	return PlatformArchs[platform]
}

func (cfg *Config) wantsPlatform(platform PlatformEnum) bool {
	for _, p := range cfg.TargetPlatforms() {
		if p == platform {
			return true
		}
	}
	return false
}

type CLIAction string

const (
	// Download, build, merge.
	CLIActionBuild CLIAction = "build"
	// Copy dist libraries to the consumer project.
	CLIActionPublish CLIAction = "publish"
	// Print the archs of every dist library.
	CLIActionArchs CLIAction = "archs"
)

var SupportedCLIActions = map[CLIAction]bool{
	CLIActionBuild:   true,
	CLIActionPublish: true,
	CLIActionArchs:   true,
}

type CLIArgs struct {
	Action CLIAction
	Config *Config
}

// ParseCLIArgs parses args (without the program name).
func ParseCLIArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("zmqb", flag.ContinueOnError)
	rootPtr := fs.String("root", ".", "Repository root.")
	versionPtr := fs.String("version", LibVersion, "libzmq version.")
	platformPtr := fs.String("platform", "", "Comma separated platforms. Supported platforms: ios, macos, tvos, watchos.")
	archPtr := fs.String("arch", "", "Arch. If not specified, all archs of each platform will be built.")
	sodiumPtr := fs.String("sodium", "", "Pre-built libsodium dir. Defaults to <root>/libsodium-ios/libsodium_dist.")
	consumerPtr := fs.String("consumer", "", "Consumer project dir used by `publish`. Defaults to <root>/../SwiftyZeroMQ.")
	jobsPtr := fs.Int("jobs", runtime.NumCPU(), "Number of parallel make jobs.")
	strictPtr := fs.Bool("strict", false, "Fail instead of skipping archs that have no build plan.")
	keepPtr := fs.Bool("keep-build", false, "Keep the scratch build dir.")
	iosMinPtr := fs.String("ios-min", MinIosVersion, "Min iOS version.")
	macosMinPtr := fs.String("macos-min", MinMacosVersion, "Min macOS version.")
	tvosMinPtr := fs.String("tvos-min", MinTvosVersion, "Min tvOS version.")
	watchosMinPtr := fs.String("watchos-min", MinWatchosVersion, "Min watchOS version.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	action := CLIActionBuild
	if fs.NArg() > 0 {
		action = CLIAction(fs.Arg(0))
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if !SupportedCLIActions[action] {
		return nil, fmt.Errorf("unsupported action: %v", action)
	}

	root, err := io2.ResolvePath(*rootPtr)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig(root)
	if *versionPtr == "" {
		return nil, fmt.Errorf("empty version")
	}
	cfg.Version = *versionPtr

	// Validate platforms.
	if *platformPtr != "" {
		for _, s := range strings.Split(*platformPtr, ",") {
			platform := PlatformEnum(strings.TrimSpace(s))
			if !SupportedPlatforms[platform] {
				return nil, fmt.Errorf("unsupported platform: %v", string(platform))
			}
			cfg.Platforms = append(cfg.Platforms, platform)
		}
	}
	// Validate arch.
	if *archPtr != "" {
		if !SupportedArchs[ArchEnum(*archPtr)] {
			return nil, fmt.Errorf("unsupported arch: %v", *archPtr)
		}
		cfg.Arch = ArchEnum(*archPtr)
	}
	if *jobsPtr < 1 {
		return nil, fmt.Errorf("invalid number of jobs: %v", *jobsPtr)
	}
	cfg.Jobs = *jobsPtr

	if *sodiumPtr != "" {
		if cfg.SodiumDir, err = io2.ResolvePath(*sodiumPtr); err != nil {
			return nil, err
		}
	}
	if *consumerPtr != "" {
		if cfg.ConsumerDir, err = io2.ResolvePath(*consumerPtr); err != nil {
			return nil, err
		}
	}
	if *strictPtr {
		cfg.ArchPolicy = ArchPolicyFail
	}
	cfg.KeepBuild = *keepPtr
	cfg.MinVersions = map[PlatformEnum]string{
		PlatformIos:     *iosMinPtr,
		PlatformMacos:   *macosMinPtr,
		PlatformTvos:    *tvosMinPtr,
		PlatformWatchos: *watchosMinPtr,
	}

	return &CLIArgs{
		Action: action,
		Config: cfg,
	}, nil
}
