package zb

import (
	"fmt"
	"path/filepath"

	"github.com/mgenware/zmq-builder/io2"
)

// DistributionArtifact is the final output of one platform.
type DistributionArtifact struct {
	Platform PlatformEnum
	// ${DistDir}/${Platform}/lib/libzmq.a
	LibPath string
	// ${DistDir}/${Platform}/include
	IncludeDir string
}

type Assembler struct {
	Runner Runner
	Log    Logger
	// Path of the lipo executable.
	Lipo     string
	BuildDir string
	DistDir  string
}

// Assemble merges libs into one universal library for platform and copies
// the headers next to it. It returns nil without error when libs is empty.
func (a *Assembler) Assemble(platform PlatformEnum, libs []string) (*DistributionArtifact, error) {
	if len(libs) == 0 {
		a.Log.Warn(fmt.Sprintf("No libraries built for %s, skipping", platform))
		return nil, nil
	}

	distPlatformDir := GetPlatformDistDir(a.DistDir, platform)
	distLibPath := GetDistLibPath(a.DistDir, platform)
	if err := io2.Mkdirp(filepath.Dir(distLibPath)); err != nil {
		return nil, err
	}

	a.Log.Progress(fmt.Sprintf("Creating universal %s for %s...", LibFileName, platform))
	// lipo
	var lipoArgs []string
	lipoArgs = append(lipoArgs, "-create")
	lipoArgs = append(lipoArgs, libs...)
	lipoArgs = append(lipoArgs, "-output", distLibPath)
	if err := a.Runner.Spawn(&Command{Name: a.Lipo, Args: lipoArgs}); err != nil {
		return nil, err
	}

	includeDir, err := a.copyHeaders(platform, distPlatformDir)
	if err != nil {
		return nil, err
	}
	return &DistributionArtifact{
		Platform:   platform,
		LibPath:    distLibPath,
		IncludeDir: includeDir,
	}, nil
}

// Headers are the same for every arch, the first arch dir with an include
// dir wins.
func (a *Assembler) copyHeaders(platform PlatformEnum, distPlatformDir string) (string, error) {
	platformBuildDir := GetPlatformBuildDir(a.BuildDir, platform)
	archDirs, err := io2.SubDirs(platformBuildDir)
	if err != nil {
		return "", err
	}
	for _, name := range archDirs {
		src := filepath.Join(platformBuildDir, name, "include")
		if !io2.DirectoryExists(src) {
			continue
		}
		a.Log.Progress(fmt.Sprintf("Copying %s headers from %s...", platform, name))
		if err := a.Runner.Spawn(&Command{
			Name: "cp",
			Args: []string{"-R", src, distPlatformDir + "/"},
		}); err != nil {
			return "", err
		}
		return filepath.Join(distPlatformDir, "include"), nil
	}
	a.Log.Warn(fmt.Sprintf("No headers found for %s", platform))
	return "", nil
}
