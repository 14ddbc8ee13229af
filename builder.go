package zb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgenware/zmq-builder/io2"
)

// Variables owned by the builder. They are always replaced, never merged with
// values from the base environment.
var builderEnvKeys = []string{
	"DEVELOPER_DIR",
	"SDKROOT",
	"CFLAGS",
	"CXXFLAGS",
	"CPPFLAGS",
	"LDFLAGS",
	"PATH",
}

// BuildOutput is the result of one successful arch build.
type BuildOutput struct {
	Platform PlatformEnum
	Arch     ArchEnum
	// ${ArchDir}/lib/libzmq.a
	LibPath string
	// ${ArchDir}/include
	IncludeDir string
}

type BuildContext struct {
	Runner    Runner
	Log       Logger
	Toolchain *Toolchain
	Profile   *BuildProfile

	// Extracted libzmq tree.
	SrcDir string
	// ArchDir = ${BuildDir}/${Platform}/${Arch}, used as install prefix.
	ArchDir string
	// ${Sodium}/${Platform}
	SodiumDir string
	// Replacement for src/platform.hpp.
	PatchFile string
	Jobs      int

	env []string
}

type BuildContextInitOptions struct {
	Runner    Runner
	Log       Logger
	Toolchain *Toolchain
	Profile   *BuildProfile
	BuildDir  string
	SrcDir    string
	SodiumDir string
	PatchFile string
	Jobs      int
	// Environment the build env is derived from. Never mutated.
	BaseEnv []string
}

func NewBuildContext(opt *BuildContextInitOptions) *BuildContext {
	if opt == nil {
		panic("opt is nil")
	}
	profile := opt.Profile
	jobs := opt.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &BuildContext{
		Runner:    opt.Runner,
		Log:       opt.Log,
		Toolchain: opt.Toolchain,
		Profile:   profile,
		SrcDir:    opt.SrcDir,
		ArchDir:   GetArchBuildDir(opt.BuildDir, profile.Platform, profile.Arch),
		SodiumDir: GetSodiumPlatformDir(opt.SodiumDir, profile.Platform),
		PatchFile: opt.PatchFile,
		Jobs:      jobs,
		env:       BuildEnv(opt.BaseEnv, opt.Toolchain, profile),
	}
}

// BuildEnv derives the complete subprocess environment of profile from base.
// Every builder variable in base is dropped first, so nothing from a previous
// profile can leak in.
func BuildEnv(base []string, toolchain *Toolchain, profile *BuildProfile) []string {
	var basePath string
	env := make([]string, 0, len(base)+len(builderEnvKeys))
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		if key == "PATH" {
			basePath = value
		}
		if isBuilderEnvKey(key) {
			continue
		}
		env = append(env, kv)
	}

	path := strings.Join(toolchain.BinDirs(), ":")
	if basePath != "" {
		path += ":" + basePath
	}
	cflags := io2.JoinCLIFlags(profile.CFlags...)
	return append(env,
		"DEVELOPER_DIR="+toolchain.DeveloperDir,
		"SDKROOT="+profile.SDKRoot,
		"CFLAGS="+cflags,
		"CXXFLAGS="+cflags,
		"CPPFLAGS="+io2.JoinCLIFlags(profile.CPPFlags...),
		"LDFLAGS="+io2.JoinCLIFlags(profile.LDFlags...),
		"PATH="+path,
	)
}

func isBuilderEnvKey(key string) bool {
	for _, k := range builderEnvKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Env returns the environment every build command of this context runs with.
func (ctx *BuildContext) Env() []string {
	return ctx.env
}

func (ctx *BuildContext) OutLibPath() string {
	return filepath.Join(ctx.ArchDir, "lib", LibFileName)
}

func (ctx *BuildContext) OutIncludeDir() string {
	return filepath.Join(ctx.ArchDir, "include")
}

func (ctx *BuildContext) spawn(name string, args ...string) error {
	return ctx.Runner.Spawn(&Command{
		Name:       name,
		Args:       args,
		Env:        ctx.env,
		WorkingDir: ctx.SrcDir,
	})
}

func (ctx *BuildContext) RunConfigure() error {
	return ctx.spawn(filepath.Join(ctx.SrcDir, "configure"),
		"--prefix="+ctx.ArchDir,
		"--disable-shared",
		"--enable-static",
		"--host="+ctx.Profile.Host,
		"--with-libsodium="+ctx.SodiumDir,
	)
}

// ApplyPatch overwrites src/platform.hpp so that clock_gettime, which only
// exists on iOS 10+, is never used.
func (ctx *BuildContext) ApplyPatch() error {
	dst := filepath.Join(ctx.SrcDir, "src", "platform.hpp")
	if err := io2.CopyFile(ctx.PatchFile, dst); err != nil {
		return fmt.Errorf("patching %s: %w", dst, err)
	}
	return nil
}

func (ctx *BuildContext) RunMakeClean() error {
	return ctx.spawn("make", "clean")
}

func (ctx *BuildContext) RunMake() error {
	return ctx.spawn("make", fmt.Sprintf("-j%v", ctx.Jobs), "V=0")
}

func (ctx *BuildContext) RunMakeInstall() error {
	return ctx.spawn("make", "install")
}

// Build configures, patches, compiles and installs libzmq into ArchDir.
// The first failing step aborts the build.
func (ctx *BuildContext) Build() (*BuildOutput, error) {
	p := ctx.Profile
	if err := io2.Mkdirp(ctx.ArchDir); err != nil {
		return nil, err
	}

	ctx.Log.Progress(fmt.Sprintf("Configuring for %s...", p.Arch))
	if err := ctx.RunConfigure(); err != nil {
		return nil, err
	}
	if err := ctx.ApplyPatch(); err != nil {
		return nil, err
	}

	ctx.Log.Progress(fmt.Sprintf("Building %s for %s...", LibFileName, p.Arch))
	if err := ctx.RunMakeClean(); err != nil {
		return nil, err
	}
	if err := ctx.RunMake(); err != nil {
		return nil, err
	}
	if err := ctx.RunMakeInstall(); err != nil {
		return nil, err
	}

	libPath := ctx.OutLibPath()
	if !io2.FileExists(libPath) {
		return nil, fmt.Errorf("make install did not produce %s", libPath)
	}
	return &BuildOutput{
		Platform:   p.Platform,
		Arch:       p.Arch,
		LibPath:    libPath,
		IncludeDir: ctx.OutIncludeDir(),
	}, nil
}
