package zb

import (
	"errors"
	"fmt"
	"os"

	"github.com/mgenware/zmq-builder/io2"
)

type State int

const (
	StateInit State = iota
	StateDiscover
	StateStage
	StateBuild
	StateAssemble
	StateCleanup
	StateDone
	StateAborted
)

var stateNames = map[State]string{
	StateInit:     "init",
	StateDiscover: "discover",
	StateStage:    "stage",
	StateBuild:    "build",
	StateAssemble: "assemble",
	StateCleanup:  "cleanup",
	StateDone:     "done",
	StateAborted:  "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Pipeline drives a full build. It runs everything sequentially and stops at
// the first fatal error.
type Pipeline struct {
	cfg    *Config
	runner Runner
	log    Logger

	state     State
	toolchain *Toolchain
	// Platforms to build, in discovery order.
	platforms []PlatformEnum
	// Accumulated lib paths and archs per platform. Entries are dropped once
	// the platform is assembled.
	libs  map[PlatformEnum][]string
	archs map[PlatformEnum][]ArchEnum

	artifacts []*DistributionArtifact
}

func NewPipeline(cfg *Config, runner Runner, log Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		runner: runner,
		log:    log,
		libs:   map[PlatformEnum][]string{},
		archs:  map[PlatformEnum][]ArchEnum{},
	}
}

func (p *Pipeline) State() State {
	return p.state
}

// Artifacts returns the platforms written to the dist dir.
func (p *Pipeline) Artifacts() []*DistributionArtifact {
	return p.artifacts
}

// Run executes every stage. On failure the pipeline ends in StateAborted and
// the scratch dir is left in place.
func (p *Pipeline) Run() error {
	steps := []struct {
		state State
		fn    func() error
	}{
		{StateInit, p.init},
		{StateDiscover, p.discover},
		{StateStage, p.stage},
		{StateBuild, p.build},
		{StateAssemble, p.assemble},
		{StateCleanup, p.cleanup},
	}
	for _, step := range steps {
		p.state = step.state
		if err := step.fn(); err != nil {
			p.state = StateAborted
			return fmt.Errorf("%v: %w", step.state, err)
		}
	}
	p.state = StateDone
	return nil
}

func (p *Pipeline) init() error {
	if err := io2.CleanDir(p.cfg.BuildDir); err != nil {
		return err
	}
	return io2.CleanDir(p.cfg.DistDir)
}

func (p *Pipeline) discover() error {
	tc, err := DiscoverToolchain(p.runner)
	if err != nil {
		return err
	}
	p.toolchain = tc

	for _, sdk := range tc.SDKs {
		p.log.Progress(fmt.Sprintf("Found %s SDK %s", sdk.Platform, sdk.Version))
		if p.cfg.wantsPlatform(sdk.Platform) {
			p.platforms = append(p.platforms, sdk.Platform)
		}
	}
	for _, platform := range p.cfg.TargetPlatforms() {
		if tc.SDKVersion(platform) == "" {
			p.log.Warn(fmt.Sprintf("SDK for %s not found, skipping", platform))
		}
	}
	if len(p.platforms) == 0 {
		found := make([]PlatformEnum, 0, len(tc.SDKs))
		for _, sdk := range tc.SDKs {
			found = append(found, sdk.Platform)
		}
		return fmt.Errorf("%w: selected %v, installed %v", ErrNoTargetPlatforms, p.cfg.TargetPlatforms(), found)
	}
	return nil
}

func (p *Pipeline) stage() error {
	return StageSource(p.runner, p.log, NewZmqRepo(p.cfg.Version), p.cfg.BuildDir, p.cfg.SrcDir)
}

func (p *Pipeline) build() error {
	table := NewPlanTable(p.toolchain, p.cfg.SodiumDir, p.cfg.MinVersions)

	for _, platform := range p.platforms {
		sodiumDir := GetSodiumPlatformDir(p.cfg.SodiumDir, platform)
		if !io2.DirectoryExists(sodiumDir) {
			return fmt.Errorf("libsodium for %s not found at %s", platform, sodiumDir)
		}

		for _, arch := range p.cfg.TargetArchs(platform) {
			profile, err := table.Resolve(platform, arch)
			if err != nil {
				var unsupported *UnsupportedError
				if errors.As(err, &unsupported) && p.cfg.ArchPolicy != ArchPolicyFail {
					p.log.Warn(fmt.Sprintf("Unsupported architecture %s for %s, skipping", arch, platform))
					continue
				}
				return err
			}

			p.log.Progress(fmt.Sprintf("Building %s/%s...", platform, arch))
			ctx := NewBuildContext(&BuildContextInitOptions{
				Runner:    p.runner,
				Log:       p.log,
				Toolchain: p.toolchain,
				Profile:   profile,
				BuildDir:  p.cfg.BuildDir,
				SrcDir:    p.cfg.SrcDir,
				SodiumDir: p.cfg.SodiumDir,
				PatchFile: p.cfg.PatchFile,
				Jobs:      p.cfg.Jobs,
				BaseEnv:   p.cfg.BaseEnv,
			})
			out, err := ctx.Build()
			if err != nil {
				return fmt.Errorf("building %s/%s: %w", platform, arch, err)
			}
			p.libs[platform] = append(p.libs[platform], out.LibPath)
			p.archs[platform] = append(p.archs[platform], out.Arch)
		}
	}
	return nil
}

func (p *Pipeline) assemble() error {
	asm := &Assembler{
		Runner:   p.runner,
		Log:      p.log,
		Lipo:     p.toolchain.Lipo,
		BuildDir: p.cfg.BuildDir,
		DistDir:  p.cfg.DistDir,
	}
	for _, platform := range p.platforms {
		artifact, err := asm.Assemble(platform, p.libs[platform])
		if err != nil {
			return fmt.Errorf("assembling %s: %w", platform, err)
		}
		if artifact != nil {
			if err := VerifyArchs(p.runner, p.toolchain.Lipo, artifact.LibPath, p.archs[platform]); err != nil {
				return err
			}
			p.artifacts = append(p.artifacts, artifact)
		}
		delete(p.libs, platform)
		delete(p.archs, platform)
	}
	return nil
}

func (p *Pipeline) cleanup() error {
	if p.cfg.KeepBuild {
		return nil
	}
	return os.RemoveAll(p.cfg.BuildDir)
}
