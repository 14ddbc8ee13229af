package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	zb "github.com/mgenware/zmq-builder"
	"github.com/mgenware/zmq-builder/io2"
)

func main() {
	// This program only runs on macOS.
	if runtime.GOOS != "darwin" {
		fmt.Println("This program only runs on macOS.")
		os.Exit(1)
	}

	cliArgs, err := zb.ParseCLIArgs(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		printUsage()
		os.Exit(2)
	}
	cfg := cliArgs.Config

	tunnel := zb.CreateDefaultTunnel()
	runner := zb.NewTunnelRunner(tunnel)
	log := zb.NewTunnelLogger(tunnel)

	switch cliArgs.Action {
	case zb.CLIActionBuild:
		pipeline := zb.NewPipeline(cfg, runner, log)
		if err := pipeline.Run(); err != nil {
			fail(err)
		}
		for _, artifact := range pipeline.Artifacts() {
			color.Green("%s: %s", artifact.Platform, artifact.LibPath)
		}

	case zb.CLIActionPublish:
		if err := zb.Publish(runner, log, cfg.DistDir, cfg.ConsumerDir, cfg.TargetPlatforms()); err != nil {
			fail(err)
		}
		color.Green("Copied %d libraries to %s", len(cfg.TargetPlatforms()), cfg.ConsumerDir)

	case zb.CLIActionArchs:
		lipo, err := runner.Output(&zb.Command{Name: "xcrun", Args: []string{"-sdk", "iphoneos", "-find", "lipo"}})
		if err != nil {
			fail(err)
		}
		for _, platform := range cfg.TargetPlatforms() {
			file := zb.GetDistLibPath(cfg.DistDir, platform)
			if !io2.FileExists(file) {
				color.Yellow("%s: missing", platform)
				continue
			}
			archs, err := zb.LipoArchs(runner, lipo, file)
			if err != nil {
				fail(err)
			}
			fmt.Printf("%s: %v\n", platform, archs)
		}
	}
}

func fail(err error) {
	color.Red("Error: %v", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Println("Usage: zmqb [options] [action]")
	fmt.Println("Actions:")
	fmt.Println("  build      Download, build and merge libzmq (default)")
	fmt.Println("  publish    Copy dist libraries to the consumer project")
	fmt.Println("  archs      List the archs of each dist library")
	fmt.Println("Options:")
	fmt.Println("  -root      Repository root")
	fmt.Println("  -platform  Comma separated platforms: ios, macos, tvos, watchos")
	fmt.Println("  -arch      Only build the given arch")
	fmt.Println("  -sodium    Pre-built libsodium dir")
	fmt.Println("  -consumer  Consumer project dir")
	fmt.Println("  -jobs      Number of parallel make jobs")
	fmt.Println("  -strict    Fail on archs without a build plan")
	fmt.Println("  -keep-build  Keep the scratch build dir")
}
