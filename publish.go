package zb

import (
	"fmt"
	"path/filepath"

	"github.com/mgenware/zmq-builder/io2"
)

// GetConsumerLibPath returns where the consumer project expects the library
// of platform.
// Example: ${Consumer}/Libraries/libzmq-ios.a
func GetConsumerLibPath(consumerDir string, platform PlatformEnum) string {
	return filepath.Join(consumerDir, "Libraries", "libzmq-"+string(platform)+".a")
}

// Publish copies the dist library of every platform into the consumer
// project. A platform missing from dist is an error.
func Publish(runner Runner, log Logger, distDir, consumerDir string, platforms []PlatformEnum) error {
	log.Progress(fmt.Sprintf("Copying to %s...", consumerDir))
	libsDir := filepath.Join(consumerDir, "Libraries")
	if err := io2.Mkdirp(libsDir); err != nil {
		return err
	}

	for _, platform := range platforms {
		src := GetDistLibPath(distDir, platform)
		if !io2.FileExists(src) {
			return fmt.Errorf("library for %s not found: %s", platform, src)
		}
		if err := runner.Spawn(&Command{
			Name: "cp",
			Args: []string{src, GetConsumerLibPath(consumerDir, platform)},
		}); err != nil {
			return err
		}
	}
	return nil
}
