package zb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgenware/zmq-builder/io2"
)

// SourceRepo describes a release archive.
type SourceRepo struct {
	Name    string
	Version string
	Url     string
	// Name of the root directory inside the archive.
	// Example: zeromq-4.1.5
	ArchiveDirName string
}

// NewZmqRepo returns the libzmq release archive of version.
func NewZmqRepo(version string) *SourceRepo {
	tarName := "zeromq-" + version
	return &SourceRepo{
		Name:           "libzmq",
		Version:        version,
		Url:            fmt.Sprintf("https://github.com/zeromq/zeromq4-1/releases/download/v%s/%s.tar.gz", version, tarName),
		ArchiveDirName: tarName,
	}
}

// ArchiveFileName returns the file name the archive is downloaded to.
func (repo *SourceRepo) ArchiveFileName() string {
	return filepath.Base(repo.Url)
}

// StageSource downloads and extracts repo into workDir, then moves the
// extracted tree to srcDir. srcDir must not exist yet.
func StageSource(runner Runner, log Logger, repo *SourceRepo, workDir, srcDir string) error {
	if err := io2.Mkdirp(workDir); err != nil {
		return err
	}
	archive := filepath.Join(workDir, repo.ArchiveFileName())

	log.Progress(fmt.Sprintf("Downloading %s %s...", repo.Name, repo.Version))
	if err := runner.Spawn(&Command{
		Name:       "curl",
		Args:       []string{"-f", "-L", "-o", archive, repo.Url},
		WorkingDir: workDir,
	}); err != nil {
		return fmt.Errorf("downloading %s: %w", repo.Url, err)
	}

	if err := runner.Spawn(&Command{
		Name:       "tar",
		Args:       []string{"-xzf", archive},
		WorkingDir: workDir,
	}); err != nil {
		return fmt.Errorf("extracting %s: %w", archive, err)
	}

	extracted := filepath.Join(workDir, repo.ArchiveDirName)
	if !io2.DirectoryExists(extracted) {
		return fmt.Errorf("expected directory %s not found after extracting %s", extracted, archive)
	}
	empty, err := io2.IsDirectoryEmpty(extracted)
	if err != nil {
		return err
	}
	if empty {
		return fmt.Errorf("%s extracted to an empty directory %s", archive, extracted)
	}
	if err := os.Rename(extracted, srcDir); err != nil {
		return err
	}
	return os.Remove(archive)
}
