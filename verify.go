package zb

import (
	"fmt"
	"slices"
	"strings"
)

// LipoArchs returns the architectures embedded in file, sorted.
func LipoArchs(runner Runner, lipo, file string) ([]ArchEnum, error) {
	output, err := runner.Output(&Command{Name: lipo, Args: []string{"-archs", file}})
	if err != nil {
		return nil, err
	}
	var archs []ArchEnum
	for _, field := range strings.Fields(output) {
		archs = append(archs, ArchEnum(field))
	}
	slices.Sort(archs)
	return archs, nil
}

// VerifyArchs checks that file contains exactly the expected architectures.
func VerifyArchs(runner Runner, lipo, file string, expected []ArchEnum) error {
	actual, err := LipoArchs(runner, lipo, file)
	if err != nil {
		return err
	}
	want := slices.Clone(expected)
	slices.Sort(want)
	if !slices.Equal(actual, want) {
		return fmt.Errorf("unexpected archs in %s: %v, expected: %v", file, actual, want)
	}
	return nil
}
