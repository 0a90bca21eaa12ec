package pdf

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandPaths turns the command line inputs into a file list. Files are kept
// in the order given; directories are replaced by the files under them that
// match kind, sorted by path.
func ExpandPaths(inputs []string, kind Kind) ([]string, error) {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		found, err := FindFilesRecursively(input, kind)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// FindFilesRecursively scans a directory for files matching kind
func FindFilesRecursively(directory string, kind Kind) ([]string, error) {
	var files []string
	var err error

	// Use fd if available for better performance, otherwise fall back to filepath.WalkDir
	if isFdAvailable() {
		files, err = findFilesWithFd(directory, kind)
		if err != nil {
			files, err = findFilesWithWalkDir(directory, kind)
		}
	} else {
		files, err = findFilesWithWalkDir(directory, kind)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// isFdAvailable checks if the 'fd' command is available in PATH
func isFdAvailable() bool {
	_, err := exec.LookPath("fd")
	return err == nil
}

func findFilesWithWalkDir(directory string, kind Kind) ([]string, error) {
	var files []string

	err := filepath.WalkDir(directory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if Matches(path, kind) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func findFilesWithFd(directory string, kind Kind) ([]string, error) {
	exts := make([]string, 0, len(Extensions(kind)))
	for _, ext := range Extensions(kind) {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	extPattern := "\\.(" + strings.Join(exts, "|") + ")$"

	cmd := exec.Command("fd", "--type", "f", "--ignore-case", "--no-ignore", "--hidden", extPattern, directory)
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" && Matches(line, kind) {
			files = append(files, line)
		}
	}
	return files, nil
}
