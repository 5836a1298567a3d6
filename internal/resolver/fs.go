package resolver

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// isAbsent reports whether err only means the entry does not exist. A path
// that runs through a regular file is absent as well.
func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// exists probes path. Only absence is a non-error outcome.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if isAbsent(err) {
		return false, nil
	}
	return false, err
}

// subdirProbe memoizes immediate subdirectory listings for the duration of a
// single resolution.
type subdirProbe struct {
	dirs map[string][]string
}

func newSubdirProbe() *subdirProbe {
	return &subdirProbe{dirs: make(map[string][]string)}
}

// subdirs lists the directories directly inside path, in ReadDir order. A
// missing path has no subdirectories.
func (p *subdirProbe) subdirs(path string) ([]string, error) {
	if dirs, ok := p.dirs[path]; ok {
		return dirs, nil
	}

	dirs := []string{}
	entries, err := os.ReadDir(path)
	if err != nil && !isAbsent(err) {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	p.dirs[path] = dirs
	return dirs, nil
}
