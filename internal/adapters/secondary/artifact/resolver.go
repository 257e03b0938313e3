package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"credit-scoring-api/internal/core/domain"
)

var errFound = errors.New("artifact found")

// Resolver locates artifact files: first beside each base directory in order,
// then by a recursive scan of SearchRoot.
type Resolver struct {
	Fs         afero.Fs
	BaseDirs   []string
	SearchRoot string
}

// NewResolver builds a resolver over the OS filesystem. Empty arguments fall back to
// the directory of the running executable, its parent and the working directory,
// with the scan rooted at the executable's parent directory.
func NewResolver(baseDirs []string, searchRoot string) *Resolver {
	if len(baseDirs) == 0 || searchRoot == "" {
		defaults, root := defaultLocations()
		if len(baseDirs) == 0 {
			baseDirs = defaults
		}
		if searchRoot == "" {
			searchRoot = root
		}
	}
	return &Resolver{Fs: afero.NewOsFs(), BaseDirs: baseDirs, SearchRoot: searchRoot}
}

func defaultLocations() ([]string, string) {
	var dirs []string
	root := "."

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Dir(exeDir))
		root = filepath.Dir(exeDir)
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
		if root == "." {
			root = wd
		}
	}
	return dirs, root
}

// Resolve returns the path of the first existing regular file named filename.
func (r *Resolver) Resolve(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: empty file name", domain.ErrArtifactNotFound)
	}

	// An absolute or explicit relative path is taken as given.
	if strings.ContainsRune(filename, filepath.Separator) {
		if r.isFile(filename) {
			return filename, nil
		}
		return "", fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, filename)
	}

	for _, dir := range r.BaseDirs {
		candidate := filepath.Join(dir, filename)
		if r.isFile(candidate) {
			log.WithField("path", candidate).Debug("artifact resolved")
			return candidate, nil
		}
	}

	if r.SearchRoot != "" {
		if path, ok := r.scan(filename); ok {
			log.WithFields(log.Fields{"path": path, "root": r.SearchRoot}).Debug("artifact resolved by scan")
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s (searched %s and under %s)",
		domain.ErrArtifactNotFound, filename, strings.Join(r.BaseDirs, ", "), r.SearchRoot)
}

func (r *Resolver) scan(filename string) (string, bool) {
	var found string
	err := afero.Walk(r.Fs, r.SearchRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// unreadable entries are skipped, not fatal
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path != r.SearchRoot && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() == filename && info.Mode().IsRegular() {
			found = path
			return errFound
		}
		return nil
	})
	return found, errors.Is(err, errFound)
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.Fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Open resolves filename and opens it for reading.
func (r *Resolver) Open(filename string) (afero.File, string, error) {
	path, err := r.Resolve(filename)
	if err != nil {
		return nil, "", err
	}
	f, err := r.Fs.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return f, path, nil
}
