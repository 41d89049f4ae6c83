// Package walker implements C6: recursive enumeration of candidate source
// files under an indexed root, honouring a default exclusion-token set
// plus optional per-root supplements from a .xrayignore file.
package walker

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codeintel/xray/internal/lang"
)

// DefaultExclusions are directory names skipped regardless of location:
// version-control metadata, language virtual-env/cache dirs, build output,
// and the store's own hidden directory.
var DefaultExclusions = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	".xray": true,
	"node_modules": true, ".venv": true, "venv": true, "__pycache__": true,
	".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true, ".tox": true,
	"dist": true, "build": true, "out": true, "target": true, "bin": true,
	".idea": true, ".vscode": true,
}

// File is a discovered source file.
type File struct {
	AbsPath  string
	RelPath  string // relative to root, forward-slashed
	Language lang.Language
}

// Options configures a Walk.
type Options struct {
	// ExtraExclusions supplements DefaultExclusions (directory-name or
	// relative-path glob match); it never replaces the defaults.
	ExtraExclusions []string
	// DisabledLanguages drops matching files from the result even though
	// their extension is registered.
	DisabledLanguages map[string]bool
}

// Walk enumerates every file under root whose extension some front-end
// registered, skipping excluded directories. Output is sorted by RelPath
// for reproducibility.
func Walk(ctx context.Context, root string, opts *Options) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extra := loadIgnoreFile(filepath.Join(root, ".xrayignore"))
	var disabled map[string]bool
	if opts != nil {
		extra = append(extra, opts.ExtraExclusions...)
		disabled = opts.DisabledLanguages
	}

	var files []File
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if path != root && shouldSkipDir(info.Name(), rel, extra) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		l, ok := lang.LanguageForExtension(ext)
		if !ok || disabled[string(l)] {
			return nil
		}
		files = append(files, File{AbsPath: path, RelPath: rel, Language: l})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	slog.Debug("walker.walk.done", "root", root, "files", len(files), "extra_exclusions", len(extra))
	return files, nil
}

func shouldSkipDir(name, rel string, extra []string) bool {
	if DefaultExclusions[name] {
		return true
	}
	for _, pattern := range extra {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func loadIgnoreFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns
}
