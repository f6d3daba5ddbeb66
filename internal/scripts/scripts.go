// Package scripts discovers runnable scripts in the workspace directory
// and runs them through the execution engine.
//
// Discovery is deliberately shallow: only the top level of the workspace
// is scanned, hidden files and test_* files are skipped, and metadata is
// extracted with a light text scan (leading docstring or comment block,
// presence of an `if __name__ == "__main__"` guard) rather than a full
// parse. That is all the listing UI and the CLI need.
package scripts

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sakif/scriptlab/internal/apperror"
	"github.com/sakif/scriptlab/internal/engine"
)

const (
	scriptExtension = ".py"
	// maxDescriptionLen keeps listings readable; the full source is
	// always available via Source.
	maxDescriptionLen = 200
	// maxScanBytes caps how much of each file the analyzer reads.
	maxScanBytes = 64 * 1024
)

// Info is the metadata reported for one discovered script.
type Info struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Runnable    bool   `json:"runnable"`
	Size        int64  `json:"size"`
}

// Service lists, inspects, and runs the scripts in one workspace
// directory. It holds no mutable state; every call re-reads the
// directory so newly dropped scripts appear without a restart.
type Service struct {
	dir    string
	exec   engine.Executor
	logger *slog.Logger
}

// NewService creates a script service over dir, executing through exec.
func NewService(dir string, exec engine.Executor, logger *slog.Logger) *Service {
	return &Service{dir: dir, exec: exec, logger: logger}
}

// List returns metadata for every script in the workspace, sorted by name.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scripts: reading workspace %s: %w", s.dir, err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, scriptExtension) {
			continue
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "test_") {
			continue
		}

		info, err := s.analyze(filepath.Join(s.dir, name))
		if err != nil {
			// An unreadable file still shows up in the listing, just
			// without metadata, matching how the dashboard treats
			// scripts it cannot parse.
			s.logger.Warn("failed to analyze script",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
			info = Info{
				Name: strings.TrimSuffix(name, scriptExtension),
				Path: filepath.Join(s.dir, name),
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Search returns the scripts whose name or description contains query
// (case-insensitive). An empty query returns the full listing.
func (s *Service) Search(query string) ([]Info, error) {
	infos, err := s.List()
	if err != nil || query == "" {
		return infos, err
	}

	query = strings.ToLower(query)
	matches := make([]Info, 0, len(infos))
	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name), query) ||
			strings.Contains(strings.ToLower(info.Description), query) {
			matches = append(matches, info)
		}
	}
	return matches, nil
}

// Get returns the script with the given name (the filename without its
// extension). Names never contain path separators, so a hostile name
// cannot escape the workspace.
func (s *Service) Get(name string) (*Info, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "script name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == ".." {
		return nil, apperror.ValidationFailed("name", "script name must not contain path separators")
	}

	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range infos {
		if infos[i].Name == name {
			return &infos[i], nil
		}
	}
	return nil, apperror.NotFound("script", name)
}

// Source returns the raw text of a discovered script.
func (s *Service) Source(name string) (string, error) {
	info, err := s.Get(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(info.Path)
	if err != nil {
		return "", fmt.Errorf("scripts: reading %s: %w", info.Path, err)
	}
	return string(data), nil
}

// Run executes a discovered script by name. The name is resolved
// against the discovered set first, so unknown scripts fail with
// NotFound before any process is launched; everything after that is
// the engine's non-throwing result.
func (s *Service) Run(ctx context.Context, name string, timeoutSeconds int) (engine.ExecutionResult, error) {
	info, err := s.Get(name)
	if err != nil {
		return engine.ExecutionResult{}, err
	}

	s.logger.Info("running workspace script",
		slog.String("name", info.Name),
		slog.Int("timeoutSeconds", timeoutSeconds),
	)

	res := s.exec.Execute(ctx, engine.ExecutionRequest{
		Source:         engine.File(info.Path),
		TimeoutSeconds: timeoutSeconds,
		Label:          info.Name + scriptExtension,
	})
	return res, nil
}

// analyze extracts listing metadata from one script file.
func (s *Service) analyze(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), scriptExtension)
	info := Info{
		Name: name,
		Path: path,
		Size: stat.Size(),
	}

	// The byte budget keeps analyze from reading a multi-megabyte data
	// file dressed up with a .py extension.
	scanner := bufio.NewScanner(io.LimitReader(f, maxScanBytes))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	var (
		docLines    []string
		inDocstring bool
		docDelim    string
		sawDoc      bool
	)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Main-guard detection works anywhere in the file.
		if strings.HasPrefix(trimmed, "if __name__") && strings.Contains(trimmed, "__main__") {
			info.Runnable = true
		}

		if sawDoc {
			continue
		}

		if inDocstring {
			if idx := strings.Index(trimmed, docDelim); idx >= 0 {
				docLines = append(docLines, strings.TrimSpace(trimmed[:idx]))
				sawDoc = true
				inDocstring = false
				continue
			}
			docLines = append(docLines, trimmed)
			continue
		}

		switch {
		case trimmed == "":
			if len(docLines) > 0 {
				sawDoc = true // end of a leading comment block
			}
		case strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''"):
			docDelim = trimmed[:3]
			body := trimmed[3:]
			if idx := strings.Index(body, docDelim); idx >= 0 {
				docLines = append(docLines, strings.TrimSpace(body[:idx]))
				sawDoc = true
			} else {
				if body != "" {
					docLines = append(docLines, strings.TrimSpace(body))
				}
				inDocstring = true
			}
		case strings.HasPrefix(trimmed, "#"):
			text := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			// shebangs and coding cookies are not documentation
			if !strings.HasPrefix(text, "!") && !strings.HasPrefix(text, "-*-") {
				docLines = append(docLines, text)
			}
		default:
			sawDoc = true // hit code before any documentation
		}
	}
	if err := scanner.Err(); err != nil {
		return Info{}, err
	}

	desc := strings.TrimSpace(strings.Join(docLines, " "))
	if desc == "" {
		desc = "Python script: " + name
	}
	// Truncate on a rune boundary so a multi-byte character at the cut
	// point can't produce an invalid-UTF-8 description.
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		desc = string([]rune(desc)[:maxDescriptionLen])
	}
	info.Description = desc

	return info, nil
}
