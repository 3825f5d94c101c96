// Package discover resolves a chain prefix in a directory to the concrete files
// of a run.
//
// Directory access goes through a Lister so the rest of the pipeline never
// inspects ambient process state: callers pass the directory explicitly, and
// tests substitute an in-memory listing.
package discover

import (
	"cmp"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/chainsum/compress"
	"github.com/arloliu/chainsum/errs"
)

// ParamNamesExt is the extension of the parameter-name file next to the chains.
const ParamNamesExt = ".paramnames"

// Lister lists the regular file names (base names) of a directory.
type Lister interface {
	List(dir string) ([]string, error)
}

// DirLister lists directories of the local filesystem.
type DirLister struct{}

// List implements Lister.
func (DirLister) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	return regularNames(entries), nil
}

// FSLister lists directories of an fs.FS; paths are slash-separated and
// relative to the FS root.
type FSLister struct {
	FS fs.FS
}

// List implements Lister.
func (l FSLister) List(dir string) ([]string, error) {
	entries, err := fs.ReadDir(l.FS, dir)
	if err != nil {
		return nil, err
	}

	return regularNames(entries), nil
}

func regularNames(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}

	return names
}

// ChainFiles is one chain: its parent file followed by resumed segments.
type ChainFiles struct {
	Index int
	Files []string
}

// Layout is the resolved file set of a run.
type Layout struct {
	Dir    string
	Prefix string
	// ParamNames is the path of <prefix>.paramnames, empty when absent.
	ParamNames string
	// Chains is ordered by index.
	Chains []ChainFiles
}

// Paths returns every chain file of the layout in chain order.
func (l *Layout) Paths() []string {
	var out []string
	for _, c := range l.Chains {
		out = append(out, c.Files...)
	}

	return out
}

// chainName matches "<prefix>.<index>[.<segment>].txt" once the compression
// extension is removed. The prefix group is greedy, so a prefix may contain dots.
var chainName = regexp.MustCompile(`^(.+)\.(\d+)(?:\.([A-Za-z]+))?\.txt$`)

type match struct {
	name    string
	prefix  string
	index   int
	segment string
	plain   string // name without compression extension
}

func parseName(name string) (match, bool) {
	_, plain := compress.TypeFromPath(name)
	m := chainName.FindStringSubmatch(plain)
	if m == nil {
		return match{}, false
	}
	index, err := strconv.Atoi(m[2])
	if err != nil {
		return match{}, false
	}

	return match{name: name, prefix: m[1], index: index, segment: m[3], plain: plain}, true
}

// parseWithPrefix matches name against an explicit prefix, which takes
// precedence over the greedy split of parseName.
func parseWithPrefix(name, prefix string) (match, bool) {
	_, plain := compress.TypeFromPath(name)
	rest, ok := strings.CutPrefix(plain, prefix+".")
	if !ok {
		return match{}, false
	}
	m := chainName.FindStringSubmatch("x." + rest)
	if m == nil || m[1] != "x" {
		return match{}, false
	}
	index, err := strconv.Atoi(m[2])
	if err != nil {
		return match{}, false
	}

	return match{name: name, prefix: prefix, index: index, segment: m[3], plain: plain}, true
}

// Prefixes returns the distinct chain prefixes found in dir, sorted.
func Prefixes(l Lister, dir string) ([]string, error) {
	names, err := l.List(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	return prefixesOf(names), nil
}

func prefixesOf(names []string) []string {
	var prefixes []string
	for _, name := range names {
		if m, ok := parseName(name); ok {
			prefixes = append(prefixes, m.prefix)
		}
	}
	slices.Sort(prefixes)

	return slices.Compact(prefixes)
}

// Resolve finds the chain files of prefix in dir. An empty prefix is detected
// from the directory and must be unique.
//
// Returns errs.ErrNoChains when nothing matches, errs.ErrAmbiguousPrefix when
// auto-detection finds several prefixes, and errs.ErrDuplicateChain when one
// chain file is present both plain and compressed.
func Resolve(l Lister, dir, prefix string) (*Layout, error) {
	names, err := l.List(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	slices.Sort(names)

	if prefix == "" {
		if prefix, err = detectPrefix(names, dir); err != nil {
			return nil, err
		}
	}

	layout := &Layout{Dir: dir, Prefix: prefix}
	byIndex := make(map[int][]match)
	seen := make(map[string]string)
	for _, name := range names {
		if name == prefix+ParamNamesExt {
			layout.ParamNames = filepath.Join(dir, name)
			continue
		}
		m, ok := parseWithPrefix(name, prefix)
		if !ok {
			continue
		}
		if other, dup := seen[m.plain]; dup {
			return nil, fmt.Errorf("%w: %s and %s in %s", errs.ErrDuplicateChain, other, name, dir)
		}
		seen[m.plain] = name
		byIndex[m.index] = append(byIndex[m.index], m)
	}
	if len(byIndex) == 0 {
		return nil, fmt.Errorf("%w: no files matching %s.<n>.txt in %s", errs.ErrNoChains, prefix, dir)
	}

	for index, parts := range byIndex {
		// parent first, then segments in lexical order
		slices.SortFunc(parts, func(a, b match) int {
			return cmp.Or(
				cmp.Compare(boolRank(a.segment != ""), boolRank(b.segment != "")),
				cmp.Compare(a.segment, b.segment),
			)
		})
		files := make([]string, len(parts))
		for i, p := range parts {
			files[i] = filepath.Join(dir, p.name)
		}
		layout.Chains = append(layout.Chains, ChainFiles{Index: index, Files: files})
	}
	slices.SortFunc(layout.Chains, func(a, b ChainFiles) int {
		return cmp.Compare(a.Index, b.Index)
	})

	return layout, nil
}

func detectPrefix(names []string, dir string) (string, error) {
	prefixes := prefixesOf(names)
	switch len(prefixes) {
	case 0:
		return "", fmt.Errorf("%w: no <prefix>.<n>.txt files in %s", errs.ErrNoChains, dir)
	case 1:
		return prefixes[0], nil
	default:
		return "", fmt.Errorf("%w: %s holds %s", errs.ErrAmbiguousPrefix, dir, strings.Join(prefixes, ", "))
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}
