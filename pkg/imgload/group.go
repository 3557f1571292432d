package imgload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// filePattern splits a file name around its last run of digits:
// "img_0042.tif" -> prefix "img_", digits "0042", suffix ".tif".
type filePattern struct {
	prefix string
	digits string
	suffix string
}

func parsePattern(name string) filePattern {
	end := -1
	for i := len(name) - 1; i >= 0; i-- {
		if isDigit(name[i]) {
			end = i + 1
			break
		}
	}
	if end < 0 {
		return filePattern{prefix: name}
	}
	start := end - 1
	for start > 0 && isDigit(name[start-1]) {
		start--
	}
	return filePattern{prefix: name[:start], digits: name[start:end], suffix: name[end:]}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// padded reports whether digits carry a leading zero.
func padded(digits string) bool {
	return len(digits) > 1 && digits[0] == '0'
}

// numbered reports whether the name carries an index that can vary.
func (p filePattern) numbered() bool {
	return p.digits != ""
}

// matches reports whether name belongs to the same numbered series.
func (p filePattern) matches(name string) (int, bool) {
	q := parsePattern(name)
	if !q.numbered() || q.prefix != p.prefix || q.suffix != p.suffix {
		return 0, false
	}
	// A zero-padded index on either side fixes the width of the series.
	if (padded(p.digits) || padded(q.digits)) && len(q.digits) != len(p.digits) {
		return 0, false
	}
	n, err := strconv.Atoi(q.digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// groupFiles lists the directory of path and returns the files of the
// numbered series path belongs to, ordered by index. A name without digits
// forms a group of one, but the directory is still scanned: the listing cost
// grows with the number of unrelated files next to the slice.
func groupFiles(path string) ([]string, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	pattern := parsePattern(name)

	type member struct {
		index int
		path  string
	}
	var members []member
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !pattern.numbered() {
			if e.Name() == name {
				members = append(members, member{path: path})
			}
			continue
		}
		if idx, ok := pattern.matches(e.Name()); ok {
			members = append(members, member{index: idx, path: filepath.Join(dir, e.Name())})
		}
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("group %s: %w", name, ErrEmptyGroup)
	}

	sort.Slice(members, func(i, j int) bool { return members[i].index < members[j].index })
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.path
	}
	return out, nil
}
