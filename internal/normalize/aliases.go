package normalize

import (
	"bufio"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

// DefaultAliases maps alternate spellings found in the retweet sheets to the
// names used by the Natural Earth ADMIN attribute.
//
//nolint:gochecknoglobals // Static lookup table for country normalization
var DefaultAliases = map[string]string{
	"USA":    "United States of America",
	"UK":     "United Kingdom",
	"Russia": "Russian Federation",
}

// AliasProblem describes one alias entry that breaks the table invariant.
type AliasProblem struct {
	Alias     string
	Canonical string
	Reason    string
}

const (
	reasonShadowsBoundary = "alias is itself a boundary name"
	reasonUnknownTarget   = "canonical name has no boundary"
)

// CheckAliases verifies each entry against the boundary names: an alias must
// not itself be a boundary name, and its canonical value must be one.
// Problems are returned sorted by alias.
func CheckAliases(aliases map[string]string, boundaryNames map[string]struct{}) []AliasProblem {
	var problems []AliasProblem
	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		canonical := aliases[alias]
		if _, ok := boundaryNames[alias]; ok {
			problems = append(problems, AliasProblem{Alias: alias, Canonical: canonical, Reason: reasonShadowsBoundary})
			continue
		}
		if _, ok := boundaryNames[canonical]; !ok {
			problems = append(problems, AliasProblem{Alias: alias, Canonical: canonical, Reason: reasonUnknownTarget})
		}
	}
	return problems
}

// PruneShadowing returns a copy of aliases without the entries whose key is a
// boundary name. Such an entry would rewrite an already canonical name away
// from its boundary.
func PruneShadowing(aliases map[string]string, boundaryNames map[string]struct{}) map[string]string {
	out := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		if _, ok := boundaryNames[alias]; ok {
			continue
		}
		out[alias] = canonical
	}
	return out
}

// Merge returns base overlaid with extra. Entries in extra win.
func Merge(base, extra map[string]string) map[string]string {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string, len(extra))
	}
	maps.Copy(out, extra)
	return out
}

// LoadAliasFile reads "Alias=Canonical" lines. Blank lines and lines
// starting with # are skipped; both sides are trimmed.
func LoadAliasFile(path string) (map[string]string, error) {
	file, err := os.Open(path) //#nosec G304 -- Alias file path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeNotFound, "alias file %s", path)
		}
		return nil, fmt.Errorf("open alias file: %w", err)
	}
	defer file.Close()

	aliases := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		alias, canonical, ok := strings.Cut(line, "=")
		alias, canonical = strings.TrimSpace(alias), strings.TrimSpace(canonical)
		if !ok || alias == "" || canonical == "" {
			return nil, domainerrors.InvalidInputf("alias file %s: invalid format at line %d: %s", path, lineNum, line)
		}
		aliases[alias] = canonical
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	return aliases, nil
}
