// internal/taxonomy/lineage.go
package taxonomy

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Separator splits lineage segments.
const Separator = "|"

// DefaultUnknownLabel is the MetaPhlAn row for unclassified reads.
const DefaultUnknownLabel = "UNKNOWN"

var ErrLineageTooDeep = errors.New("lineage deeper than requested rank")

// MatchesRank reports whether id ends at rank r, i.e. its last segment carries
// r's prefix, or whether id is the unknown row.
func MatchesRank(id string, r Rank, unknownLabel string) bool {
	if unknownLabel != "" && id == unknownLabel {
		return true
	}
	if !r.Valid() {
		return false
	}
	last := id
	if i := strings.LastIndex(id, Separator); i >= 0 {
		last = id[i+1:]
	}
	return strings.HasPrefix(last, r.Code()+"__")
}

// TrimPrefix strips a leading rank prefix such as "s__".
func TrimPrefix(seg string) string {
	if len(seg) >= 3 && seg[1] == '_' && seg[2] == '_' {
		switch seg[0] {
		case 'k', 'p', 'c', 'o', 'f', 'g', 's', 't':
			return seg[3:]
		}
	}
	return seg
}

// SplitLineage returns exactly r.Depth() trimmed names, right-padded with "".
func SplitLineage(id string, r Rank) ([]string, error) {
	if !r.Valid() {
		return nil, errors.Wrapf(ErrUnknownRank, "rank %d", int(r))
	}
	segs := strings.Split(id, Separator)
	if len(segs) > r.Depth() {
		return nil, errors.Wrapf(ErrLineageTooDeep, "%q has %d segments, %s allows %d", id, len(segs), r, r.Depth())
	}
	out := make([]string, r.Depth())
	for i, s := range segs {
		out[i] = TrimPrefix(s)
	}
	return out, nil
}
