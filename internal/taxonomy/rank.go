// internal/taxonomy/rank.go
package taxonomy

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Rank is a taxonomic level. The zero value is invalid; valid ranks are 1-based
// so that int(r) is also the lineage depth of that rank.
type Rank int

const (
	Kingdom Rank = iota + 1
	Phylum
	Class
	Order
	Family
	Genus
	Species
	Strain
)

var ErrUnknownRank = errors.New("unknown taxonomic rank")

var rankNames = [...]string{"", "Kingdom", "Phylum", "Class", "Order", "Family", "Genus", "Species", "Strain"}

// MetaPhlAn segment prefix letters, indexed like rankNames.
var rankCodes = [...]byte{0, 'k', 'p', 'c', 'o', 'f', 'g', 's', 't'}

// Ranks lists every rank from Kingdom to Strain.
func Ranks() []Rank {
	out := make([]Rank, 0, len(rankNames)-1)
	for r := Kingdom; r <= Strain; r++ {
		out = append(out, r)
	}
	return out
}

func (r Rank) Valid() bool { return r >= Kingdom && r <= Strain }

func (r Rank) String() string {
	if !r.Valid() {
		return "Rank(?)"
	}
	return rankNames[r]
}

// Code is the one-letter lineage prefix ("s" for s__).
func (r Rank) Code() string {
	if !r.Valid() {
		return ""
	}
	return string(rankCodes[r])
}

// Depth is the number of lineage segments down to and including r.
func (r Rank) Depth() int { return int(r) }

// Columns returns the rank column names from Kingdom down to r.
func (r Rank) Columns() []string {
	if !r.Valid() {
		return nil
	}
	return append([]string(nil), rankNames[1:r+1]...)
}

// ParseRank accepts a rank name (any case) or its one-letter code.
func ParseRank(s string) (Rank, error) {
	v := strings.TrimSpace(s)
	if len(v) == 1 {
		for r := Kingdom; r <= Strain; r++ {
			if rankCodes[r] == v[0] {
				return r, nil
			}
		}
	}
	for r := Kingdom; r <= Strain; r++ {
		if strings.EqualFold(rankNames[r], v) {
			return r, nil
		}
	}
	return 0, errors.WithHint(
		errors.Wrapf(ErrUnknownRank, "%q", s),
		"use one of kingdom, phylum, class, order, family, genus, species, strain (or k p c o f g s t)",
	)
}
