// internal/table/merge.go
package table

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Suffixes applied to non-key columns present on both sides of a merge.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// OuterMerge performs a full outer join of left and right on key.
//
// Columns are key, left's other columns, then right's other columns. Rows are
// ordered by key; duplicate keys yield the cartesian product, left-major.
// Cells missing on one side are set to fill.
func OuterMerge(left, right *Table, key, fill string) (*Table, error) {
	li, ri := left.Index(key), right.Index(key)
	if li < 0 {
		return nil, errors.Newf("merge: table %s has no column %q", left.Name, key)
	}
	if ri < 0 {
		return nil, errors.Newf("merge: table %s has no column %q", right.Name, key)
	}

	lcols := nonKey(left.Columns, li)
	rcols := nonKey(right.Columns, ri)
	lnames, rnames := suffixCollisions(left.Columns, li, right.Columns, ri)

	out := &Table{Name: left.Name, Columns: make([]string, 0, 1+len(lcols)+len(rcols))}
	out.Columns = append(out.Columns, key)
	out.Columns = append(out.Columns, lnames...)
	out.Columns = append(out.Columns, rnames...)

	lgroups := groupRows(left.Rows, li)
	rgroups := groupRows(right.Rows, ri)

	keys := make([]string, 0, len(lgroups)+len(rgroups))
	for k := range lgroups {
		keys = append(keys, k)
	}
	for k := range rgroups {
		if _, ok := lgroups[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lfill := fillRow(len(lcols), fill)
	rfill := fillRow(len(rcols), fill)
	for _, k := range keys {
		ls, rs := lgroups[k], rgroups[k]
		if len(ls) == 0 {
			ls = [][]string{nil}
		}
		if len(rs) == 0 {
			rs = [][]string{nil}
		}
		for _, lr := range ls {
			lv := lfill
			if lr != nil {
				lv = pick(lr, lcols)
			}
			for _, rr := range rs {
				rv := rfill
				if rr != nil {
					rv = pick(rr, rcols)
				}
				row := make([]string, 0, len(out.Columns))
				row = append(row, k)
				row = append(row, lv...)
				row = append(row, rv...)
				out.Rows = append(out.Rows, row)
			}
		}
	}
	return out, nil
}

// MergeAll folds OuterMerge over tables from the left. A single table is
// returned as is.
func MergeAll(tables []*Table, key, fill string) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.New("merge: no tables")
	}
	acc := tables[0]
	for _, t := range tables[1:] {
		m, err := OuterMerge(acc, t, key, fill)
		if err != nil {
			return nil, err
		}
		acc = m
	}
	return acc, nil
}

func nonKey(cols []string, key int) []int {
	out := make([]int, 0, len(cols)-1)
	for i := range cols {
		if i != key {
			out = append(out, i)
		}
	}
	return out
}

func suffixCollisions(lc []string, li int, rc []string, ri int) (left, right []string) {
	inLeft := make(map[string]bool, len(lc))
	for i, c := range lc {
		if i != li {
			inLeft[c] = true
		}
	}
	inRight := make(map[string]bool, len(rc))
	for i, c := range rc {
		if i != ri {
			inRight[c] = true
		}
	}
	for i, c := range lc {
		if i == li {
			continue
		}
		if inRight[c] {
			c += LeftSuffix
		}
		left = append(left, c)
	}
	for i, c := range rc {
		if i == ri {
			continue
		}
		if inLeft[c] {
			c += RightSuffix
		}
		right = append(right, c)
	}
	return left, right
}

func groupRows(rows [][]string, key int) map[string][][]string {
	g := make(map[string][][]string, len(rows))
	for _, r := range rows {
		g[r[key]] = append(g[r[key]], r)
	}
	return g
}

func pick(row []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = row[j]
	}
	return out
}

func fillRow(n int, fill string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fill
	}
	return out
}
