// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package compare reconciles the outputs of the reference and the
// accelerated traversal of the same repository. The two paths format and
// order their output differently: the reference walk decorates non-commit
// objects with a path and keeps traversal order, the bitmap walk emits bare
// identifiers grouped by object kind. Only the identifier sets are
// semantically comparable.
package compare

import (
	"fmt"
	"sort"
	"strings"
)

// ComparisonMismatch is returned when the two traversals disagree about the
// reachable set, the one condition the oracle exists to catch.
type ComparisonMismatch struct {
	Query string

	// Missing and Extra are identifiers only the reference resp. only the
	// accelerated path produced.
	Missing []string
	Extra   []string

	// Reference and Accelerated are the two values of a count comparison.
	Reference   int64
	Accelerated int64
	counts      bool
}

func (err *ComparisonMismatch) Error() string {
	if err.counts {
		return fmt.Sprintf("traversal mismatch [query: %s]: reference counted %d, accelerated counted %d",
			err.Query, err.Reference, err.Accelerated)
	}
	return fmt.Sprintf("traversal mismatch [query: %s]: %d missing from accelerated (%s), %d extra in accelerated (%s)",
		err.Query, len(err.Missing), strings.Join(err.Missing, " "), len(err.Extra), strings.Join(err.Extra, " "))
}

// IsComparisonMismatch checks if an error is a ComparisonMismatch.
func IsComparisonMismatch(err error) bool {
	_, ok := err.(*ComparisonMismatch)
	return ok
}

// SuspiciousIdentical is returned when the raw outputs match byte for byte
// although their decoration was expected to differ, meaning the accelerated
// path was almost certainly never exercised and the comparison would pass
// vacuously.
type SuspiciousIdentical struct {
	Query string
}

func (err *SuspiciousIdentical) Error() string {
	return fmt.Sprintf("identical raw outputs [query: %s]; are you sure bitmaps were used?", err.Query)
}

// IsSuspiciousIdentical checks if an error is a SuspiciousIdentical.
func IsSuspiciousIdentical(err error) bool {
	_, ok := err.(*SuspiciousIdentical)
	return ok
}

// Options for a traversal comparison.
type Options struct {
	// ConfirmDivergence enables the identical-raw-output pre-check. Leave it
	// off for queries whose two outputs are legitimately undecorated, such as
	// commit-only enumerations.
	ConfirmDivergence bool
}

// Normalize projects raw traversal lines onto bare object identifiers:
// trailing type or path decorations are cut, the result is sorted and
// deduplicated by line. The projection is a comparison key only, never kept.
func Normalize(lines []string) []string {
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if idx := strings.IndexByte(line, ' '); idx >= 0 {
			line = line[:idx]
		}
		normalized = append(normalized, line)
	}
	sort.Strings(normalized)
	return dedupSorted(normalized)
}

func dedupSorted(lines []string) []string {
	out := lines[:0]
	for i, line := range lines {
		if i == 0 || line != lines[i-1] {
			out = append(out, line)
		}
	}
	return out
}

// Traversals compares the raw output of the reference and the accelerated
// traversal for one query. Ordering differences are expected and ignored;
// set differences are a ComparisonMismatch.
func Traversals(query string, reference, accelerated []string, opts Options) error {
	if opts.ConfirmDivergence && equalRaw(reference, accelerated) {
		return &SuspiciousIdentical{Query: query}
	}

	ref := Normalize(reference)
	acc := Normalize(accelerated)

	missing, extra := diffSorted(ref, acc)
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return &ComparisonMismatch{Query: query, Missing: missing, Extra: extra}
}

// Counts compares the two answers of a count-only query.
func Counts(query string, reference, accelerated int64) error {
	if reference == accelerated {
		return nil
	}
	return &ComparisonMismatch{Query: query, Reference: reference, Accelerated: accelerated, counts: true}
}

func equalRaw(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// diffSorted walks two sorted, deduplicated slices and returns the elements
// unique to each side.
func diffSorted(ref, acc []string) (missing, extra []string) {
	i, j := 0, 0
	for i < len(ref) && j < len(acc) {
		switch {
		case ref[i] == acc[j]:
			i++
			j++
		case ref[i] < acc[j]:
			missing = append(missing, ref[i])
			i++
		default:
			extra = append(extra, acc[j])
			j++
		}
	}
	missing = append(missing, ref[i:]...)
	extra = append(extra, acc[j:]...)
	return missing, extra
}
