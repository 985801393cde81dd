package domain

// EntryOutcome classifies what happened to a single archive entry.
type EntryOutcome string

const (
	// OutcomeConverted: the entry was converted and renamed to the target.
	OutcomeConverted EntryOutcome = "converted"
	// OutcomePassthrough: the entry was copied unchanged by policy.
	OutcomePassthrough EntryOutcome = "passthrough"
	// OutcomeFailed: conversion was attempted and failed; the original bytes
	// were kept so the output archive stays complete.
	OutcomeFailed EntryOutcome = "failed"
)

// EntryResult is the outcome for one entry of one archive.
type EntryResult struct {
	Path    string
	Outcome EntryOutcome
	Err     error
}

// ArchiveStatus classifies the outcome for a whole archive or directory.
type ArchiveStatus string

const (
	ArchiveConverted ArchiveStatus = "converted"
	ArchiveSkipped   ArchiveStatus = "skipped"
	ArchiveFailed    ArchiveStatus = "failed"
)

// ArchiveResult is the rollup for one archive (or one directory root in
// directory mode).
type ArchiveResult struct {
	Path    string
	Output  string
	Status  ArchiveStatus
	Reason  string // set when skipped
	Err     error  // set when failed
	Entries []EntryResult
}

// Counts tallies the entry outcomes.
func (r ArchiveResult) Counts() (converted, passthrough, failed int) {
	for _, e := range r.Entries {
		switch e.Outcome {
		case OutcomeConverted:
			converted++
		case OutcomePassthrough:
			passthrough++
		case OutcomeFailed:
			failed++
		}
	}
	return converted, passthrough, failed
}

// BatchReport collects the results of a whole run.
type BatchReport struct {
	Archives []ArchiveResult
}

// Add appends one archive result.
func (r *BatchReport) Add(res ArchiveResult) {
	r.Archives = append(r.Archives, res)
}

// Failed reports whether any archive failed entirely. Entry-level failures
// do not fail the batch; archive-level ones do.
func (r BatchReport) Failed() bool {
	for _, a := range r.Archives {
		if a.Status == ArchiveFailed {
			return true
		}
	}
	return false
}

// Totals sums archive statuses across the batch.
func (r BatchReport) Totals() (converted, skipped, failed int) {
	for _, a := range r.Archives {
		switch a.Status {
		case ArchiveConverted:
			converted++
		case ArchiveSkipped:
			skipped++
		case ArchiveFailed:
			failed++
		}
	}
	return converted, skipped, failed
}

// EntryTotals sums entry outcomes across the batch.
func (r BatchReport) EntryTotals() (converted, passthrough, failed int) {
	for _, a := range r.Archives {
		c, p, f := a.Counts()
		converted += c
		passthrough += p
		failed += f
	}
	return converted, passthrough, failed
}
