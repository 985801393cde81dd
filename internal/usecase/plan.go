package usecase

import (
	"fmt"
	"os"
	"strings"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// plannedEntry ties a conversion plan to the archive entry it applies to.
type plannedEntry struct {
	idx  int
	plan domain.Plan
}

// planEntries decides per entry whether it converts or passes through.
func planEntries(entries []domain.Entry, cfg domain.Config) []plannedEntry {
	var plans []plannedEntry
	for i, e := range entries {
		if e.IsDir() {
			continue
		}
		format, ok := domain.FormatFromPath(e.Path)
		if !ok {
			continue
		}
		plan, ok := domain.NewPlan(format, cfg.Target, cfg.Force)
		if !ok {
			continue
		}
		plans = append(plans, plannedEntry{idx: i, plan: plan})
	}
	return plans
}

// planNames builds plans from entry paths alone, without reading bodies.
// Used for the collect phase, statistics and dry runs.
func planNames(names []string, cfg domain.Config) []domain.Plan {
	var plans []domain.Plan
	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			continue
		}
		format, ok := domain.FormatFromPath(name)
		if !ok {
			continue
		}
		plan, ok := domain.NewPlan(format, cfg.Target, cfg.Force)
		if !ok {
			continue
		}
		plans = append(plans, plan)
	}
	return plans
}

// checkTools verifies every binary the plans require is available before any
// file is touched. All missing tools are reported at once.
func checkTools(converter ports.ImageConverter, plans []domain.Plan) error {
	missing := converter.MissingTools(plans)
	if len(missing) == 0 {
		return nil
	}
	return &domain.OpError{
		Op:   "usecase.check_tools",
		Kind: domain.KindToolMissing,
		Err:  fmt.Errorf("%w: %s", domain.ErrToolMissing, strings.Join(missing, ", ")),
	}
}

// alreadyConverted reports whether the archive carries the converted name
// suffix or a converted sibling already exists on disk.
func alreadyConverted(path string, target domain.ImageFormat) (bool, string) {
	if domain.HasConvertedSuffix(path, target) {
		return true, "already converted"
	}
	if _, err := os.Stat(domain.OutputPath(path, target)); err == nil {
		return true, "converted archive exists"
	}
	return false, ""
}
