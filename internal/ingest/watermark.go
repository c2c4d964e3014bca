package ingest

import (
	"legisync/internal/archive"
)

// Eligible reports whether an archive may be applied on top of watermark.
// Without a watermark only a full snapshot qualifies; with one, only a delta
// dated strictly after it.
func Eligible(name archive.Name, watermark string) bool {
	if watermark == "" {
		return name.Full
	}
	return !name.Full && name.Date > watermark
}

// Plan is the ordered list of archives a run will apply.
type Plan struct {
	Archives     []archive.Name
	Skipped      int
	Unrecognized []string
}

// PlanArchives walks files in ascending name order and keeps those that are
// eligible, advancing a simulated watermark after each kept archive.
func PlanArchives(files []string, watermark string) Plan {
	var plan Plan
	for _, f := range files {
		name, ok := archive.ParseName(f)
		if !ok {
			plan.Unrecognized = append(plan.Unrecognized, f)
			continue
		}
		if !Eligible(name, watermark) {
			plan.Skipped++
			continue
		}
		plan.Archives = append(plan.Archives, name)
		watermark = name.Date
	}
	return plan
}
