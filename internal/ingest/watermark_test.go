package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legisync/internal/archive"
)

func planDates(plan Plan) []string {
	dates := make([]string, len(plan.Archives))
	for i, name := range plan.Archives {
		dates[i] = name.Date
	}
	return dates
}

func TestEligible(t *testing.T) {
	full := archive.Name{Date: "20200101-000000", Full: true}
	delta := archive.Name{Date: "20200102-000000"}

	tests := []struct {
		name      string
		archive   archive.Name
		watermark string
		want      bool
	}{
		{name: "full without watermark", archive: full, watermark: "", want: true},
		{name: "delta without watermark", archive: delta, watermark: "", want: false},
		{name: "full with watermark", archive: full, watermark: "20191231-000000", want: false},
		{name: "delta after watermark", archive: delta, watermark: "20200101-000000", want: true},
		{name: "delta at watermark", archive: delta, watermark: "20200102-000000", want: false},
		{name: "delta before watermark", archive: delta, watermark: "20200103-000000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.archive, tt.watermark))
		})
	}
}

func TestPlanArchives(t *testing.T) {
	files := []string{
		"/data/Freemium_legi_global_20200101-000000.tar.gz",
		"/data/legi_20200102-000000.tar.gz",
		"/data/legi_20200103-000000.tar.gz",
		"/data/legi_global_20200104-000000.tar.gz",
		"/data/legi_latest.tar.gz",
		"/data/legi_20200105-000000.tar.gz",
	}

	t.Run("empty store", func(t *testing.T) {
		plan := PlanArchives(files, "")

		assert.Equal(t, []string{
			"20200101-000000",
			"20200102-000000",
			"20200103-000000",
			"20200105-000000",
		}, planDates(plan))
		assert.Equal(t, 1, plan.Skipped)
		assert.Equal(t, []string{"/data/legi_latest.tar.gz"}, plan.Unrecognized)
	})

	t.Run("resume after watermark", func(t *testing.T) {
		plan := PlanArchives(files, "20200102-000000")

		require.Len(t, plan.Archives, 2)
		assert.Equal(t, []string{"20200103-000000", "20200105-000000"}, planDates(plan))
		assert.Equal(t, 3, plan.Skipped)
	})

	t.Run("no full snapshot", func(t *testing.T) {
		plan := PlanArchives(files[1:3], "")
		assert.Empty(t, plan.Archives)
		assert.Equal(t, 2, plan.Skipped)
	})
}
