package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legisync/internal/ingest"
	"legisync/internal/legi"
)

const (
	testCID     = "LEGITEXT000006070721"
	testArticle = "LEGIARTI000006419280"
	articleXML  = `<?xml version="1.0" encoding="UTF-8"?>
<ARTICLE>
<META>
<META_COMMUN><ID>LEGIARTI000006419280</ID><NATURE>Article</NATURE></META_COMMUN>
<META_SPEC><META_ARTICLE><NUM>1</NUM><ETAT>VIGUEUR</ETAT></META_ARTICLE></META_SPEC>
</META>
<CONTEXTE><TEXTE cid="LEGITEXT000006070721"/></CONTEXTE>
<BLOC_TEXTUEL><CONTENU>Texte</CONTENU></BLOC_TEXTUEL>
</ARTICLE>`
)

// isolateEnv keeps the developer's environment and .env files out of the
// command under test.
func isolateEnv(t *testing.T) string {
	t.Helper()

	for _, key := range []string{"DB_PATH", "ARCHIVES_DIR", "OLD_FILES_LOG", "DECODE_WORKERS",
		"DECODE_BATCH_SIZE", "LOG_LEVEL", "LOG_FORMAT", "API_PORT", "INGEST_INTERVAL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_PATH", filepath.Join(dir, "default.sqlite"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func writeSnapshot(t *testing.T, dir string) {
	t.Helper()

	const date = "20200101-000000"
	data := []byte(articleXML)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     date + "/" + legi.ReconstructPath("code_en_vigueur", testCID, legi.KindArticle, testArticle),
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  time.Unix(100, 0),
	}))
	_, err := tw.Write(data)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Freemium_legi_global_"+date+".tar.gz"), buf.Bytes(), 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestIngestCommand(t *testing.T) {
	work := isolateEnv(t)
	archives := filepath.Join(work, "archives")
	require.NoError(t, os.Mkdir(archives, 0o755))
	writeSnapshot(t, archives)

	dbPath := filepath.Join(work, "legi.sqlite")
	reportPath := filepath.Join(work, "report.json")

	out, err := execute(t, "ingest", archives, "--db", dbPath, "--workers", "2", "--report", reportPath)
	require.NoError(t, err)

	var report ingest.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "20200101-000000", report.Watermark)
	require.Len(t, report.Archives, 1)
	assert.Equal(t, 1, report.Archives[0].Inserted)

	saved, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.JSONEq(t, out, string(saved))

	// The old-path log defaults next to the database.
	_, err = os.Stat(dbPath + ".old_files.dat")
	assert.NoError(t, err)

	out, err = execute(t, "status", "--db", dbPath)
	require.NoError(t, err)

	var status StatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, dbPath, status.Database)
	assert.Equal(t, "20200101-000000", status.Watermark)
	assert.Equal(t, 1, status.Counts["articles"])
}

func TestIngestCommand_ReportsFailure(t *testing.T) {
	work := isolateEnv(t)

	// A truncated snapshot cannot be decompressed.
	require.NoError(t, os.WriteFile(filepath.Join(work, "Freemium_legi_global_20200101-000000.tar.gz"), []byte("truncated"), 0o644))

	out, err := execute(t, "ingest", work, "--db", filepath.Join(work, "legi.sqlite"))
	require.Error(t, err)

	var report ingest.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.Error)
	assert.Empty(t, report.Archives)
}

func TestIngestCommand_RequiresDirectory(t *testing.T) {
	work := isolateEnv(t)

	_, err := execute(t, "ingest", "--db", filepath.Join(work, "legi.sqlite"))
	assert.ErrorContains(t, err, "no archive directory")
}

func TestStatusCommand_EmptyDatabase(t *testing.T) {
	work := isolateEnv(t)

	out, err := execute(t, "status", "--db", filepath.Join(work, "legi.sqlite"))
	require.NoError(t, err)

	var status StatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Empty(t, status.Watermark)
	assert.Equal(t, 0, status.Counts["articles"])
}
