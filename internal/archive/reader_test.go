package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarGz(t *testing.T, path string, entries []Entry) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "legi/", Typeflag: tar.TypeDir, Mode: 0o755}))
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     e.Path,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(e.Data)),
			ModTime:  time.Unix(e.MTime, 0),
		}))
		_, err := tw.Write(e.Data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestReader_Next(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legi_20200102-000000.tar.gz")
	want := []Entry{
		{Path: "legi/a.xml", MTime: 100, Data: []byte("<A/>")},
		{Path: "legi/liste_suppression_legi.dat", MTime: 200, Data: []byte("legi/x\nlegi/y\n")},
	}
	writeTarGz(t, path, want)

	r, err := Open(path)
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	var got []Entry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, *e)
	}

	assert.Equal(t, want, got)
}

func TestOpen_Tgz(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legi_20200104-000000.tgz")
	writeTarGz(t, path, []Entry{{Path: "legi/a.xml", MTime: 1, Data: []byte("<A/>")}})

	files, err := List(dir)
	require.NoError(t, err)
	require.Equal(t, []string{path}, files)

	r, err := Open(files[0])
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	e, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "legi/a.xml", e.Path)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.tar.gz"))
	assert.Error(t, err)

	zip := filepath.Join(dir, "legi_20200102-000000.zip")
	require.NoError(t, os.WriteFile(zip, []byte("PK"), 0o644))
	_, err = Open(zip)
	assert.Error(t, err)

	notGzip := filepath.Join(dir, "legi_20200102-000000.tar.gz")
	require.NoError(t, os.WriteFile(notGzip, []byte("plain"), 0o644))
	_, err = Open(notGzip)
	assert.Error(t, err)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		file   string
		wantOK bool
		want   Name
	}{
		{
			file:   "Freemium_legi_global_20200101-000000.tar.gz",
			wantOK: true,
			want:   Name{File: "Freemium_legi_global_20200101-000000.tar.gz", Date: "20200101-000000", Full: true},
		},
		{
			file:   "/data/legi_20200102-211500.tar.gz",
			wantOK: true,
			want:   Name{File: "/data/legi_20200102-211500.tar.gz", Date: "20200102-211500", Full: false},
		},
		{file: "legi_2020.tar.gz", wantOK: false},
		{file: "jorf_20200102-211500.tar.gz", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := ParseName(tt.file)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"legi_20200103-000000.tar.gz",
		"Freemium_legi_global_20200101-000000.tar.gz",
		"legi_20200102-000000.tar.gz",
		"legi_20200104-000000.tgz",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := List(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, "Freemium_legi_global_20200101-000000.tar.gz", filepath.Base(files[0]))
	assert.Equal(t, "legi_20200102-000000.tar.gz", filepath.Base(files[1]))
	assert.Equal(t, "legi_20200103-000000.tar.gz", filepath.Base(files[2]))
	assert.Equal(t, "legi_20200104-000000.tgz", filepath.Base(files[3]))

	_, err = List(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
