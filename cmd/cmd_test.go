package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGPX(t *testing.T, dir string) string {
	t.Helper()
	start := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="OpenTracks" xmlns="http://www.topografix.com/GPX/1/1"
  xmlns:opentracks="http://opentracksapp.com/xmlschemas/v1">
<trk><name>Cli walk</name><type>walking</type><trkseg>
`)
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, `<trkpt lat="%.5f" lon="7.10000"><ele>%d</ele><time>%s</time>
<extensions><opentracks:gain>1</opentracks:gain><opentracks:loss>0</opentracks:loss></extensions></trkpt>
`, 46.5+float64(i)*0.0002, 400+i, start.Add(time.Duration(i)*10*time.Second).Format(time.RFC3339))
	}
	b.WriteString("</trkseg></trk></gpx>\n")

	path := filepath.Join(dir, "walk.gpx")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	common := []string{"--db-path", filepath.Join(dir, "tracks.db"), "--log-level", "error", "--elevation-url", ""}

	out, err := run(t, append([]string{"import"}, append(common, writeGPX(t, dir))...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Cli walk")
	assert.Contains(t, out, "0:03:10")

	_, err = run(t, append([]string{"import"}, append(common, filepath.Join(dir, "missing.gpx"))...)...)
	assert.Error(t, err)

	out, err = run(t, append([]string{"correct", "gainloss", "1"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "activity 1: gain")

	_, err = run(t, append([]string{"correct", "altitude", "1"}, common...)...)
	assert.Error(t, err)

	_, err = run(t, append([]string{"search", "activity", "1"}, common...)...)
	assert.NoError(t, err)

	_, err = run(t, append([]string{"export", "7"}, common...)...)
	assert.Error(t, err)

	_, err = run(t, append([]string{"search", "route", "abc"}, common...)...)
	assert.Error(t, err)
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "0:00:00", formatMillis(0))
	assert.Equal(t, "1:01:01", formatMillis(3661_000))
	assert.Equal(t, "-", formatOptional(nil))
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, s := range []string{"0", "-1", "x"} {
		_, err := parseID(s)
		assert.Error(t, err, s)
	}
}
