package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/internal/config"
)

// execute runs the root command with args and an empty config directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func renderFile(t *testing.T, dir, name, digits string) string {
	t.Helper()
	img, _, err := renderCard(digits, config.Defaults().Encode)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".bmp":
		require.NoError(t, bmp.Encode(f, img))
	case ".tiff":
		require.NoError(t, tiff.Encode(f, img, nil))
	default:
		require.NoError(t, png.Encode(f, img))
	}
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cardscan dev\n", out)
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "2123400012345", normalizeDigits("２１２３４０００１２３４５"))
	assert.Equal(t, "21234000123453", normalizeDigits(" 2 1234 00012345 3\n"))
	assert.Equal(t, "A2123400012345A", normalizeDigits("Ａ2123400012345Ａ"))
}

func TestCheck(t *testing.T) {
	out, _, err := execute(t, "check", "2123400012345", "２１２３４０００１２３４５３")
	require.NoError(t, err)
	assert.Equal(t, "21234000123453\n21234000123453\n", out)
}

func TestCheckCard(t *testing.T) {
	out, _, err := execute(t, "check", "--card", "3000100000007")
	require.NoError(t, err)
	assert.Equal(t, "30001000000079 item 0001/00000007\n", out)

	_, stderr, err := execute(t, "check", "--card", "12345678901235")
	require.Error(t, err)
	assert.Contains(t, stderr, "kind digit")
}

func TestCheckRejects(t *testing.T) {
	out, stderr, err := execute(t, "check", "21234000123454", "12345", "2123400012345")
	require.Error(t, err)
	assert.Equal(t, "21234000123453\n", out)
	assert.Contains(t, stderr, "21234000123454: check digit is 4, want 3")
	assert.Contains(t, stderr, "12345:")
	assert.Contains(t, err.Error(), "2 of 3")
}

func TestEncodeStdout(t *testing.T) {
	out, _, err := execute(t, "encode", "--label=false", "3000100000007")
	require.NoError(t, err)
	img, err := png.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().Encode.Height, img.Bounds().Dy())

	out, _, err = execute(t, "encode", "--height", "40", "3000100000007")
	require.NoError(t, err)
	img, err = png.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dy(), 40, "label adds rows under the bars")
}

func TestEncodeRejects(t *testing.T) {
	_, _, err := execute(t, "encode", "21234000123454")
	assert.ErrorIs(t, err, libcodabar.ErrWriter)

	_, _, err = execute(t, "encode", "--narrow", "3", "--wide", "3", "2123400012345")
	assert.ErrorIs(t, err, libcodabar.ErrWriter)
}

func TestEncodeScanRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.png")
	_, stderr, err := execute(t, "encode", "-o", path, "--narrow", "3", "--wide", "7", "2123400012345")
	require.NoError(t, err)
	assert.Contains(t, stderr, "21234000123453")

	out, _, err := execute(t, "scan", "--card", path)
	require.NoError(t, err)
	assert.Equal(t, "[CODABAR] 21234000123453 patron 1234/00012345\n", out)
}

func TestScanManyFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		renderFile(t, dir, "a.png", "2123400012345"),
		renderFile(t, dir, "b.bmp", "3000100000007"),
		filepath.Join(dir, "missing.png"),
		renderFile(t, dir, "c.tiff", "1234567890123"),
	}

	args := append([]string{"scan", "--workers", "2"}, paths...)
	out, stderr, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4")
	assert.Contains(t, stderr, "missing.png")

	want := paths[0] + ": [CODABAR] 21234000123453\n" +
		paths[1] + ": [CODABAR] 30001000000079\n" +
		paths[3] + ": [CODABAR] 12345678901235\n"
	assert.Equal(t, want, out)
}

func TestScanNoBarcode(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 200, 50))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	path := filepath.Join(dir, "blank.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	_, stderr, err := execute(t, "scan", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "no library card barcode found")
}

func TestScanTryHarderRotated(t *testing.T) {
	img, _, err := renderCard("2123400012345", config.Defaults().Encode)
	require.NoError(t, err)
	b := img.Bounds()
	vertical := image.NewGray(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			vertical.SetGray(y, b.Dx()-1-x, img.GrayAt(x, y))
		}
	}
	path := filepath.Join(t.TempDir(), "vertical.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, vertical))
	require.NoError(t, f.Close())

	_, _, err = execute(t, "scan", path)
	require.Error(t, err)

	out, _, err := execute(t, "scan", "--try-harder", path)
	require.NoError(t, err)
	assert.Equal(t, "[CODABAR] 21234000123453\n", out)
}

func TestScanConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 0\n"), 0o600))

	path := renderFile(t, dir, "a.png", "2123400012345")
	_, _, err := execute(t, "--config", cfgPath, "scan", path)
	require.Error(t, err, "invalid config is reported")

	_, _, err = execute(t, "--config", filepath.Join(dir, "nope.yaml"), "scan", path)
	require.Error(t, err, "explicit config must exist")
}

func TestDownscale(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 400, 100))
	assert.Same(t, img, downscale(img, 0).(*image.Gray))
	assert.Same(t, img, downscale(img, 400).(*image.Gray))

	small := downscale(img, 200)
	assert.Equal(t, image.Rect(0, 0, 200, 50), small.Bounds())
}
