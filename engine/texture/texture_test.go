package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestSourceValidate(t *testing.T) {
	assert.NoError(t, FromPath("a.png").Validate())
	assert.NoError(t, FromProcedural(Procedural{Kind: ProceduralChecker}).Validate())
	assert.Error(t, Source{}.Validate())
	assert.Error(t, Source{Path: "a.png", Procedural: &Procedural{Kind: ProceduralChecker}}.Validate())
	assert.Error(t, FromProcedural(Procedural{Kind: "marble"}).Validate())
	assert.Error(t, FromProcedural(Procedural{Kind: ProceduralChecker, Size: -1}).Validate())
}

func TestSourceKeyAppliesDefaults(t *testing.T) {
	a := FromProcedural(Procedural{Kind: ProceduralChecker})
	b := FromProcedural(Procedural{Kind: ProceduralChecker, Size: DefaultSize, Cells: 8})
	c := FromProcedural(Procedural{Kind: ProceduralChecker, Size: 64})
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "file:x.png", FromPath("x.png").Key())
}

func TestSourceLinear(t *testing.T) {
	assert.True(t, FromProcedural(Procedural{Kind: ProceduralFlatNormal}).Linear())
	assert.True(t, FromProcedural(Procedural{Kind: ProceduralBricksNormal}).Linear())
	assert.False(t, FromProcedural(Procedural{Kind: ProceduralBricks}).Linear())
	assert.True(t, FromPath("stone_normal.png").Linear())
	assert.False(t, FromPath("stone_albedo.png").Linear())
}

func TestGenerateChecker(t *testing.T) {
	img := Procedural{
		Kind:   ProceduralChecker,
		Size:   16,
		Cells:  2,
		ColorA: common.Hex(0xff0000),
		ColorB: common.Hex(0x0000ff),
	}.Generate()

	require.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(8, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 8))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(15, 15))
}

func TestGenerateFlatNormal(t *testing.T) {
	img := Procedural{Kind: ProceduralFlatNormal, Size: 4}.Generate()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, color.RGBA{R: 128, G: 128, B: 255, A: 255}, img.RGBAAt(x, y))
		}
	}
}

func TestGenerateBricksNormalTiltsAtMortarEdges(t *testing.T) {
	p := Procedural{Kind: ProceduralBricksNormal, Size: 64, Cells: 4}
	img := p.Generate()

	// Center of the first brick is flat.
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 255, A: 255}, img.RGBAAt(16, 8))

	tilted := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if img.RGBAAt(x, y).B < 255 {
				tilted++
			}
		}
	}
	assert.Greater(t, tilted, 0)
}

func TestDecodePNG(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", 3, 2, color.RGBA{R: 255, A: 255})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	data, format, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, uint32(3), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	require.Len(t, data.Pixels, 3*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, data.Pixels[:4])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestLoaderLoadCaches(t *testing.T) {
	l := NewLoader()
	src := FromProcedural(Procedural{Kind: ProceduralChecker, Size: 8})

	first, err := l.Load(src)
	require.NoError(t, err)
	second, err := l.Load(src)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, l.Get(src.Key()))
	assert.Nil(t, l.Get("file:missing.png"))
}

func TestLoaderLoadRelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "wall_normal.png", 2, 2, color.RGBA{R: 128, G: 128, B: 255, A: 255})

	l := NewLoader(WithBaseDir(dir))
	data, err := l.Load(FromPath("wall_normal.png"))
	require.NoError(t, err)
	assert.True(t, data.Linear)
	assert.Equal(t, uint32(2), data.Width)
}

func TestLoaderLoadAllPreservesOrder(t *testing.T) {
	l := NewLoader(WithWorkers(3))
	sources := []Source{
		FromProcedural(Procedural{Kind: ProceduralChecker, Size: 8}),
		FromProcedural(Procedural{Kind: ProceduralFlatNormal, Size: 4}),
		FromProcedural(Procedural{Kind: ProceduralBricks, Size: 32}),
		FromProcedural(Procedural{Kind: ProceduralChecker, Size: 8}),
	}

	results, err := l.LoadAll(sources)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, uint32(8), results[0].Width)
	assert.Equal(t, uint32(4), results[1].Width)
	assert.Equal(t, uint32(32), results[2].Width)
	assert.Equal(t, results[0].Pixels, results[3].Pixels)
}

func TestLoaderLoadAllReportsFailures(t *testing.T) {
	l := NewLoader(WithBaseDir(t.TempDir()))
	sources := []Source{
		FromProcedural(Procedural{Kind: ProceduralChecker, Size: 8}),
		FromPath("missing.png"),
	}

	results, err := l.LoadAll(sources)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
}

func TestLoaderLoadAllEmpty(t *testing.T) {
	results, err := NewLoader().LoadAll(nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
