package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeLastWriteWinsPerField(t *testing.T) {
	t.Parallel()

	patches := []Patch{
		TitlePatch("first"),
		FgScalePatch(1.5),
		TitlePatch("second"),
		FgPositionPatch(10, 20),
		TitleColorPatch("#FF0000"),
		FgPositionPatch(30, 40),
	}

	got := DefaultThumbnail()
	for _, p := range patches {
		got = got.Merge(p)
	}

	want := DefaultThumbnail()
	want.Title = "second"
	want.FgScale = 1.5
	want.FgPosition = Position{X: 30, Y: 40}
	want.TitleColor = "#FF0000"

	require.Equal(t, want, got)
}

func TestMergeLeavesReceiverUntouched(t *testing.T) {
	t.Parallel()

	base := DefaultThumbnail()
	merged := base.Merge(TitleFontStylePatch(base.TitleFontStyle.Add(StyleItalic)))

	require.False(t, base.TitleFontStyle.Has(StyleItalic))
	require.True(t, merged.TitleFontStyle.Has(StyleItalic))
}

func TestMergeEmptyPatchIsIdentity(t *testing.T) {
	t.Parallel()

	base := DefaultThumbnail()
	require.True(t, Patch{}.IsEmpty())
	require.Equal(t, base, base.Merge(Patch{}))
}

func TestMergePositionReplacesBothAxes(t *testing.T) {
	t.Parallel()

	d := DefaultThumbnail().Merge(FgPositionPatch(0, 100))
	require.Equal(t, Position{X: 0, Y: 100}, d.FgPosition)

	d = d.Merge(FgPositionPatch(75, 25))
	require.Equal(t, Position{X: 75, Y: 25}, d.FgPosition)
}

func TestMergeKeepsOutOfRangeValues(t *testing.T) {
	t.Parallel()

	d := DefaultThumbnail().
		Merge(TitleFontSizePatch(500)).
		Merge(TitleSpacingPatch(-40)).
		Merge(FgScalePatch(0)).
		Merge(FgRotationPatch(720))

	require.Equal(t, 500.0, d.TitleFontSize)
	require.Equal(t, -40.0, d.TitleSpacing)
	require.Equal(t, 0.0, d.FgScale)
	require.Equal(t, 720.0, d.FgRotation)
	require.False(t, TitleFontSizeRange.Contains(d.TitleFontSize))
	require.False(t, FgRotationRange.Contains(d.FgRotation))
}

func TestImagePatchTargetsLayer(t *testing.T) {
	t.Parallel()

	ref := DataImage("data:image/png;base64,AA==")

	bg := DefaultThumbnail().Merge(ImagePatch(LayerBackground, ref))
	require.Equal(t, ref, bg.BgImage)
	require.Equal(t, PlaceholderImage(PlaceholderForeground), bg.FgImage)

	fg := DefaultThumbnail().Merge(ImagePatch(LayerForeground, ref))
	require.Equal(t, ref, fg.Image(LayerForeground))
	require.Equal(t, PlaceholderImage(PlaceholderBackground), fg.Image(LayerBackground))
}

func TestPatchFields(t *testing.T) {
	t.Parallel()

	p := TitlePatch("x")
	p.FgPosition = &Position{X: 1, Y: 2}
	require.Equal(t, []string{"title", "fgPosition"}, p.Fields())
}

func TestParseLayer(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Layer{
		"background": LayerBackground,
		"bgImage":    LayerBackground,
		"FG":         LayerForeground,
		"foreground": LayerForeground,
	} {
		got, err := ParseLayer(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLayer("title")
	require.ErrorIs(t, err, ErrUnknownLayer)
}
