package editor

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/archviz/studio/internal/catalog"
	"codeberg.org/archviz/studio/internal/imageops"
)

func TestUpload_MainResetsHistoryWithoutResult(t *testing.T) {
	f := newFixture(t)
	s := f.session

	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Upload(SlotMain, pngImage(t, 3, 2)))

	v := s.View()
	assert.Equal(t, StateLoaded, v.State)
	assert.Equal(t, 1, v.HistoryLength)
	assert.Equal(t, 0, v.HistoryCursor)
}

func TestUpload_MainKeepsHistoryWhenResultPresent(t *testing.T) {
	f := newFixture(t)
	s := f.session

	s.result = pngImage(t, 4, 2)
	s.history.Reset(s.result)
	s.history.Push(pngImage(t, 2, 4))

	require.NoError(t, s.Upload(SlotMain, pngImage(t, 3, 2)))

	assert.Equal(t, 2, s.View().HistoryLength)
	assert.Equal(t, StateResult, s.State())
}

func TestRemove_MainClearsHistory(t *testing.T) {
	f := newFixture(t)
	s := f.session

	require.NoError(t, s.Upload(SlotMain, pngImage(t, 3, 2)))
	require.NoError(t, s.Remove(SlotMain))

	v := s.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Equal(t, -1, v.HistoryCursor)

	assert.ErrorIs(t, s.Remove(Slot("thumbnail")), ErrInvalidSlot)
}

func TestSetSelections_Validation(t *testing.T) {
	s := newFixture(t).session

	sel, err := s.SetSelections(Selections{Category: catalog.CategoryExterior, ArchStyle: "brutalist"})
	require.NoError(t, err)
	assert.Equal(t, "brutalist", sel.ArchStyle)
	assert.Equal(t, catalog.DefaultRenderStyle, sel.RenderStyle)
	assert.Equal(t, catalog.ModeStandard, sel.InteriorMode)

	_, err = s.SetSelections(Selections{RenderStyle: "watercolor"})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = s.SetSelections(Selections{Category: "roof"})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = s.SetSelections(Selections{Scene: "moon"})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = s.SetSelections(Selections{InteriorMode: "from_4d"})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestBuildPrompt_UsesSessionImages(t *testing.T) {
	s := newFixture(t).session

	_, err := s.SetSelections(Selections{Prompt: "red brick house"})
	require.NoError(t, err)
	withoutMain := s.BuildPrompt()

	require.NoError(t, s.Upload(SlotMain, pngImage(t, 3, 2)))
	withMain := s.BuildPrompt()

	assert.NotEqual(t, withoutMain, withMain)
	assert.Contains(t, withMain, "[STRICT CONSTRAINT]")
	assert.Equal(t, withMain, s.BuildPrompt())
}

func TestApplyTransform_RotateThenUndoRedo(t *testing.T) {
	s := newFixture(t).session

	_, err := s.ApplyTransform(imageops.Rotate90)
	assert.ErrorIs(t, err, ErrNoImage)

	require.NoError(t, s.Upload(SlotMain, pngImage(t, 3, 2)))

	out, err := s.ApplyTransform(imageops.Rotate90)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 3, out.Height)

	v := s.View()
	assert.Equal(t, 2, v.HistoryLength)
	assert.Equal(t, 2, v.Main.Width)

	moved, err := s.Undo()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 3, s.View().Main.Width)

	moved, err = s.Undo()
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = s.Redo()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, s.View().Main.Width)

	moved, err = s.Redo()
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestApplyTransform_ActsOnResult(t *testing.T) {
	s := newFixture(t).session

	require.NoError(t, s.Upload(SlotMain, pngImage(t, 3, 2)))
	s.result = pngImage(t, 4, 2)
	s.history.Reset(s.result)

	_, err := s.ApplyTransform(imageops.FlipHorizontal)
	require.NoError(t, err)

	v := s.View()
	assert.Equal(t, 3, v.Main.Width)
	assert.Equal(t, 4, v.Result.Width)
	assert.Equal(t, 2, v.HistoryLength)
}

func TestReset(t *testing.T) {
	s := newFixture(t).session

	require.NoError(t, s.Upload(SlotMain, pngImage(t, 3, 2)))
	require.NoError(t, s.Upload(SlotReference, pngImage(t, 2, 2)))
	_, err := s.SetSelections(Selections{
		Category:          catalog.CategoryInterior,
		InteriorMode:      catalog.ModeFrom2D,
		Prompt:            "cozy",
		AdditionalCommand: "add plants",
	})
	require.NoError(t, err)
	s.result = pngImage(t, 4, 2)

	require.NoError(t, s.Reset())

	v := s.View()
	assert.Equal(t, StateLoaded, v.State)
	assert.Nil(t, v.Result)
	assert.Nil(t, v.Reference)
	assert.NotNil(t, v.Main)
	assert.Empty(t, v.Selections.Prompt)
	assert.Empty(t, v.Selections.AdditionalCommand)
	assert.Equal(t, catalog.ModeStandard, v.Selections.InteriorMode)
	assert.Equal(t, catalog.CategoryInterior, v.Selections.Category)
	assert.Equal(t, 1, v.HistoryLength)
	assert.Equal(t, 0, v.HistoryCursor)
}

func TestReset_WithoutMainClearsHistory(t *testing.T) {
	s := newFixture(t).session
	s.result = pngImage(t, 4, 2)
	s.history.Reset(s.result)

	require.NoError(t, s.Reset())

	v := s.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Equal(t, -1, v.HistoryCursor)
}

func TestUseAsInput(t *testing.T) {
	s := newFixture(t).session

	assert.ErrorIs(t, s.UseAsInput(), ErrNoImage)

	result := pngImage(t, 4, 2)
	s.result = result
	s.state = StateResult

	require.NoError(t, s.UseAsInput())

	v := s.View()
	assert.Equal(t, StateLoaded, v.State)
	assert.Nil(t, v.Result)
	assert.Equal(t, 4, v.Main.Width)
	assert.Equal(t, 1, v.HistoryLength)
}

func TestDownload(t *testing.T) {
	s := newFixture(t).session

	_, _, err := s.Download()
	assert.ErrorIs(t, err, ErrNoImage)

	s.result = pngImage(t, 4, 2)

	data, name, err := s.Download()
	require.NoError(t, err)
	assert.Equal(t, s.result.Data, data)
	assert.Equal(t, "generated-ai-1741597200000.png", name)
}

func TestDownload_ConvertsJPEGResultToPNG(t *testing.T) {
	s := newFixture(t).session

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 5, 3)), nil))

	result, err := imageops.Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", result.MimeType)

	s.result = result

	data, name, err := s.Download()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	assert.Contains(t, name, ".png")

	out, err := imageops.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.MimeType)
	assert.Equal(t, 5, out.Width)
	assert.Equal(t, 3, out.Height)
}
