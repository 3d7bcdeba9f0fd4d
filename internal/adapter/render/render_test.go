package render

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/windrose-etl/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// windTable has one reading every hour of 2019 with a rotating direction.
func windTable() domain.Table {
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	var t domain.Table
	for i := 0; i < 365*24; i++ {
		t = append(t, domain.Observation{
			Time:      start.Add(time.Duration(i) * time.Hour),
			Speed:     domain.Reading(float64(i%12) + 0.2),
			Direction: domain.Reading(float64((i * 37) % 360)),
		})
	}
	return t
}

func TestSplitPanels(t *testing.T) {
	table := windTable()
	style := domain.DefaultStyle()

	tests := []struct {
		rose   domain.RoseType
		titles []string
	}{
		{domain.RoseDefault, []string{""}},
		{domain.RoseSeason, []string{"spring (SON)", "summer (DJF)", "autumn (MAM)", "winter (JJA)"}},
		{domain.RoseDaylight, []string{"daylight", "nighttime"}},
	}
	for _, tt := range tests {
		t.Run(tt.rose.Name(), func(t *testing.T) {
			panels := splitPanels(table, tt.rose, style)
			require.Len(t, panels, len(tt.titles))
			total := 0
			for i, p := range panels {
				assert.Equal(t, tt.titles[i], p.Title)
				total += len(p.Table)
			}
			assert.Equal(t, len(table), total, "every row lands in exactly one panel")
		})
	}
}

func TestSplitPanels_SeasonDaylightAndMonth(t *testing.T) {
	style := domain.DefaultStyle()

	panels := splitPanels(windTable(), domain.RoseSeasonsDaylight, style)
	require.Len(t, panels, 8)
	assert.Equal(t, "spring (SON) / daylight", panels[0].Title)
	assert.Equal(t, "spring (SON) / nighttime", panels[1].Title)

	months := splitPanels(windTable(), domain.RoseMonth, style)
	require.Len(t, months, 12)
	assert.Equal(t, "January", months[0].Title)
	assert.Len(t, months[1].Table, 28*24)
}

func TestSplitPanels_NorthernSeasons(t *testing.T) {
	style := domain.DefaultStyle()
	style.Hemisphere = "northern"

	panels := splitPanels(windTable(), domain.RoseSeason, style)
	assert.Equal(t, "summer (JJA)", panels[1].Title)
	assert.Len(t, panels[1].Table, (30+31+31)*24)
}

func TestIsDaylight(t *testing.T) {
	lat, lon := -33.9, 151.2
	assert.True(t, isDaylight(time.Date(2019, 1, 15, 12, 0, 0, 0, time.UTC), lat, lon))
	assert.False(t, isDaylight(time.Date(2019, 1, 15, 0, 0, 0, 0, time.UTC), lat, lon))
	assert.True(t, isDaylight(time.Date(2019, 12, 21, 18, 0, 0, 0, time.UTC), lat, lon), "summer evening")
	assert.False(t, isDaylight(time.Date(2019, 6, 21, 18, 0, 0, 0, time.UTC), lat, lon), "winter evening")
}

func TestRadialScale(t *testing.T) {
	style := domain.DefaultStyle()
	hist := domain.BinRose(windTable(), style.Categories, style.RayAngle)

	scale := radialScale([]domain.RoseHistogram{hist}, style)
	assert.Positive(t, scale)
	assert.Zero(t, int(scale)%style.GridSpacing)

	capped := 40
	style.MaxFreq = &capped
	assert.InDelta(t, 40, radialScale([]domain.RoseHistogram{hist}, style), 0)
}

func TestDraw_ProducesPNGOfRoseSize(t *testing.T) {
	req := domain.NewRenderRequest("Sydney", domain.RoseSeason, domain.AllDataLabel, windTable(), domain.DefaultStyle())

	var buf bytes.Buffer
	require.NoError(t, draw(&buf, req))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 1200, img.Bounds().Dy())
}

func TestRenderer_Render(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r, err := NewRenderer(dir, "run1", true, discardLogger())
	require.NoError(t, err)

	req := domain.NewRenderRequest("Sydney", domain.RoseDefault, "2019", windTable(), domain.DefaultStyle())
	path, err := r.Render(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "run1_Sydney_default_2019.png"), path)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(dir, "run1_Sydney_default_2019_transparent.png"))
}

func TestRenderer_TransparentOnlyForDefaultRose(t *testing.T) {
	dir := t.TempDir()
	r := &Renderer{Dir: dir, Transparent: true}

	req := domain.NewRenderRequest("Sydney", domain.RoseDaylight, domain.AllDataLabel, windTable(), domain.DefaultStyle())
	_, err := r.Render(context.Background(), req)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sydney_daylight_all_data.png", entries[0].Name())
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Renderer{Dir: t.TempDir()}
	_, err := r.Render(ctx, domain.RenderRequest{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteTransparentCopy(t *testing.T) {
	dir := t.TempDir()
	req := domain.NewRenderRequest("Sydney", domain.RoseDefault, domain.AllDataLabel, windTable(), domain.DefaultStyle())
	path := filepath.Join(dir, req.FileName())

	var buf bytes.Buffer
	require.NoError(t, draw(&buf, req))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	out, err := writeTransparentCopy(path)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a, "white corner becomes transparent")
}
