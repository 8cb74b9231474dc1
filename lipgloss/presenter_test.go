package lipgloss_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/stocargo"
	stocargolipgloss "github.com/fwojciec/stocargo/lipgloss"
	"github.com/fwojciec/stocargo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ambition = stocargo.Record{
		"name":        "Ambition",
		"type":        "Personal",
		"environment": "Space",
		"chartype":    "Captain",
		"isunique":    "1",
		"description": "<b>+5%</b> All Damage",
	}
	betaLock = stocargo.Record{
		"name":        "Beta Lock",
		"type":        "Personal",
		"environment": "Ground",
		"isunique":    float64(0),
	}
	astrometrics = stocargo.Record{
		"doff_specialization": "Astrometrics Scientist",
		"shipdutytype":        "Science",
		"department":          "Science",
		"description":         "Charts stars",
	}
)

func render(t *testing.T, results []stocargo.CategoryResult, opts stocargo.RenderOptions) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, stocargolipgloss.NewPresenter().Render(&buf, results, opts))
	return buf.String()
}

func TestPresenter_Render(t *testing.T) {
	t.Parallel()

	t.Run("condensed table", func(t *testing.T) {
		t.Parallel()

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryPersonalTrait, Matches: []stocargo.Record{ambition, betaLock}},
		}, stocargo.RenderOptions{})

		assert.True(t, strings.HasPrefix(out, "=== PERSONAL TRAIT MATCHES ===\n\n"), out)
		for _, want := range []string{"Name", "Type", "Environment", "Unique", "Ambition", "Beta Lock", "Space", "Ground", "Yes", "No"} {
			assert.Contains(t, out, want)
		}
		assert.Contains(t, out, "+")
		assert.Contains(t, out, "|")
		assert.Less(t, strings.Index(out, "Ambition"), strings.Index(out, "Beta Lock"))
	})

	t.Run("strips cells through converter", func(t *testing.T) {
		t.Parallel()

		upper := stocargo.ConvertFunc(func(s string) (string, error) { return strings.ToUpper(s), nil })

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryDoff, Matches: []stocargo.Record{astrometrics}},
		}, stocargo.RenderOptions{Converter: upper})

		assert.Contains(t, out, "DOff Specialization")
		assert.Contains(t, out, "ASTROMETRICS SCIENTIST")
		assert.Contains(t, out, "CHARTS STARS")
	})

	t.Run("keeps raw value when converter fails", func(t *testing.T) {
		t.Parallel()

		var calls int
		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				calls++
				return "", errors.New("bad markup")
			},
		}

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryDoff, Matches: []stocargo.Record{astrometrics}},
		}, stocargo.RenderOptions{Converter: conv})

		assert.Positive(t, calls)
		assert.Contains(t, out, "Astrometrics Scientist")
		assert.Contains(t, out, "Charts stars")
	})

	t.Run("full mode", func(t *testing.T) {
		t.Parallel()

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryDoff, Matches: []stocargo.Record{astrometrics}},
		}, stocargo.RenderOptions{Full: true})

		want := "=== DOFF MATCHES ===\n\n" + stocargo.FormatRecords(stocargo.CategoryDoff, []stocargo.Record{astrometrics}, nil)
		assert.Equal(t, want, out)
	})

	t.Run("groups in category order", func(t *testing.T) {
		t.Parallel()

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryDoff, Matches: []stocargo.Record{astrometrics}},
			{Category: stocargo.CategoryPersonalTrait, Matches: []stocargo.Record{ambition}},
		}, stocargo.RenderOptions{Full: true})

		traits := strings.Index(out, "=== PERSONAL TRAIT MATCHES ===")
		doffs := strings.Index(out, "=== DOFF MATCHES ===")
		require.GreaterOrEqual(t, traits, 0)
		require.GreaterOrEqual(t, doffs, 0)
		assert.Less(t, traits, doffs)
		assert.Contains(t, out, "\n\n=== DOFF MATCHES ===")
	})

	t.Run("skips failed and empty categories", func(t *testing.T) {
		t.Parallel()

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryEquipment, Err: errors.New("corrupted")},
			{Category: stocargo.CategoryStarshipTrait, Searched: 10},
			{Category: stocargo.CategoryPersonalTrait, Matches: []stocargo.Record{ambition}},
		}, stocargo.RenderOptions{})

		assert.NotContains(t, out, "EQUIPMENT")
		assert.NotContains(t, out, "STARSHIP TRAIT")
		assert.Contains(t, out, "=== PERSONAL TRAIT MATCHES ===")
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryDoff, Searched: 3},
		}, stocargo.RenderOptions{})

		assert.Equal(t, stocargolipgloss.NoMatchesMessage+"\n", out)
	})

	t.Run("caps table width", func(t *testing.T) {
		t.Parallel()

		long := stocargo.Record{
			"doff_specialization": "Astrometrics Scientist",
			"shipdutytype":        "Science",
			"department":          "Science",
			"description":         strings.Repeat("Charts the stars of the Beta Quadrant. ", 10),
		}

		out := render(t, []stocargo.CategoryResult{
			{Category: stocargo.CategoryDoff, Matches: []stocargo.Record{long}},
		}, stocargo.RenderOptions{Width: 60})

		for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
			assert.LessOrEqual(t, utf8.RuneCountInString(line), 60, line)
		}
	})
}
