package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/JonMunkholm/idcards/internal/roster"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestFormPage(t *testing.T) {
	t.Run("before upload", func(t *testing.T) {
		out := render(t, FormPage(FormData{SchoolName: "My High School", FilterField: "uid"}))

		assert.Contains(t, out, `action="/roster"`)
		assert.Contains(t, out, `value="My High School"`)
		assert.Contains(t, out, "Target uid (Filter)")
		assert.Contains(t, out, ` disabled>Generate Cards`)
		assert.NotContains(t, out, "successfully loaded")
	})

	t.Run("after upload", func(t *testing.T) {
		out := render(t, FormPage(FormData{
			RosterID:    "r-1",
			FileName:    "class.csv",
			RecordCount: 12,
			Warning:     "A quoted field was never closed",
			FilterField: "uid",
			Target:      "S1",
			Alert:       ErrorAlert("Bad", "Retry", "ERR000"),
		}))

		assert.Contains(t, out, `name="roster_id" value="r-1"`)
		assert.Contains(t, out, "class.csv: successfully loaded 12 records.")
		assert.Contains(t, out, "notice-warn")
		assert.Contains(t, out, `name="target" value="S1"`)
		assert.Contains(t, out, "(Code: ERR000)")
		assert.NotContains(t, out, "disabled")
	})

	t.Run("escapes values", func(t *testing.T) {
		out := render(t, FormPage(FormData{SchoolName: `"><script>alert(1)</script>`}))
		assert.NotContains(t, out, "<script>alert(1)")
	})
}

func TestPrintSheet(t *testing.T) {
	records := []roster.Record{
		roster.NewRecord("name", "Asha Rao", "class", "10-A", "roll_number", "7",
			"date_of_birth", "2008-03-15", "photo_url", "https://example.com/a.jpg"),
		roster.NewRecord("name", "Ravi <b>", "id_number", "ID-9"),
	}
	sheets := cards.BuildSheets(records, cards.School{Name: "hill view", LogoURL: "data:image/png;base64,AAAA"})
	require.Len(t, sheets, 1)

	out := render(t, PrintSheet(sheets[0]))

	assert.Equal(t, 2, strings.Count(out, `class="card"`))
	assert.Equal(t, cards.Rows-1, strings.Count(out, `class="guide-h"`))
	for _, top := range []string{"72.5mm", "136.5mm", "200.5mm", "264.5mm"} {
		assert.Contains(t, out, "top:"+top)
	}

	assert.Contains(t, out, "HILL VIEW")
	assert.Contains(t, out, cards.DefaultSchoolAddress)
	assert.Contains(t, out, `src="data:image/png;base64,AAAA"`)

	assert.Contains(t, out, "ASHA RAO")
	assert.Contains(t, out, "15/03/2008")
	assert.Contains(t, out, "ID: 7")
	assert.Contains(t, out, `src="https://example.com/a.jpg"`)
	assert.Contains(t, out, cards.PhotoFallbackURL)

	assert.Contains(t, out, "RAVI &lt;B&gt;")
	assert.Contains(t, out, "ID: ID-9")
	assert.Contains(t, out, cards.NoPhoto)
	assert.Contains(t, out, "<dt>Mobile:</dt><dd>N/A</dd>")
}

func TestIDCard_UnsafeImages(t *testing.T) {
	card := cards.Card{Name: "X", PhotoURL: "javascript:alert(1)"}
	out := render(t, IDCard(card, cards.School{LogoURL: "javascript:alert(2)"}))

	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, cards.NoPhoto)
	assert.Contains(t, out, ">"+cards.LogoPlaceholder+"<")
}

func TestSheetPage(t *testing.T) {
	recs := make([]roster.Record, 11)
	for i := range recs {
		recs[i] = roster.NewRecord("name", "S")
	}
	out := render(t, SheetPage(SheetView{Matched: 11, Sheets: cards.BuildSheets(recs, cards.School{}), BackURL: "/"}))

	assert.Equal(t, 2, strings.Count(out, `class="sheet"`))
	assert.Contains(t, out, "11 students on 2 sheets")
	assert.Contains(t, out, "window.print()")
	assert.Contains(t, out, `href="/"`)
	assert.Contains(t, out, "grid-template-columns:repeat(2,86mm)")
	assert.Contains(t, out, "padding:13.5mm 14mm")

	empty := render(t, SheetPage(SheetView{}))
	assert.Contains(t, empty, "No students found.")
	assert.NotContains(t, empty, "Back</a>")
}

func TestImageSrc(t *testing.T) {
	tests := map[string]string{
		"https://x/y.png":        "https://x/y.png",
		" http://x/y.png ":       "http://x/y.png",
		"data:image/png;base64,": "data:image/png;base64,",
		"/static/a.png":          "/static/a.png",
		"//evil.example/a.png":   "",
		"data:text/html,hi":      "",
		"javascript:alert(1)":    "",
		"":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, imageSrc(in), in)
	}
}
