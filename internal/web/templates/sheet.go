package templates

import (
	"strconv"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/a-h/templ"
)

// SheetView is the print preview for a set of sheets.
type SheetView struct {
	Title   string
	Matched int
	Sheets  []cards.Sheet
	BackURL string // empty hides the back link
}

// SheetPage renders the print preview with a toolbar that is hidden when printing.
func SheetPage(v SheetView) templ.Component {
	title := v.Title
	if title == "" {
		title = "ID Cards"
	}
	return Page(title, component(func(h *htmlWriter) {
		h.raw(`<div class="toolbar no-print"><span>`)
		if v.BackURL != "" {
			h.raw(`<a class="btn btn-light" href="`)
			h.text(string(templ.URL(v.BackURL)))
			h.raw(`">Back</a> `)
		}
		h.raw(strconv.Itoa(v.Matched), ` students on `, strconv.Itoa(len(v.Sheets)), ` sheets</span>`,
			`<button class="btn" type="button" onclick="window.print()">Print</button></div>`)

		if len(v.Sheets) == 0 {
			h.raw(`<p style="text-align:center;color:#6b7280">No students found.</p>`)
		}
		for _, sheet := range v.Sheets {
			h.component(PrintSheet(sheet))
		}
	}))
}

// PrintSheet renders one A4 page of cards with dashed cut guides.
func PrintSheet(sheet cards.Sheet) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="sheet" data-sheet="`, strconv.Itoa(sheet.Number), `">`)
		h.raw(`<div class="guide-v"></div>`)
		for _, top := range cards.HorizontalGuidesMM() {
			h.raw(`<div class="guide-h" style="top:`, mm(top), `"></div>`)
		}
		for _, card := range sheet.Cards {
			h.component(IDCard(card, sheet.School))
		}
		h.raw(`</div>`)
	})
}

// IDCard renders a single 86x54mm card.
func IDCard(c cards.Card, school cards.School) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card" data-key="`)
		h.text(c.Key)
		h.raw(`">`)

		// Header
		h.raw(`<div class="card-head">`)
		if src := imageSrc(school.LogoURL); src != "" {
			h.raw(`<img class="card-logo" alt="Logo" src="`)
			h.text(src)
			h.raw(`">`)
		} else {
			h.raw(`<div class="card-logo-empty">`, cards.LogoPlaceholder, `</div>`)
		}
		h.raw(`<div class="card-school"><h1>`)
		h.text(school.DisplayName())
		h.raw(`</h1><p>`)
		h.text(school.DisplayAddress())
		h.raw(`</p></div></div>`)

		// Body
		h.raw(`<div class="card-body"><div class="card-photo-col"><div class="card-photo">`)
		if src := imageSrc(c.PhotoURL); src != "" {
			h.raw(`<img alt="`)
			h.text(c.Name)
			h.raw(`" src="`)
			h.text(src)
			h.raw(`" onerror="this.onerror=null;this.src='`, cards.PhotoFallbackURL, `'">`)
		} else {
			h.raw(`<span>`, cards.NoPhoto, `</span>`)
		}
		h.raw(`</div><span class="card-id">ID: `)
		h.text(c.IDLabel)
		h.raw(`</span></div>`)

		h.raw(`<div class="card-details"><h2>`)
		h.text(c.Name)
		h.raw(`</h2><dl>`)
		detail(h, "Class:", c.Class)
		detail(h, "Roll No:", c.RollNumber)
		detail(h, "DOB:", c.DateOfBirth)
		detail(h, "Father:", c.FatherName)
		detail(h, "Mobile:", c.Mobile)
		h.raw(`</dl></div></div>`)

		// Footer
		h.raw(`<div class="card-foot"><div class="addr">Addr: `)
		h.text(c.Address)
		h.raw(`</div><div class="sig">Principal Sig.</div></div></div>`)
	})
}

func detail(h *htmlWriter, label, value string) {
	h.raw(`<dt>`, label, `</dt><dd>`)
	h.text(value)
	h.raw(`</dd>`)
}
