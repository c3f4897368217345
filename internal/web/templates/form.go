package templates

import (
	"strconv"

	"github.com/a-h/templ"
)

// FormData is the state shown on the upload and configuration form.
type FormData struct {
	RosterID    string
	FileName    string
	RecordCount int
	Warning     string

	SchoolName    string
	SchoolAddress string
	FilterField   string
	Target        string

	// Alert is rendered above the form, usually an ErrorAlert.
	Alert templ.Component
}

// Loaded reports whether a roster has been imported.
func (d FormData) Loaded() bool {
	return d.RosterID != ""
}

// FormPage renders the two-step form: upload a roster, then configure and
// generate the card sheets.
func FormPage(d FormData) templ.Component {
	return Page("ID Card Generator", component(func(h *htmlWriter) {
		h.raw(`<div class="panel"><div class="panel-head"><h1>ID Card Generator</h1>`,
			`<p>Upload CSV, Configure, and Print</p></div><div class="panel-body">`)
		h.component(d.Alert)

		// Step 1
		h.raw(`<section><h2>1. Upload Data Source</h2>`,
			`<form method="post" action="/roster" enctype="multipart/form-data">`)
		hidden(h, "school_name", d.SchoolName)
		hidden(h, "school_address", d.SchoolAddress)
		h.raw(`<input type="file" name="file" accept=".csv,.xlsx,.xlsm,text/csv" required> `,
			`<button class="btn btn-light" type="submit">Upload</button></form>`)
		if d.Loaded() {
			h.raw(`<div class="notice notice-ok">`)
			h.text(d.FileName)
			h.raw(`: successfully loaded `, strconv.Itoa(d.RecordCount), ` records.</div>`)
		}
		if d.Warning != "" {
			h.raw(`<div class="notice notice-warn">`)
			h.text(d.Warning)
			h.raw(`</div>`)
		}
		h.raw(`</section>`)

		// Step 2
		h.raw(`<section><h2>2. Configuration</h2>`,
			`<form method="post" action="/sheets" enctype="multipart/form-data">`)
		hidden(h, "roster_id", d.RosterID)
		hidden(h, "field", d.FilterField)
		textInput(h, "school_name", "School Name", d.SchoolName, "e.g. St. Xavier's High School", "")
		textInput(h, "target", "Target "+d.FilterField+" (Filter)", d.Target, "Enter value from CSV", "mono")
		textInput(h, "school_address", "School Address", d.SchoolAddress, "City, State", "")
		h.raw(`<label for="logo">School Logo</label>`,
			`<input id="logo" type="file" name="logo" accept="image/*">`,
			`<p style="text-align:right"><button class="btn" type="submit"`)
		if !d.Loaded() {
			h.raw(` disabled`)
		}
		h.raw(`>Generate Cards</button></p></form></section></div></div>`)
	}))
}

func hidden(h *htmlWriter, name, value string) {
	h.raw(`<input type="hidden" name="`, name, `" value="`)
	h.text(value)
	h.raw(`">`)
}

func textInput(h *htmlWriter, name, label, value, placeholder, class string) {
	h.raw(`<label for="`, name, `">`)
	h.text(label)
	h.raw(`</label><input type="text" id="`, name, `" name="`, name, `" value="`)
	h.text(value)
	h.raw(`" placeholder="`)
	h.text(placeholder)
	h.raw(`"`)
	if class != "" {
		h.raw(` class="`, class, `"`)
	}
	h.raw(`>`)
}
