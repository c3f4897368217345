package templates

import "github.com/a-h/templ"

// ErrorAlert renders an error message fragment with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if code != "" {
			h.raw(` (Code: `)
			h.text(code)
			h.raw(`)`)
		}
		if action != "" {
			h.raw(`<small>`)
			h.text(action)
			h.raw(`</small>`)
		}
		h.raw(`</div>`)
	})
}

// ErrorPage renders an error on its own page with a link back to the form.
func ErrorPage(message, action, code string) templ.Component {
	return Page("Error", component(func(h *htmlWriter) {
		h.raw(`<div class="panel"><div class="panel-body">`)
		h.component(ErrorAlert(message, action, code))
		h.raw(`<a class="btn btn-light" href="/">Back</a></div></div>`)
	}))
}
