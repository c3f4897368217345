package templates

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/a-h/templ"
)

// Page wraps body in the shared document shell.
func Page(title string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		h.text(title)
		h.raw(`</title><style>`, stylesheet, `</style></head><body>`)
		h.component(body)
		h.raw(`</body></html>`)
	})
}

var stylesheet = buildStylesheet()

func buildStylesheet() string {
	var b strings.Builder
	b.WriteString(`
*{box-sizing:border-box}
body{margin:0;font-family:system-ui,-apple-system,"Segoe UI",Roboto,sans-serif;background:#f3f4f6;color:#1f2937}
.panel{max-width:42rem;margin:2rem auto;background:#fff;border-radius:.75rem;box-shadow:0 10px 25px rgba(0,0,0,.1);overflow:hidden}
.panel-head{background:#2563eb;color:#fff;padding:1.5rem}
.panel-head h1{margin:0;font-size:1.5rem}
.panel-head p{margin:.25rem 0 0;color:#dbeafe;font-size:.875rem}
.panel-body{padding:2rem}
.panel-body section{margin-bottom:2rem}
.panel-body h2{font-size:1.1rem;color:#374151}
label{display:block;font-size:.875rem;color:#4b5563;margin:.75rem 0 .25rem}
input[type=text]{width:100%;padding:.5rem;border:1px solid #d1d5db;border-radius:.375rem}
.mono{font-family:ui-monospace,monospace}
.btn{display:inline-block;padding:.6rem 1.4rem;border:0;border-radius:.5rem;background:#2563eb;color:#fff;font-weight:600;cursor:pointer;text-decoration:none}
.btn-light{background:#fff;color:#374151;border:1px solid #d1d5db}
.notice{padding:.5rem 1rem;border-radius:.375rem;font-size:.875rem;margin-top:.75rem}
.notice-ok{background:#f0fdf4;color:#15803d;border:1px solid #bbf7d0}
.notice-warn{background:#fffbeb;color:#b45309;border:1px solid #fde68a}
.alert{background:#fef2f2;color:#b91c1c;border:1px solid #fecaca;padding:.75rem 1rem;border-radius:.375rem;margin-bottom:1rem}
.alert small{display:block;color:#7f1d1d;margin-top:.25rem}
.toolbar{display:flex;justify-content:space-between;align-items:center;max-width:210mm;margin:1rem auto}
`)

	fmt.Fprintf(&b, `.sheet{position:relative;background:#fff;width:%s;height:%s;padding:%s %s;margin:0 auto 8mm;box-shadow:0 4px 12px rgba(0,0,0,.15);display:grid;grid-template-columns:repeat(%d,%s);grid-template-rows:repeat(%d,%s);gap:%s;page-break-after:always;break-after:page}
`,
		mm(cards.PageWidthMM), mm(cards.PageHeightMM),
		mm(cards.PaddingTopMM), mm(cards.PaddingSideMM),
		cards.Columns, mm(cards.CardWidthMM),
		cards.Rows, mm(cards.CardHeightMM),
		mm(cards.GapMM),
	)
	fmt.Fprintf(&b, `.guide-v{position:absolute;left:50%%;top:%s;bottom:%s;border-left:1px dashed #d1d5db;pointer-events:none}
.guide-h{position:absolute;left:0;width:100%%;border-top:1px dashed #d1d5db;pointer-events:none}
`, mm(cards.GuideInsetMM), mm(cards.GuideInsetMM))
	fmt.Fprintf(&b, `.card{position:relative;z-index:1;width:%s;height:%s;border-radius:%s;border:1px solid #d1d5db;background:#fff;overflow:hidden;display:flex;flex-direction:column}
`, mm(cards.CardWidthMM), mm(cards.CardHeightMM), mm(cards.CardRadiusMM))

	b.WriteString(`.card-head{background:#1e40af;color:#fff;height:14mm;padding:1.5mm;display:flex;align-items:center;gap:2mm}
.card-logo{height:8mm;width:8mm;border-radius:50%;background:#fff;object-fit:contain;padding:.5mm}
.card-logo-empty{height:8mm;width:8mm;border-radius:50%;background:rgba(255,255,255,.2);display:flex;align-items:center;justify-content:center;font-size:8px}
.card-school{flex:1;text-align:center;overflow:hidden;line-height:1.2}
.card-school h1{margin:0;font-size:10px;letter-spacing:.05em;white-space:nowrap;overflow:hidden;text-overflow:ellipsis}
.card-school p{margin:0;font-size:6px;opacity:.9;white-space:nowrap;overflow:hidden;text-overflow:ellipsis}
.card-body{flex:1;display:flex;gap:2mm;padding:2mm;align-items:center}
.card-photo-col{width:22mm;display:flex;flex-direction:column;align-items:center}
.card-photo{width:20mm;height:24mm;border:1px solid #bfdbfe;background:#f9fafb;display:flex;align-items:center;justify-content:center;overflow:hidden;border-radius:1px}
.card-photo img{width:100%;height:100%;object-fit:cover}
.card-photo span{font-size:8px;color:#9ca3af}
.card-id{font-size:7px;font-weight:700;margin-top:1mm;color:#1e40af}
.card-details{flex:1;font-size:8px;line-height:1.3;overflow:hidden}
.card-details h2{margin:0 0 .5mm;font-size:11px;color:#1e3a8a;border-bottom:1px solid #dbeafe;white-space:nowrap;overflow:hidden;text-overflow:ellipsis}
.card-details dl{display:grid;grid-template-columns:35px 1fr;column-gap:1mm;margin:0}
.card-details dt{font-weight:600;color:#4b5563}
.card-details dd{margin:0;color:#1f2937;white-space:nowrap;overflow:hidden;text-overflow:ellipsis}
.card-foot{height:6mm;background:#eff6ff;border-top:1px solid #dbeafe;display:flex;align-items:center;justify-content:space-between;padding:0 2mm;font-size:6px}
.card-foot .addr{color:#6b7280;width:66%;white-space:nowrap;overflow:hidden;text-overflow:ellipsis}
.card-foot .sig{color:#1e40af;font-weight:700}
@page{size:A4;margin:0}
@media print{body{background:#fff}.no-print{display:none}.sheet{margin:0;box-shadow:none}}
`)
	return b.String()
}
