package cards

import (
	"fmt"

	"github.com/JonMunkholm/idcards/internal/roster"
)

// Sheet geometry in millimetres. These values match pre-perforated A4 card
// stock and must not change independently of each other.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0

	CardWidthMM  = 86.0
	CardHeightMM = 54.0
	CardRadiusMM = 3.0

	Columns = 2
	Rows    = 5

	GapMM = 10.0

	PaddingTopMM  = 13.5
	PaddingSideMM = 14.0 // (210 - (86*2 + 10)) / 2

	// GuideInsetMM keeps the vertical cut guide off the page edges.
	GuideInsetMM = 10.0
)

// CardsPerSheet is the number of cards printed on one page.
const CardsPerSheet = Columns * Rows

// Sheet is one printable page of cards.
type Sheet struct {
	Number int    `json:"number"` // 1-based
	School School `json:"school"`
	Cards  []Card `json:"cards"`
}

// Paginate splits records into consecutive chunks of at most size, preserving order.
// A non-positive size uses CardsPerSheet.
func Paginate(records []roster.Record, size int) [][]roster.Record {
	if size <= 0 {
		size = CardsPerSheet
	}

	pages := make([][]roster.Record, 0, (len(records)+size-1)/size)
	for i := 0; i < len(records); i += size {
		end := min(i+size, len(records))
		pages = append(pages, records[i:end])
	}
	return pages
}

// BuildSheets lays records out on sheets of CardsPerSheet cards.
// Cards without an "id" field are keyed by their position on the sheet.
func BuildSheets(records []roster.Record, school School) []Sheet {
	pages := Paginate(records, CardsPerSheet)
	sheets := make([]Sheet, len(pages))
	for i, page := range pages {
		cards := make([]Card, len(page))
		for j, rec := range page {
			cards[j] = NewCard(rec)
			if cards[j].Key == "" {
				cards[j].Key = fmt.Sprintf("%d-%d", i+1, j)
			}
		}
		sheets[i] = Sheet{Number: i + 1, School: school, Cards: cards}
	}
	return sheets
}

// HorizontalGuidesMM returns the top offsets of the dashed cut lines drawn in
// the middle of each gap between card rows.
func HorizontalGuidesMM() []float64 {
	guides := make([]float64, 0, Rows-1)
	for row := 1; row < Rows; row++ {
		top := PaddingTopMM + float64(row)*CardHeightMM + float64(row-1)*GapMM + GapMM/2
		guides = append(guides, top)
	}
	return guides
}
