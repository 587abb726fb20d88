package extract

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gradewatch/gradewatch/internal/gauge"
	"github.com/gradewatch/gradewatch/pkg/types"
)

// Report markup selectors.
const (
	selDataCenter     = "li.report-dc"
	selDataCenterName = ".report-dc__name"
	selServerCard     = ".server-card"
	selServerName     = ".server-card__name"
	selServerStatus   = ".server-card__status"
	selServerGrade    = ".server-card__grade"
	selGaugeBar       = ".server-card__bar"
	selTransition     = ".server-card__transition"
)

// completionMarker in a card's status text means the displayed grade is
// finished while the raw grade already counts the next one.
const completionMarker = "complete"

// ErrNoRecords means the document contains no data center containers at
// all, usually an error page or an unexpected layout, never a partial
// report.
var ErrNoRecords = errors.New("extract: no data center containers in document")

// Parse builds a queryable document from raw markup.
func Parse(raw string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Records walks doc grouped by data center container, then by server card,
// and returns one ServerRecord per card. Field-level gaps resolve to
// documented defaults; only a document without any containers fails.
func Records(doc *goquery.Document) ([]types.ServerRecord, error) {
	var records []types.ServerRecord
	doc.Find(selDataCenter).Each(func(_ int, dc *goquery.Selection) {
		dcName := text(dc, selDataCenterName)
		dc.Find(selServerCard).Each(func(_ int, card *goquery.Selection) {
			records = append(records, record(dcName, card))
		})
	})
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// FromRaw is Parse followed by Records.
func FromRaw(raw string) ([]types.ServerRecord, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Records(doc)
}

func record(dcName string, card *goquery.Selection) types.ServerRecord {
	name := text(card, selServerName)
	status := text(card, selServerStatus)
	grade := parseGrade(text(card, selServerGrade))

	level, rawGauge := progress(card)

	completed := strings.Contains(strings.ToLower(status), completionMarker)
	if completed {
		// The raw grade counts the *next* grade while display still shows
		// the previous one as complete. Adjust before ranking and deltas.
		grade--
	}
	if completed && level.Kind == gauge.Max && card.Find(selTransition).Length() > 0 {
		// Both normalization rules fired on one card. The precedence here
		// (transition marker before gauge token, decrement independent) is
		// deliberate; log so a divergent source shows up in the record.
		slog.Debug("extract: completion and transition marker on same card",
			"server", name, "data_center", dcName, "grade", grade)
	}

	return types.ServerRecord{
		ServerName:         name,
		DataCenter:         dcName,
		Grade:              grade,
		ProgressPercentage: level.Fraction(),
		RawGauge:           rawGauge,
		StatusText:         status,
	}
}

// progress resolves the card's gauge level in priority order: transition
// marker forces maximum; otherwise the gauge token on the bar element;
// otherwise step zero. The raw token (when present) is kept for debugging
// even when the marker overrides it.
func progress(card *goquery.Selection) (gauge.Level, string) {
	var rawToken string
	if bar := card.Find(selGaugeBar).First(); bar.Length() > 0 {
		class, _ := bar.Attr("class")
		if tok, ok := gauge.FindToken(class); ok {
			rawToken = tok
		}
	}
	if card.Find(selTransition).Length() > 0 {
		// Mid-transition cards may not be re-gauged yet; they still report
		// full progress.
		return gauge.MaxLevel(), rawToken
	}
	return gauge.Parse(rawToken), rawToken
}

// text returns the trimmed text of the first descendant matching sel, or ""
// when absent.
func text(s *goquery.Selection, sel string) string {
	return strings.TrimSpace(s.Find(sel).First().Text())
}

// parseGrade reads the first run of digits in s, so both "5" and "Grade 5"
// work. A card with no parseable grade resolves to 0.
func parseGrade(s string) int {
	i := strings.IndexFunc(s, isDigit)
	if i < 0 {
		return 0
	}
	j := i
	for j < len(s) && isDigit(rune(s[j])) {
		j++
	}
	n, err := strconv.Atoi(s[i:j])
	if err != nil {
		return 0
	}
	return n
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
