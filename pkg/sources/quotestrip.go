package sources

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// Scraped quote pages change their markup without notice, so extraction is
// an ordered chain of strategies: exact class match, fuzzy class-token
// match, then free-text extraction from the page's descriptive metadata.
// Each strategy validates its candidate against the plausibility band; the
// first accepted value wins.

const quoteStripClass = "QuoteStrip-lastPrice"

var metaPriceRe = regexp.MustCompile(`\$?([\d,]+\.?\d*)`)

type htmlStrategy func(doc *goquery.Document, band Band) (decimal.Decimal, bool)

// ExtractQuoteFromHTML pulls a single quote value out of a rendered quote
// page. An implausible value is an extraction failure, not data.
func ExtractQuoteFromHTML(body []byte, band Band) (decimal.Decimal, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse HTML: %w", err)
	}

	strategies := []htmlStrategy{
		exactQuoteStrip,
		fuzzyLastPriceClass,
		metaDescription,
	}

	for _, strategy := range strategies {
		if value, ok := strategy(doc, band); ok {
			return value, nil
		}
	}

	return decimal.Zero, fmt.Errorf("%w", ErrValueNotFound)
}

// exactQuoteStrip looks for the canonical last-price span.
func exactQuoteStrip(doc *goquery.Document, band Band) (decimal.Decimal, bool) {
	var value decimal.Decimal
	found := false
	doc.Find("span." + quoteStripClass).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		v, err := ParseQuoteText(sel.Text())
		if err != nil || !band.Contains(v) {
			return true
		}
		value, found = v, true
		return false
	})
	return value, found
}

// fuzzyLastPriceClass accepts any span whose class tokens mention both
// "last" and "price", in whatever spelling the site rotates through.
func fuzzyLastPriceClass(doc *goquery.Document, band Band) (decimal.Decimal, bool) {
	var value decimal.Decimal
	found := false
	doc.Find("span[class]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		lower := strings.ToLower(class)
		if !strings.Contains(lower, "last") || !strings.Contains(lower, "price") {
			return true
		}
		v, err := ParseQuoteText(sel.Text())
		if err != nil || !band.Contains(v) {
			return true
		}
		value, found = v, true
		return false
	})
	return value, found
}

// metaDescription falls back to the og:description meta tag, which quotes
// the price in prose.
func metaDescription(doc *goquery.Document, band Band) (decimal.Decimal, bool) {
	content, ok := doc.Find(`meta[property="og:description"]`).Attr("content")
	if !ok {
		return decimal.Zero, false
	}
	match := metaPriceRe.FindStringSubmatch(content)
	if match == nil {
		return decimal.Zero, false
	}
	v, err := ParseQuoteText(match[1])
	if err != nil || !band.Contains(v) {
		return decimal.Zero, false
	}
	return v, true
}
