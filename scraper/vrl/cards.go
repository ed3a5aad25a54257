package vrl

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"bus-scraper/models"
	"bus-scraper/utils"
)

// ExtractOffers parses a results page into an offer table with one row per
// bus card, in page order. maxItems caps the number of cards (0 = all).
// Cards whose Bus ID was already seen are skipped. Relative booking links are
// resolved against baseURL.
func ExtractOffers(r io.Reader, baseURL string, maxItems int) (*models.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "vrl: parse results page")
	}

	base, _ := url.Parse(baseURL)
	seen := utils.NewKeySet()
	table := models.NewTable(models.ScrapedColumns...)

	doc.Find(cardSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if maxItems > 0 && table.Len() >= maxItems {
			return false
		}

		row := extractCard(card, base)
		if id := row[models.ColBusID]; id != "" && !seen.Add(id) {
			return true
		}
		table.Append(row)
		return true
	})

	return table, nil
}

func extractCard(card *goquery.Selection, base *url.URL) models.Row {
	id, _ := card.Attr("id")

	price := firstText(card, priceSelector)
	if price == "" {
		price = digitsOnly(firstText(card, priceFallbackSelector))
	}

	row := models.Row{}
	set := func(col, v string) {
		if v != "" {
			row[col] = v
		}
	}

	set(models.ColBusID, cleanText(id))
	set(models.ColBusName, firstText(card, nameSelector, nameFallbackSelector))
	set(models.ColBusType, firstText(card, typeSelector))
	set(models.ColBoardingTime, firstText(card, boardingSelector, boardingMobileSelector))
	set(models.ColDroppingTime, firstText(card, droppingSelector, droppingMobileSelector))
	set(models.ColDuration, firstText(card, durationSelector, durationMobileSelector))
	set(models.ColRating, firstText(card, ratingSelector, ratingMobileSelector))
	set(models.ColSeatsAvailable, intText(firstText(card, seatsSelector)))
	set(models.ColWindowSeats, intText(firstText(card, windowSelector)))
	set(models.ColPrice, intText(price))
	set(models.ColOriginalPrice, intText(firstText(card, originalPriceSelector)))
	set(models.ColSavings, intText(firstText(card, savingsSelector)))
	set(models.ColBookingLink, bookingLink(card, base))

	return row
}

// firstText returns the cleaned text of the first element matched by the
// first selector that yields non-empty text.
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := cleanText(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func bookingLink(card *goquery.Selection, base *url.URL) string {
	href, ok := card.Find(bookingLinkSelector).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "javascript:") || href == "#" {
		return ""
	}
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// intText reduces text like "23 Seats" or "₹ 1,250" to its first integer.
func intText(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return ""
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return ""
	}
	return strconv.Itoa(n)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if isDigit(r) {
			return r
		}
		return -1
	}, s)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// cleanText strips leading/trailing whitespace and collapses internal whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
