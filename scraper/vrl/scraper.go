package vrl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/rotisserie/eris"

	"bus-scraper/config"
	"bus-scraper/models"
	"bus-scraper/utils"
)

const (
	pollInterval        = 250 * time.Millisecond
	autocompleteTimeout = 5 * time.Second
	cardsTimeout        = 10 * time.Second
	stepPause           = 600 * time.Millisecond
)

// Scraper drives the VRL booking site: it fills the search form, submits it
// and turns the result cards into an offer table.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Search runs one route/date search and returns the scraped offers together
// with a summary of which steps succeeded. Form steps that fail are logged
// and recorded in the summary; the search still goes ahead since the site
// often keeps the previous values.
func (s *Scraper) Search(ctx context.Context, req models.SearchRequest) (*models.Table, *models.RunSummary, error) {
	summary := &models.RunSummary{}

	allocCtx, cancelAlloc := newAllocator(ctx, s.cfg)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	s.logger.Info("[vrl] Opening %s", s.cfg.BaseURL)
	err := s.retry.Do(ctx, "open-site", func() error {
		stepCtx, cancel := context.WithTimeout(tabCtx, s.cfg.PageTimeout)
		defer cancel()
		return chromedp.Run(stepCtx, chromedp.Navigate(s.cfg.BaseURL))
	})
	if err != nil {
		return nil, summary, eris.Wrap(err, "vrl: open site")
	}
	summary.PageOpened = true

	s.logger.Debug("[vrl] Waiting %v for banners and modals to settle", s.cfg.SettleDelay)
	if err := chromedp.Run(tabCtx, chromedp.Sleep(s.cfg.SettleDelay)); err != nil {
		return nil, summary, eris.Wrap(err, "vrl: settle")
	}

	summary.ModalRemoved = s.removeModals(tabCtx)

	summary.SourceFilled = s.fillAutocomplete(tabCtx, "source", sourceInputSelectors, req.Source)
	summary.DestinationFilled = s.fillAutocomplete(tabCtx, "destination", destinationInputSelectors, req.Destination)
	summary.DateSelected = s.pickDate(tabCtx, req.Date)

	// The form may have reopened a promotional modal.
	s.removeModals(tabCtx)

	summary.SearchClicked = s.clickSearch(tabCtx)
	if !summary.SearchClicked {
		s.logSummary(summary)
		return nil, summary, eris.New("vrl: search button not found")
	}

	summary.ResultsFound = s.waitForResults(tabCtx, s.cfg.ResultsTimeout)
	if !summary.ResultsFound {
		s.logger.Warn("[vrl] Results not detected within %v, reloading once", s.cfg.ResultsTimeout)
		reloadCtx, cancel := context.WithTimeout(tabCtx, s.cfg.PageTimeout)
		err := chromedp.Run(reloadCtx, chromedp.Reload())
		cancel()
		if err != nil {
			s.logger.Warn("[vrl] Reload failed: %v", err)
		} else {
			summary.ResultsFound = s.waitForResults(tabCtx, 2*time.Second)
		}
	}

	table, err := s.scrapeResults(tabCtx)
	if err != nil {
		s.logSummary(summary)
		return nil, summary, err
	}
	summary.CardsScraped = table.Len()

	s.logSummary(summary)
	return table, summary, nil
}

func (s *Scraper) removeModals(ctx context.Context) bool {
	js := fmt.Sprintf(`(function(sel) {
		document.querySelectorAll(sel).forEach(function(n) { n.remove(); });
		Array.from(document.querySelectorAll('div')).forEach(function(d) {
			try {
				var st = window.getComputedStyle(d);
				if ((st.position === 'fixed' || st.position === 'absolute') && parseInt(st.zIndex || 0) > 900) {
					d.style.pointerEvents = 'none';
					d.style.display = 'none';
				}
			} catch (e) {}
		});
		document.body.classList.remove('modal-open');
		document.body.style.overflow = 'auto';
		return true;
	})(%s)`, jsArg(modalSelectors))

	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		s.logger.Warn("[vrl] Modal removal failed: %v", err)
		return false
	}
	s.logger.Debug("[vrl] Removed modals and overlays")
	return ok
}

// fillAutocomplete types text into the first visible input among candidates
// and picks the matching suggestion.
func (s *Scraper) fillAutocomplete(ctx context.Context, field string, candidates []string, text string) bool {
	var sel string
	if err := chromedp.Run(ctx, chromedp.Evaluate(firstVisibleJS(candidates), &sel)); err != nil || sel == "" {
		s.logger.Warn("[vrl] No visible %s input found", field)
		return false
	}

	s.logger.Info("[vrl] Filling %s with %q (%s)", field, text, sel)
	if err := chromedp.Run(ctx,
		chromedp.SetValue(sel, "", chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	); err != nil {
		s.logger.Warn("[vrl] Typing into %s failed: %v", field, err)
		return false
	}

	type suggestions struct {
		Selector string   `json:"selector"`
		Texts    []string `json:"texts"`
	}

	deadline := time.Now().Add(autocompleteTimeout)
	for time.Now().Before(deadline) {
		var found suggestions
		if err := chromedp.Run(ctx, chromedp.Evaluate(suggestionsJS(), &found)); err == nil && len(found.Texts) > 0 {
			idx := bestSuggestion(text, found.Texts)
			click := fmt.Sprintf(`document.querySelectorAll(%s)[%d].click()`, jsArg(found.Selector), idx)
			if err := chromedp.Run(ctx, chromedp.Evaluate(click, nil), chromedp.Sleep(stepPause)); err == nil {
				s.logger.Debug("[vrl] Picked %s suggestion %q", field, cleanText(found.Texts[idx]))
				return true
			}
		}
		if err := chromedp.Run(ctx, chromedp.Sleep(pollInterval)); err != nil {
			return false
		}
	}

	s.logger.Warn("[vrl] No %s suggestions appeared, selecting with keyboard", field)
	if err := chromedp.Run(ctx, chromedp.SendKeys(sel, kb.ArrowDown+kb.Enter, chromedp.ByQuery)); err != nil {
		return false
	}
	return true
}

// pickDate sets the journey date through the bootstrap datepicker when the
// page exposes it, and otherwise writes DD-MM-YYYY into the date input.
func (s *Scraper) pickDate(ctx context.Context, date time.Time) bool {
	js := fmt.Sprintf(`(function(sels, y, m, d, raw) {
		for (var i = 0; i < sels.length; i++) {
			var el = document.querySelector(sels[i]);
			if (!el) continue;
			try {
				if (window.jQuery && window.jQuery(el).data('datepicker')) {
					window.jQuery(el).datepicker('setDate', new Date(y, m - 1, d));
					window.jQuery(el).datepicker('hide');
					return true;
				}
			} catch (e) {}
			el.focus();
			el.value = raw;
			el.dispatchEvent(new Event('input', {bubbles: true}));
			el.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		}
		return false;
	})(%s, %d, %d, %d, %s)`,
		jsArg(dateInputSelectors), date.Year(), int(date.Month()), date.Day(), jsArg(date.Format("02-01-2006")))

	var ok bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		s.logger.Warn("[vrl] Date selection failed: %v", err)
		return false
	}
	s.logger.Info("[vrl] Date %s selected: %v", date.Format("02-01-2006"), ok)
	return ok
}

func (s *Scraper) clickSearch(ctx context.Context) bool {
	js := fmt.Sprintf(`(function(sels) {
		for (var i = 0; i < sels.length; i++) {
			var el = document.querySelector(sels[i]);
			if (el) { el.click(); return sels[i]; }
		}
		var buttons = Array.from(document.querySelectorAll('button, input[type="button"], a'));
		var btn = buttons.find(function(b) { return /search/i.test(b.innerText || b.value || ''); });
		if (btn) { btn.click(); return 'text:search'; }
		return '';
	})(%s)`, jsArg(searchButtonSelectors))

	var clicked string
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &clicked)); err != nil || clicked == "" {
		s.logger.Warn("[vrl] Could not click search")
		return false
	}
	s.logger.Info("[vrl] Clicked search with selector: %s", clicked)
	return true
}

// waitForResults polls until the results page is detected or timeout elapses.
func (s *Scraper) waitForResults(ctx context.Context, timeout time.Duration) bool {
	s.logger.Info("[vrl] Waiting up to %v for search results", timeout)
	readyJS := fmt.Sprintf(`(function(sels) {
		return sels.some(function(s) { return document.querySelector(s) !== null; });
	})(%s)`, jsArg(resultReadySelectors))

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var location string
		var ready bool
		if err := chromedp.Run(ctx, chromedp.Location(&location), chromedp.Evaluate(readyJS, &ready)); err == nil {
			if strings.Contains(location, resultsURLMarker) || ready {
				return true
			}
		}
		if err := chromedp.Run(ctx, chromedp.Sleep(pollInterval)); err != nil {
			return false
		}
	}
	return false
}

func (s *Scraper) scrapeResults(ctx context.Context) (*models.Table, error) {
	countJS := fmt.Sprintf(`document.querySelectorAll(%s).length`, jsArg(cardSelector))

	var html string
	err := s.retry.Do(ctx, "scrape-results", func() error {
		stepCtx, cancel := context.WithTimeout(ctx, cardsTimeout+s.cfg.PageTimeout)
		defer cancel()

		deadline := time.Now().Add(cardsTimeout)
		var count int
		for time.Now().Before(deadline) {
			if err := chromedp.Run(stepCtx, chromedp.Evaluate(countJS, &count)); err == nil && count > 0 {
				break
			}
			if err := chromedp.Run(stepCtx, chromedp.Sleep(pollInterval)); err != nil {
				return err
			}
		}
		if count == 0 {
			s.logger.Warn("[vrl] No %s cards found within %v", cardSelector, cardsTimeout)
		} else {
			s.logger.Info("[vrl] Found %d cards on page", count)
		}

		return chromedp.Run(stepCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	})
	if err != nil {
		return nil, eris.Wrap(err, "vrl: read results page")
	}

	table, err := ExtractOffers(strings.NewReader(html), s.cfg.BaseURL, s.cfg.MaxItems)
	if err != nil {
		return nil, err
	}
	for i, row := range table.Rows {
		s.logger.Debug("[vrl] (%d/%d) %s | Price: %s | Seats: %s", i+1, table.Len(),
			orDefault(row[models.ColBusName], "Unnamed Bus"),
			orDefault(row[models.ColPrice], "N/A"),
			orDefault(row[models.ColSeatsAvailable], "N/A"))
	}
	return table, nil
}

func (s *Scraper) logSummary(summary *models.RunSummary) {
	s.logger.Info("[vrl] Run summary: page_opened=%v modal_removed=%v source_filled=%v destination_filled=%v "+
		"date_selected=%v search_clicked=%v results_found=%v cards=%d",
		summary.PageOpened, summary.ModalRemoved, summary.SourceFilled, summary.DestinationFilled,
		summary.DateSelected, summary.SearchClicked, summary.ResultsFound, summary.CardsScraped)
}

func firstVisibleJS(selectors []string) string {
	return fmt.Sprintf(`(function(sels) {
		for (var i = 0; i < sels.length; i++) {
			var els = document.querySelectorAll(sels[i]);
			for (var j = 0; j < els.length; j++) {
				if (els[j].offsetParent !== null) return sels[i];
			}
		}
		return '';
	})(%s)`, jsArg(selectors))
}

func suggestionsJS() string {
	return fmt.Sprintf(`(function(sels) {
		for (var i = 0; i < sels.length; i++) {
			var els = document.querySelectorAll(sels[i]);
			if (els.length > 0) {
				return {selector: sels[i], texts: Array.from(els).map(function(e) { return e.innerText || ''; })};
			}
		}
		return {selector: '', texts: []};
	})(%s)`, jsArg(suggestionSelectors))
}

// jsArg encodes v as a JavaScript literal.
func jsArg(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
