package vrl

// CSS selectors for vrlbus.in. Candidates are tried in order; the site has
// separate desktop and mobile markup for most result fields.
var (
	modalSelectors = `#largeModal, .banner_modal, .modal.fade.show, .modal-backdrop, .modal, .overlay`

	sourceInputSelectors = []string{
		"input#FromCity", "input#fromPlaceName",
		"input[placeholder*='Source']", "input[aria-label*='Source']",
	}
	destinationInputSelectors = []string{
		"input#ToCity", "input#toPlaceName",
		"input[placeholder*='Destination']", "input[aria-label*='Destination']",
	}
	suggestionSelectors = []string{
		"ul.ui-autocomplete li",
		"div[role='listbox'] li",
		"div[role='listbox'] div[role='option']",
		".MuiAutocomplete-listbox li",
		".autocomplete-suggestion",
	}
	dateInputSelectors = []string{
		"input#txtJourneyDate", "input[id*='JourneyDate']", "input[name*='JourneyDate']",
		"input[placeholder*='Date']", ".input-group.date input",
	}
	searchButtonSelectors = []string{
		"#searchBtn", "button#searchBtn", "button[type='submit']",
	}
	resultReadySelectors = []string{
		"div#searchResults", "div[id*='searchResults']", ".resultsContainer",
		".availableroutes", ".busroutedetails",
	}
)

const resultsURLMarker = "/availableroutes"

// Result card selectors.
const (
	cardSelector = ".busroutedetails"

	nameSelector         = ".busnametype > .busboldlabel"
	nameFallbackSelector = ".busboldlabel"
	typeSelector         = ".modifydatasleep"

	boardingSelector       = ".busroutedatatime .busstarttime .busboldlabel"
	boardingMobileSelector = ".busroutedatatimembl .busstarttime .busboldlabel"
	droppingSelector       = ".busroutedatatime .busendtime .busboldlabel"
	droppingMobileSelector = ".busroutedatatimembl .busendtime .busboldlabel"
	durationSelector       = ".busroutedatatime .busroutearrow .buslighttext_small"
	durationMobileSelector = ".busroutedatatimembl .busroutearrow .buslighttext_small"

	ratingSelector       = ".rattinglabel label"
	ratingMobileSelector = ".busrattingmbl .rattinglabel label"

	seatsSelector  = ".busseatmodify .buslighttext"
	windowSelector = ".busseatmodify .windowseat"

	priceSelector         = ".busfairdetails .busboldlabel label"
	priceFallbackSelector = ".busfairdetails .busboldlabel"
	originalPriceSelector = ".busfairdetails del.lighttext"
	savingsSelector       = ".busfairdetails .savingamount label"

	bookingLinkSelector = "a[href*='seat'], a[href*='book'], a[href*='Book']"
)
