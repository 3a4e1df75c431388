package request

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/violetshores/vac-themes/internal/api/htmx"
)

// LocationQuery returns the raw query string the page was loaded with. The
// request's own query wins when it names param; otherwise htmx requests fall
// back to the query of HX-Current-URL, the page that issued them.
func LocationQuery(r *http.Request, param string) string {
	if r.URL.Query().Has(param) {
		return r.URL.RawQuery
	}

	currentURL := htmx.CurrentURL(r)
	if currentURL == "" {
		return r.URL.RawQuery
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("hx_current_url", currentURL).
			Msg("Failed to parse HX-Current-URL")
		return r.URL.RawQuery
	}

	return parsed.RawQuery
}
