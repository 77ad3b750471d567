package fetch

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_portal/internal/domain"
)

var (
	areaRe     = regexp.MustCompile(`(?s)About this area.*?<h4[^>]*>(.*?)</h4>.*?<p[^>]*>(.*?)</p>`)
	propertyRe = regexp.MustCompile(`(?s)About this property.*?<h4[^>]*>(.*?)</h4>.*?<p[^>]*>(.*?)</p>`)
)

func descriptionPath(hotelID string) string { return "/h" + hotelID + ".Hotel-Information" }

// FetchDescriptions scrapes the hotel's Expedia page. A page without the
// expected sections yields empty descriptions, not an error.
func (f *Fetcher) FetchDescriptions(ctx context.Context, hotelID string) (domain.Descriptions, error) {
	if _, ok := f.ix.FindHotel(hotelID); !ok {
		return domain.Descriptions{}, domain.Failf(domain.InvalidHotel, "hotel %q", hotelID)
	}
	if err := f.rl.Wait(ctx); err != nil {
		return domain.Descriptions{}, domain.Fail(domain.FetchFailed, err)
	}

	resp, err := f.do(ctx, "expedia", "hotel_information", f.expediaHost, descriptionPath(hotelID))
	if err != nil {
		return domain.Descriptions{}, err
	}
	d := ParseDescriptions(string(resp.Body))
	f.ix.SetDescriptions(hotelID, d)
	if d.Empty() {
		log.Debug().Str("hotel", hotelID).Msg("no descriptions found on page")
	}
	return d, nil
}

// ParseDescriptions extracts the "About this area" and "About this property" blocks.
func ParseDescriptions(page string) domain.Descriptions {
	return domain.Descriptions{
		Area:     extract(areaRe, page),
		Property: extract(propertyRe, page),
	}
}

func extract(re *regexp.Regexp, page string) string {
	m := re.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1]+"\n\n"+m[2], "&#x27;", "'")
}
