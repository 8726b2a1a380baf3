package booking

import (
	"fmt"
	"math"
	"time"

	"pawhaven/models"
)

// priceQuote is the internal result of pricing an engagement against a
// contractor's catalogue. Base is the amount the contractor keeps; Total is
// what the client is charged (base plus both fees).
type priceQuote struct {
	Units int
	Base  float64
	Total float64
}

// findOffering locates the catalogue entry matching the requested service type.
func findOffering(ct *models.Contractor, serviceType string) (*models.ServiceOffering, error) {
	for i := range ct.Services {
		if ct.Services[i].ServiceType == serviceType {
			return &ct.Services[i], nil
		}
	}
	return nil, newValidationError(fmt.Sprintf("contractor does not offer %q", serviceType))
}

// resolveUnits determines how many billable units the engagement spans. For
// per-night offerings the unit count is derived from the date range; other
// unit kinds must be supplied by the caller.
func resolveUnits(offering *models.ServiceOffering, start, end time.Time, requested int) (int, error) {
	if requested > 0 {
		return requested, nil
	}
	if offering.Unit == "night" {
		nights := int(math.Ceil(end.Sub(start).Hours() / 24))
		if nights < 1 {
			nights = 1
		}
		return nights, nil
	}
	return 0, newValidationError(fmt.Sprintf("units required for per-%s offerings", offering.Unit))
}

// priceEngagement computes the base amount from the contractor's rate and
// grosses it up so fees are billed on top of the amount the contractor keeps.
func (s *DefaultBookingService) priceEngagement(ct *models.Contractor, req models.BookingRequest) (priceQuote, error) {
	offering, err := findOffering(ct, req.ServiceType)
	if err != nil {
		return priceQuote{}, err
	}
	units, err := resolveUnits(offering, req.StartDate, req.EndDate, req.Units)
	if err != nil {
		return priceQuote{}, err
	}
	base := math.Round(offering.Rate*float64(units)*100) / 100
	if base <= 0 {
		return priceQuote{}, newValidationError("engagement prices to zero")
	}
	total := base + s.Fees.PlatformFee(base) + s.Fees.EstimateProcessorFee(base)
	return priceQuote{Units: units, Base: base, Total: total}, nil
}
