package payment

import (
	"math"

	"pawhaven/config"
)

// FeeConfig holds the fee schedule. Rates are fractions (0.05 == 5%), fixed
// amounts in major currency units. Injected at startup so schedule changes
// need no code edits.
type FeeConfig struct {
	PlatformRate     float64
	ProcessorPercent float64
	ProcessorFixed   float64
}

// FeeConfigFromApp builds a FeeConfig from loaded application configuration.
func FeeConfigFromApp() FeeConfig {
	return FeeConfig{
		PlatformRate:     config.AppConfig.PlatformFeeRate,
		ProcessorPercent: config.AppConfig.ProcessorFeePercent,
		ProcessorFixed:   config.AppConfig.ProcessorFeeFixed,
	}
}

// FeeQuote is the result of fee computation for one booking amount.
// ProcessorEstimate is only an estimate; the settled fee replaces it after
// capture.
type FeeQuote struct {
	Total             float64
	PlatformFee       float64
	ProcessorEstimate float64
	TransferAmount    float64
}

// PlatformFee computes the marketplace commission on an amount.
func (c FeeConfig) PlatformFee(amount float64) float64 {
	return roundCents(amount * c.PlatformRate)
}

// EstimateProcessorFee computes the pre-settlement estimate of the card
// processor's fee using the percentage-plus-fixed model.
func (c FeeConfig) EstimateProcessorFee(amount float64) float64 {
	return roundCents(amount*c.ProcessorPercent + c.ProcessorFixed)
}

// Quote computes fees for a booking. When baseServiceAmount is positive the
// contractor keeps exactly that amount and fees are billed on top (current
// fee structure). When it is zero the legacy rule applies: fees come out of
// the total.
//
// A transfer amount of zero or less is never sent to the processor; the
// caller gets a ComputationError instead.
func (c FeeConfig) Quote(total, baseServiceAmount float64) (FeeQuote, error) {
	q := FeeQuote{Total: total}

	if baseServiceAmount > 0 {
		q.PlatformFee = c.PlatformFee(baseServiceAmount)
		q.ProcessorEstimate = c.EstimateProcessorFee(baseServiceAmount)
		q.TransferAmount = baseServiceAmount
	} else {
		q.PlatformFee = c.PlatformFee(total)
		q.ProcessorEstimate = c.EstimateProcessorFee(total)
		q.TransferAmount = roundCents(total - q.PlatformFee - q.ProcessorEstimate)
	}

	if q.TransferAmount <= 0 {
		return FeeQuote{}, &ComputationError{Amount: total, Transfer: q.TransferAmount}
	}
	return q, nil
}

// roundCents rounds a major-unit amount to the nearest cent, keeping repeated
// fee arithmetic from leaking fractions of a cent.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
