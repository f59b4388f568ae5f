package gating

import (
	"context"
	"math"
)

// Base prices in whole LOS, platform fee of 6.9% already included.
const (
	PriceThreeChar = 16035 // 15,000 * 1.069
	PriceFourChar  = 6414  // 6,000 * 1.069
	PriceFivePlus  = 2673  // 2,500 * 1.069

	Currency = "LOS"
)

// BasePricing is the fixed price table keyed by username length.
type BasePricing struct {
	Price    int64
	Tier     string
	Currency string
}

// BasePricingFor returns the base price bucket for a username length.
func BasePricingFor(usernameLength int) BasePricing {
	switch usernameLength {
	case 3:
		return BasePricing{Price: PriceThreeChar, Tier: "3-digit", Currency: Currency}
	case 4:
		return BasePricing{Price: PriceFourChar, Tier: "4-digit", Currency: Currency}
	default:
		return BasePricing{Price: PriceFivePlus, Tier: "5-plus", Currency: Currency}
	}
}

// FinalPrice applies a percentage discount to a base price. Discounts at or
// above 100 short-circuit to zero, at or below zero leave the base price
// unchanged. Never errors; out-of-range values are the caller's problem.
func FinalPrice(basePrice int64, discount int) int64 {
	if discount >= 100 {
		return 0
	}
	if discount <= 0 {
		return basePrice
	}
	return int64(math.Floor(float64(basePrice) * (1 - float64(discount)/100)))
}

// PricingQuote is the complete priced result for one wallet and username.
type PricingQuote struct {
	BasePrice      int64   `json:"basePrice"`
	Discount       int     `json:"discount"`
	FinalPrice     int64   `json:"finalPrice"`
	PriceTier      string  `json:"tier"`
	Currency       string  `json:"currency"`
	TokenBalance   float64 `json:"tokenBalance"`
	DiscountReason string  `json:"discountReason"`
	IsFree         bool    `json:"isFree"`
}

// Quote combines the username-length base price with the wallet's token
// discount. Identical inputs and on-chain state yield identical quotes.
func (s *Service) Quote(ctx context.Context, walletAddress, username string) (*PricingQuote, error) {
	base := BasePricingFor(len(username))

	eligibility, err := s.CheckEligibility(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	final := FinalPrice(base.Price, eligibility.Discount)

	return &PricingQuote{
		BasePrice:      base.Price,
		Discount:       eligibility.Discount,
		FinalPrice:     final,
		PriceTier:      base.Tier,
		Currency:       base.Currency,
		TokenBalance:   eligibility.TokenBalance,
		DiscountReason: eligibility.Reason,
		IsFree:         final == 0,
	}, nil
}
