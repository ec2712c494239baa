package service

import (
	"math"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/config"
)

// Pricing 运费与税费规则，金额为最小货币单位（分）
type Pricing struct {
	FreeShippingThreshold int64
	FlatShippingCost      int64
	TaxRate               float64
}

// DefaultPricing 满$100免运费，否则$9.99；税率8%
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: 10000,
		FlatShippingCost:      999,
		TaxRate:               0.08,
	}
}

// PricingFromConfig 从配置读取规则
func PricingFromConfig(cfg *config.ShopConfig) Pricing {
	p := Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingCost:      cfg.FlatShippingCost,
		TaxRate:               cfg.TaxRate,
	}
	if p.FreeShippingThreshold <= 0 || p.FlatShippingCost <= 0 || p.TaxRate <= 0 {
		return DefaultPricing()
	}
	return p
}

// Shipping 小计达到门槛免运费
func (p Pricing) Shipping(subtotal int64) int64 {
	if subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.FlatShippingCost
}

// Tax 四舍五入到分
func (p Pricing) Tax(subtotal int64) int64 {
	return int64(math.Round(float64(subtotal) * p.TaxRate))
}

// Total = 小计 + 运费 + 税
func (p Pricing) Total(subtotal int64) int64 {
	return subtotal + p.Shipping(subtotal) + p.Tax(subtotal)
}
