package valuation

// Reward is one promotion entry of a storefront price block.
type Reward struct {
	Discount      *float64 `json:"discount,omitempty"`
	BonusDiscount *float64 `json:"bonus_discount,omitempty"`
}

// PriceBlock is the "default_sku" object of a title's full details.
type PriceBlock struct {
	Price   float64  `json:"price"`
	Rewards []Reward `json:"rewards,omitempty"`
}

// Discounts is the extracted price of a title.
type Discounts struct {
	// Base is the undiscounted price.
	Base float64 `json:"base"`
	// Standard is the discount available to every customer.
	Standard float64 `json:"standard"`
	// Loyalty is the additional discount for subscription members.
	Loyalty float64 `json:"loyalty"`
}

// ExtractDiscounts reads the base price and both discounts from a price
// block. Only the first reward is considered; missing fields are 0.
func ExtractDiscounts(block PriceBlock) Discounts {
	d := Discounts{Base: block.Price}
	if len(block.Rewards) == 0 {
		return d
	}

	first := block.Rewards[0]
	if first.Discount != nil {
		d.Standard = *first.Discount
	}
	if first.BonusDiscount != nil {
		d.Loyalty = *first.BonusDiscount
	}
	return d
}

// DiscountedPrice applies both percentage discounts to the base price.
// The result never drops below zero.
func DiscountedPrice(d Discounts) float64 {
	price := d.Base * (1 - (d.Standard+d.Loyalty)/100)
	if price < 0 {
		return 0
	}
	return price
}
