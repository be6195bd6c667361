// Package finance derives every monetary field on a booking. All
// functions are pure: they read commercial fields and payments and write
// only the derived totals, so calling them twice is always safe.
package finance

import "travelwindow/pkg/model"

// Recompute refreshes totalSalePrice, totalPaidAmount, balanceAmount and
// billingStatus from the booking's commercial fields and payment list.
// Must run after a mutation is applied, never before.
func Recompute(b *model.Booking) {
	b.TotalSalePrice = totalSalePrice(b)
	b.TotalPaidAmount = totalPaid(b.Payments)
	b.BalanceAmount = b.TotalSalePrice - b.TotalPaidAmount
	b.BillingStatus = BillingStatusFor(b.BalanceAmount, b.TotalPaidAmount)
}

// totalSalePrice is the base price plus itemized additional services.
// Bookings written before services were itemized carry a single legacy
// price field instead; it counts only when the list is empty.
func totalSalePrice(b *model.Booking) float64 {
	if len(b.AdditionalServices) == 0 {
		return b.SalePrice + b.AdditionalServicePrice
	}

	total := b.SalePrice
	for _, svc := range b.AdditionalServices {
		total += svc.ServiceCost
	}
	return total
}

func totalPaid(payments []model.Payment) float64 {
	var sum float64
	for _, p := range payments {
		sum += p.PaidAmount
	}
	return sum
}

// BillingStatusFor classifies payment completeness: a non-positive
// balance is fully paid, any payment at all is partial, otherwise unpaid.
func BillingStatusFor(balance, paid float64) string {
	switch {
	case balance <= 0:
		return model.BillingFullyPaid
	case paid > 0:
		return model.BillingPartialPaid
	default:
		return model.BillingUnpaid
	}
}
