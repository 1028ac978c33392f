package status

// RecomputePayment derives the payment status from money received against the
// booking total. depositFraction is the configured share of the total that
// counts as a paid deposit (e.g. 0.30).
//
// The fully-paid boundary is received == total, not strictly greater.
// Received above total is reported as overpaid and must be flagged by the
// caller, never silently clamped.
//
// Cancelled, overdue, authorized and rolling_deposit are set by external
// payment-recording flows, not derived here; callers must not recompute a
// cancelled booking.
func RecomputePayment(total, received, depositFraction float64) (PaymentStatus, bool) {
	if received <= 0 {
		return PaymentPending, false
	}
	if received >= total {
		return PaymentFullyPaid, received > total
	}
	if depositFraction > 0 && received >= total*depositFraction {
		return PaymentDepositPaid, false
	}
	return PaymentPartial, false
}
