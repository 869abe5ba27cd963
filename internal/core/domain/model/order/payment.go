package order

import "strings"

// PaymentKind classifies the free-text payment method of an order. The
// classification is case-insensitive and keyed on the product's payment
// terms ("nakit" cash, "kredi" credit card, "hediye" gift card).
type PaymentKind int

const (
	// PaymentUnknown is returned for methods that match no known term.
	// Unknown methods follow the restaurant-approval path.
	PaymentUnknown PaymentKind = iota

	// PaymentCash is cash on delivery.
	PaymentCash

	// PaymentCard is card on delivery.
	PaymentCard

	// PaymentOnline is a prepaid online payment.
	PaymentOnline

	// PaymentGiftCard is payment with a gift card.
	PaymentGiftCard
)

// ClassifyPayment derives the PaymentKind from a raw payment-method string.
// Gift card is checked before card so "hediye kredisi" style labels do not
// misclassify.
func ClassifyPayment(method string) PaymentKind {
	m := strings.ToLower(strings.TrimSpace(method))
	switch {
	case strings.Contains(m, "hediye"):
		return PaymentGiftCard
	case strings.Contains(m, "kredi"):
		return PaymentCard
	case strings.Contains(m, "nakit"):
		return PaymentCash
	case strings.Contains(m, "online"):
		return PaymentOnline
	}
	return PaymentUnknown
}

// AutoApproves reports whether a delivery with this payment kind completes
// without restaurant confirmation. Only prepaid methods auto-approve; cash,
// card and unclassified methods wait for the restaurant.
func (k PaymentKind) AutoApproves() bool {
	return k == PaymentOnline || k == PaymentGiftCard
}

// String returns a stable name for logging and event payloads.
func (k PaymentKind) String() string {
	switch k {
	case PaymentCash:
		return "cash"
	case PaymentCard:
		return "card"
	case PaymentOnline:
		return "online"
	case PaymentGiftCard:
		return "gift_card"
	default:
		return "unknown"
	}
}
