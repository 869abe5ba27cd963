package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPayment(t *testing.T) {
	cases := map[string]order.PaymentKind{
		"Nakit":          order.PaymentCash,
		"nakit ödeme":    order.PaymentCash,
		"Kredi Kartı":    order.PaymentCard,
		"kredi":          order.PaymentCard,
		"Online":         order.PaymentOnline,
		"online ödeme":   order.PaymentOnline,
		"Hediye Çeki":    order.PaymentGiftCard,
		"hediye":         order.PaymentGiftCard,
		"":               order.PaymentUnknown,
		"something else": order.PaymentUnknown,
		"  Nakit  ":      order.PaymentCash,
	}

	for method, want := range cases {
		assert.Equal(t, want, order.ClassifyPayment(method), "method %q", method)
	}
}

func TestPaymentKind_AutoApproves(t *testing.T) {
	assert.True(t, order.PaymentOnline.AutoApproves())
	assert.True(t, order.PaymentGiftCard.AutoApproves())
	assert.False(t, order.PaymentCash.AutoApproves())
	assert.False(t, order.PaymentCard.AutoApproves())
	assert.False(t, order.PaymentUnknown.AutoApproves())
}
