package enums

// PaymentMethod records how the buyer settled an invoice.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

var paymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer}

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool {
	_, err := ParsePaymentMethod(string(p))
	return err == nil
}

// ParsePaymentMethod is case sensitive.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return parse(value, paymentMethods, "payment method")
}
