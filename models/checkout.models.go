package models

// ShippingInfo is the delivery part of a checkout submission and of an order
// snapshot.
type ShippingInfo struct {
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	Zip     string `bson:"zip" json:"zip"`
}

// CardDetails is raw card input. It is only ever handed to the payment
// gateway and never copied into an order.
type CardDetails struct {
	Number string `json:"-"`
	Expiry string `json:"-"`
	CVV    string `json:"-"`
}

// CheckoutRequest is a validated checkout submission.
type CheckoutRequest struct {
	Name          string
	Email         string
	Shipping      ShippingInfo
	PaymentMethod PaymentMethod
	Card          CardDetails
	DiscountCode  string
}
