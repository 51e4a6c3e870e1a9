// Package entity defines the shopping cart kept per buyer session.
package entity

// PaymentMode is how the buyer intends to pay for a line item.
type PaymentMode string

const (
	PaymentCash       PaymentMode = "cash"
	PaymentGPay       PaymentMode = "gpay"
	PaymentUPI        PaymentMode = "upi"
	PaymentNetBanking PaymentMode = "netbanking"
	PaymentOnline     PaymentMode = "online"
)

// DefaultPaymentMode is used when the buyer did not pick one.
const DefaultPaymentMode = PaymentCash

// ParsePaymentMode returns the mode named by s. An empty s selects the default.
func ParsePaymentMode(s string) (PaymentMode, bool) {
	switch m := PaymentMode(s); m {
	case "":
		return DefaultPaymentMode, true
	case PaymentCash, PaymentGPay, PaymentUPI, PaymentNetBanking, PaymentOnline:
		return m, true
	}
	return "", false
}

// Item is a snapshot of a product taken when it was first added.
// Later catalog changes do not affect it.
type Item struct {
	ProductID    string      `json:"productId"`
	Name         string      `json:"name"`
	Price        float64     `json:"price"`
	Quantity     int         `json:"quantity"`
	Image        string      `json:"image"`
	SellerName   string      `json:"sellerName"`
	DeliveryDays int         `json:"deliveryDays,omitempty"`
	PaymentMode  PaymentMode `json:"paymentMode,omitempty"`
}

// Cart is an ordered list of line items, at most one per product id.
type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) index(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line, keeping its original
// snapshot, or appends item with quantity 1.
func (c *Cart) Add(item Item) {
	if i := c.index(item.ProductID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	if item.PaymentMode == "" {
		item.PaymentMode = DefaultPaymentMode
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
// Unknown product ids are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

// Remove drops the line for productID, if any, keeping the order of the rest.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}
