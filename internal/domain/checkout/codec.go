package checkout

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/shoplite/storefront/internal/domain/cart"
)

// dateLayout matches the ISO-8601 millisecond form the last-order slot
// has always used.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// EncodeOrder serializes an order to the persisted last-order shape.
func EncodeOrder(o *Order) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("orderId", func(e *jx.Encoder) { e.Str(o.OrderID) })
		e.Field("date", func(e *jx.Encoder) { e.Str(o.Date.UTC().Format(dateLayout)) })
		e.Field("email", func(e *jx.Encoder) { e.Str(o.Email) })
		e.Field("name", func(e *jx.Encoder) { e.Str(o.Name) })
		e.Field("address", func(e *jx.Encoder) { e.Str(o.Address) })
		e.Field("city", func(e *jx.Encoder) { e.Str(o.City) })
		e.Field("zip", func(e *jx.Encoder) { e.Str(o.Zip) })
		e.Field("payment", func(e *jx.Encoder) { e.Str(string(o.Payment)) })
		e.Field("items", func(e *jx.Encoder) { e.Raw(cart.EncodeItems(o.Items)) })
		e.Field("subtotal", func(e *jx.Encoder) { e.Num(jx.Num(o.Subtotal.String())) })
		e.Field("shipping", func(e *jx.Encoder) { e.Num(jx.Num(o.Shipping.String())) })
		e.Field("tax", func(e *jx.Encoder) { e.Num(jx.Num(o.Tax.String())) })
		e.Field("total", func(e *jx.Encoder) { e.Num(jx.Num(o.Total.String())) })
	})
	return e.Bytes()
}

// DecodeOrder parses the persisted last-order shape produced by EncodeOrder.
func DecodeOrder(data []byte) (*Order, error) {
	d := jx.DecodeBytes(data)

	var o Order
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "orderId":
			return decodeStr(d, &o.OrderID)
		case "date":
			raw, err := d.Str()
			if err != nil {
				return err
			}
			date, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return errors.Wrap(err, "parse date")
			}
			o.Date = date
		case "email":
			return decodeStr(d, &o.Email)
		case "name":
			return decodeStr(d, &o.Name)
		case "address":
			return decodeStr(d, &o.Address)
		case "city":
			return decodeStr(d, &o.City)
		case "zip":
			return decodeStr(d, &o.Zip)
		case "payment":
			raw, err := d.Str()
			if err != nil {
				return err
			}
			o.Payment = PaymentMethod(raw)
		case "items":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			items, err := cart.DecodeItems(raw)
			if err != nil {
				return err
			}
			o.Items = items
		case "subtotal":
			return decodeDecimal(d, &o.Subtotal)
		case "shipping":
			return decodeDecimal(d, &o.Shipping)
		case "tax":
			return decodeDecimal(d, &o.Tax)
		case "total":
			return decodeDecimal(d, &o.Total)
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode order")
	}
	return &o, nil
}

func decodeStr(d *jx.Decoder, dst *string) error {
	v, err := d.Str()
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func decodeDecimal(d *jx.Decoder, dst *decimal.Decimal) error {
	n, err := d.Num()
	if err != nil {
		return err
	}
	v, err := decimal.NewFromString(string(n))
	if err != nil {
		return errors.Wrap(err, "parse decimal")
	}
	*dst = v
	return nil
}
