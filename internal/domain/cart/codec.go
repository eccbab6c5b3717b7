package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// EncodeItems serializes line items to the persisted cart shape: a JSON array
// with prices as plain JSON numbers. A nil slice encodes as an empty array.
func EncodeItems(items []LineItem) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, item := range items {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Int(item.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
				e.Field("price", func(e *jx.Encoder) { e.Num(jx.Num(item.Price.String())) })
				e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
				e.Field("image", func(e *jx.Encoder) { e.Str(item.Image) })
			})
		}
	})
	return e.Bytes()
}

// DecodeItems parses the persisted cart shape produced by EncodeItems.
func DecodeItems(data []byte) ([]LineItem, error) {
	d := jx.DecodeBytes(data)

	var items []LineItem
	if err := d.Arr(func(d *jx.Decoder) error {
		item, err := decodeItem(d)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode line items")
	}
	return items, nil
}

func decodeItem(d *jx.Decoder) (LineItem, error) {
	var item LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int()
			if err != nil {
				return err
			}
			item.ID = v
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.Name = v
		case "price":
			n, err := d.Num()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(string(n))
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			item.Price = price
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			item.Quantity = v
		case "image":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.Image = v
		default:
			return d.Skip()
		}
		return nil
	})
	return item, err
}
