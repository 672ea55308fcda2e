package cart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Key identifies one purchasable configuration: the same print framed
// and unframed, or in two sizes, are distinct lines.
type Key struct {
	ProductID uint `json:"product_id"`
	VariantID uint `json:"variant_id"`
	Framed    bool `json:"framed"`
}

// String renders the canonical path-parameter form, e.g. "16:2:framed".
func (k Key) String() string {
	suffix := "plain"
	if k.Framed {
		suffix = "framed"
	}
	return fmt.Sprintf("%d:%d:%s", k.ProductID, k.VariantID, suffix)
}

// ParseKey is the strict inverse of Key.String.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("malformed cart key %q", s)
	}
	productID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Key{}, fmt.Errorf("malformed cart key %q", s)
	}
	variantID, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return Key{}, fmt.Errorf("malformed cart key %q", s)
	}
	var framed bool
	switch parts[2] {
	case "framed":
		framed = true
	case "plain":
		framed = false
	default:
		return Key{}, fmt.Errorf("malformed cart key %q", s)
	}
	return Key{ProductID: uint(productID), VariantID: uint(variantID), Framed: framed}, nil
}

// Line holds the quantity and the price snapshot taken when the line
// was first added. Catalog price changes never reach an existing line.
type Line struct {
	Key       Key             `json:"key"`
	Title     string          `json:"title"`
	SizeName  string          `json:"size_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a plain value. Handlers load it from the session, mutate it
// and write it back; nothing here touches shared state.
type Cart struct {
	Lines []Line `json:"lines"`
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Get(key Key) (Line, bool) {
	for _, l := range c.Lines {
		if l.Key == key {
			return l, true
		}
	}
	return Line{}, false
}

// Add merges quantities onto an existing line or appends a new one.
// When the key already exists the stored snapshot wins: the incoming
// price is ignored.
func (c *Cart) Add(line Line) {
	for i := range c.Lines {
		if c.Lines[i].Key == line.Key {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// RemoveOne decrements the line by a single unit and drops the line
// once it reaches zero. A zero-quantity line is never retained.
func (c *Cart) RemoveOne(key Key) {
	for i := range c.Lines {
		if c.Lines[i].Key != key {
			continue
		}
		c.Lines[i].Quantity--
		if c.Lines[i].Quantity <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
		return
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// Subtotal sums snapshot prices; the catalog is never re-read.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}
