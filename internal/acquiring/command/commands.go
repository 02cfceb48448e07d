package command

import (
	"strconv"

	"github.com/corex-studio/corex-payment/internal/acquiring/tlv"
	"github.com/corex-studio/corex-payment/internal/acquiring/types"
)

// DefaultCurrency is the ISO-numeric currency code (Russian Ruble) used
// when a command's caller does not supply one.
const DefaultCurrency = "643"

// Command is the field-list contract the Dispatcher drives: a TTK TLV
// item list, and an INPAS field list (auto-completed with timestamp and
// serial number by the Dispatcher via Context.BuildInpasFields).
type Command interface {
	TTKItems(ctx *Context) []tlv.Item
	InpasFields(ctx *Context) []types.InpasField
}

// Purchase is the "PUR" TTK message / operation code "01" INPAS command.
type Purchase struct {
	Amount   uint64
	Currency string
}

// NewPurchase returns a Purchase for amount, defaulting currency to
// DefaultCurrency when empty.
func NewPurchase(amount uint64, currency string) Purchase {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Purchase{Amount: amount, Currency: currency}
}

func (p Purchase) TTKItems(ctx *Context) []tlv.Item {
	return []tlv.Item{
		tlv.NewItem(0x01, ctx.StringToBytes("PUR")),
		tlv.NewItem(0x03, ctx.IntToBCD(ctx.ERN, 10)),
		tlv.NewItem(0x04, ctx.StringToBytes(ctx.IntToString(p.Amount, 12))),
	}
}

func (p Purchase) InpasFields(ctx *Context) []types.InpasField {
	return []types.InpasField{
		{ID: "00", Value: amountToString(p.Amount)},
		{ID: "04", Value: p.Currency},
		{ID: "25", Value: "01"},
	}
}

// Refund is the "REF" TTK message / operation code "29" INPAS command.
type Refund struct {
	Amount   uint64
	Currency string
}

// NewRefund returns a Refund for amount, defaulting currency to
// DefaultCurrency when empty.
func NewRefund(amount uint64, currency string) Refund {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Refund{Amount: amount, Currency: currency}
}

func (r Refund) TTKItems(ctx *Context) []tlv.Item {
	return []tlv.Item{
		tlv.NewItem(0x01, ctx.StringToBytes("REF")),
		tlv.NewItem(0x03, ctx.IntToBCD(ctx.ERN, 10)),
		tlv.NewItem(0x04, ctx.StringToBytes(ctx.IntToString(r.Amount, 12))),
	}
}

func (r Refund) InpasFields(ctx *Context) []types.InpasField {
	return []types.InpasField{
		{ID: "00", Value: amountToString(r.Amount)},
		{ID: "04", Value: r.Currency},
		{ID: "25", Value: "29"},
	}
}

// Totals is the "SRV" TTK message / operation code "59" INPAS command
// (service/totals — SRV subfunction "2").
type Totals struct{}

func NewTotals() Totals {
	return Totals{}
}

func (t Totals) TTKItems(ctx *Context) []tlv.Item {
	return []tlv.Item{
		tlv.NewItem(0x01, ctx.StringToBytes("SRV")),
		tlv.NewItem(0x03, ctx.IntToBCD(ctx.ERN, 10)),
		tlv.NewItem(0x1A, ctx.StringToBytes("2")),
	}
}

func (t Totals) InpasFields(ctx *Context) []types.InpasField {
	return []types.InpasField{{ID: "25", Value: "59"}}
}

// amountToString renders the INPAS amount field as a plain decimal
// string (no zero-padding — that's a TTK-only convention for the fixed
// 12-byte Transaction Amount tag).
func amountToString(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}
