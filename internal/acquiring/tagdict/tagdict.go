// Package tagdict holds the static TTK tag dictionary: the process-wide
// read-only table mapping a numeric wire tag to its display name, data
// type and string encoding.
package tagdict

// DataType is the wire representation used to render a tag's value as a
// human-readable string.
type DataType int

const (
	String DataType = iota
	Bcd
	Hex
	Binary
	DwordLe
	DwordBe
)

// StringEncoding names the byte-to-text transform used for DataType String
// values. Tags without a String data type leave this unset.
type StringEncoding int

const (
	ASCII StringEncoding = iota
	CP1251
	CP866
)

// Definition describes a single TTK tag. Names are not unique: client and
// server variants of the same logical field share a display name, so
// lookup is always keyed by the numeric tag, never by name.
type Definition struct {
	Tag      uint32
	Name     string
	Type     DataType
	Encoding StringEncoding
}

// table is the process-wide dictionary, built once at package init. A
// linear scan is fine here: a few dozen entries, looked up a handful of
// times per command.
var table = []Definition{
	{Tag: 0x01, Name: "Message ID", Type: String, Encoding: ASCII},
	{Tag: 0x02, Name: "ECR Number", Type: String, Encoding: ASCII},
	{Tag: 0x03, Name: "ERN", Type: Bcd},
	{Tag: 0x04, Name: "Transaction Amount", Type: Bcd},
	{Tag: 0x0B, Name: "Invoice Number", Type: Bcd},
	{Tag: 0x0C, Name: "Authorization ID", Type: String, Encoding: ASCII},
	{Tag: 0x1A, Name: "SRV Subfunction", Type: Hex},
	{Tag: 0x1B, Name: "Currency", Type: Bcd},
	{Tag: 0x1F00, Name: "Input Code", Type: Bcd},
	{Tag: 0x1F01, Name: "Input Data", Type: String, Encoding: ASCII},
	{Tag: 0x50, Name: "Application Label", Type: String, Encoding: ASCII},
	{Tag: 0x81, Name: "Message ID", Type: String, Encoding: ASCII},
	{Tag: 0x82, Name: "ECR Number", Type: String, Encoding: ASCII},
	{Tag: 0x83, Name: "ERN", Type: Bcd},
	{Tag: 0x84, Name: "Transaction Amount", Type: Bcd},
	{Tag: 0x89, Name: "PAN", Type: Bcd},
	{Tag: 0x8B, Name: "Invoice Number", Type: Bcd},
	{Tag: 0x8C, Name: "Authorization ID", Type: String, Encoding: ASCII},
	{Tag: 0x8D, Name: "Date", Type: Bcd},
	{Tag: 0x8E, Name: "Time", Type: Bcd},
	{Tag: 0x8F, Name: "Issuer Name", Type: String, Encoding: ASCII},
	{Tag: 0x90, Name: "Merchant No", Type: String, Encoding: ASCII},
	{Tag: 0x91, Name: "Processing Code", Type: Hex},
	{Tag: 0x92, Name: "POS Entry Mode", Type: Hex},
	{Tag: 0x93, Name: "POS Condition Code", Type: Hex},
	{Tag: 0x94, Name: "Cardholder Verification", Type: String, Encoding: ASCII},
	{Tag: 0x95, Name: "TVR", Type: Hex},
	{Tag: 0x98, Name: "RRN", Type: Bcd},
	{Tag: 0x99, Name: "Batch No", Type: Bcd},
	{Tag: 0x9B, Name: "Response Code", Type: String, Encoding: ASCII},
	{Tag: 0x9C, Name: "Receipt", Type: String, Encoding: ASCII},
	{Tag: 0x9D, Name: "Terminal ID", Type: String, Encoding: ASCII},
	{Tag: 0x9E, Name: "Receipt PDS", Type: Binary},
	{Tag: 0x9F06, Name: "Application ID", Type: String, Encoding: ASCII},
	{Tag: 0x9F0E, Name: "Receipt Second PDS", Type: Binary},
	{Tag: 0x9F26, Name: "TC", Type: Hex},
	{Tag: 0xA0, Name: "Visual Host Response", Type: String, Encoding: ASCII},
	{Tag: 0xA1, Name: "Approve", Type: String, Encoding: ASCII},
	{Tag: 0xA2, Name: "Transaction Amount #2", Type: Bcd},
}

// Lookup returns the definition for tag, or false if the tag is unknown.
func Lookup(tag uint32) (Definition, bool) {
	for _, def := range table {
		if def.Tag == tag {
			return def, true
		}
	}
	return Definition{}, false
}

// ECRNumber returns the definition for the ECR-Number tag (0x02), the
// item the dispatcher prepends to every TTK request.
func ECRNumber() Definition {
	def, _ := Lookup(0x02)
	return def
}

// ResponseCodeName is the display name the dispatcher looks for in a
// server response to recognize a terminated TTK exchange.
const ResponseCodeName = "Response Code"
