// Package response implements the normalizer mapping each protocol's raw
// key/value bag into a uniform NormalizedTransactionData plus a
// success/error TerminalResponse, per spec §4.8.
package response

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/corex-studio/corex-payment/internal/acquiring/types"
)

var successCodePattern = regexp.MustCompile(`^0+$`)

// BuildFromRaw normalizes raw according to protocol and wraps it in a
// TerminalResponse with the success verdict and aggregate code/message/
// error fields computed.
func BuildFromRaw(protocol types.Protocol, raw map[string]string) types.TerminalResponse {
	data := Normalize(protocol, raw)
	success := determineSuccess(data)

	code := firstNonEmpty(data.ResponseCode, data.Status, data.Approve)
	message := firstNonEmpty(data.TextResponse, data.StatusText)

	resp := types.TerminalResponse{
		Success: success,
		Code:    code,
		Message: message,
		Data:    &data,
	}
	if !success {
		resp.Error = errorMessage(message, code)
	}
	return resp
}

func errorMessage(message, code string) string {
	if message != "" {
		return message
	}
	if code != "" {
		return fmt.Sprintf("Response code: %s", code)
	}
	return "Unknown terminal error"
}

// Normalize maps raw onto the uniform record for the given protocol.
func Normalize(protocol types.Protocol, raw map[string]string) types.NormalizedTransactionData {
	if protocol == types.INPAS {
		return normalizeInpas(raw)
	}
	return normalizeTTK(raw)
}

var ttkKnownKeys = []string{
	"Message ID", "ECR Number", "Response Code", "Approve",
	"Transaction Amount", "Transaction Amount #2", "RRN", "Invoice Number",
	"Authorization ID", "Terminal ID", "Merchant No", "Batch No", "PAN",
	"Date", "Time", "POS Entry Mode", "Cardholder Verification",
	"Visual Host Response", "Receipt", "Application Label", "Issuer Name",
}

func normalizeTTK(raw map[string]string) types.NormalizedTransactionData {
	amount := raw["Transaction Amount"]
	if amount == "" {
		amount = raw["Transaction Amount #2"]
	}

	data := types.NormalizedTransactionData{
		Raw:                    raw,
		MessageID:              raw["Message ID"],
		ECRNumber:              raw["ECR Number"],
		ResponseCode:           raw["Response Code"],
		Approve:                raw["Approve"],
		Amount:                 amount,
		RRN:                    raw["RRN"],
		InvoiceNumber:          raw["Invoice Number"],
		AuthorizationCode:      raw["Authorization ID"],
		TerminalID:             raw["Terminal ID"],
		MerchantID:             raw["Merchant No"],
		BatchNumber:            raw["Batch No"],
		PANMasked:              raw["PAN"],
		Date:                   raw["Date"],
		Time:                   raw["Time"],
		Timestamp:              buildTTKTimestamp(raw["Date"], raw["Time"]),
		CardEntryMode:          raw["POS Entry Mode"],
		CardholderVerification: raw["Cardholder Verification"],
		TextResponse:           raw["Visual Host Response"],
		Receipt:                raw["Receipt"],
		ApplicationLabel:       raw["Application Label"],
		IssuerName:             raw["Issuer Name"],
	}

	data.Extras = collectExtras(raw, ttkKnownKeys)
	return data
}

var inpasKnownKeys = []string{
	"00", "01", "04", "06", "08", "09", "10", "13", "14", "15", "19", "21",
	"23", "25", "26", "27", "28", "39", "76", "77", "82", "90",
}

func normalizeInpas(raw map[string]string) types.NormalizedTransactionData {
	data := types.NormalizedTransactionData{
		Raw:                    raw,
		Amount:                 raw["00"],
		AdditionalAmount:       raw["01"],
		Currency:               raw["04"],
		HostTimestamp:          raw["06"],
		CardEntryMode:          raw["08"],
		CardholderVerification: mapPinCodingMode(raw["09"]),
		PANMasked:              raw["10"],
		AuthorizationCode:      raw["13"],
		RRN:                    raw["14"],
		ResponseCode:           raw["15"],
		TextResponse:           raw["19"],
		Timestamp:              raw["21"],
		TransactionID:          raw["23"],
		OperationCode:          raw["25"],
		InvoiceNumber:          raw["26"],
		TerminalID:             raw["27"],
		MerchantID:             raw["28"],
		Status:                 raw["39"],
		CashierRequest:         raw["76"],
		CashierResponse:        raw["77"],
		ProviderCode:           raw["82"],
		Receipt:                raw["90"],
	}

	data.Extras = collectExtras(raw, inpasKnownKeys)
	return data
}

func mapPinCodingMode(value string) string {
	switch value {
	case "1", "2":
		return "PIN"
	default:
		return value
	}
}

func buildTTKTimestamp(date, t string) string {
	if date == "" || t == "" {
		return ""
	}
	return date + t
}

func collectExtras(raw map[string]string, known []string) map[string]string {
	knownSet := make(map[string]struct{}, len(known))
	for _, k := range known {
		knownSet[k] = struct{}{}
	}

	var extras map[string]string
	for k, v := range raw {
		if _, ok := knownSet[k]; ok {
			continue
		}
		if extras == nil {
			extras = make(map[string]string)
		}
		extras[k] = v
	}
	return extras
}

// determineSuccess applies the success-verdict rules: an all-zero
// response_code or status, or an approve of "Y"/"y", is a success; when
// none of those fields is present at all, default to true.
//
// This fixes the REDESIGN FLAG documented in spec §9: the reference
// implementation falls through to `true` even when response_code or
// status IS present but fails the all-zero check. Here, a present and
// non-matching response_code or status is treated as failure instead,
// unless approve resolves it to true first.
func determineSuccess(data types.NormalizedTransactionData) bool {
	if data.ResponseCode != "" && successCodePattern.MatchString(data.ResponseCode) {
		return true
	}
	if strings.EqualFold(data.Approve, "Y") {
		return true
	}
	if data.Status != "" && successCodePattern.MatchString(data.Status) {
		return true
	}

	// A present response_code or status that failed the all-zero check
	// above is a genuine failure, not a fallback — this is the documented
	// fix to the reference implementation's success-verdict bug (spec §9).
	if data.ResponseCode != "" || data.Status != "" {
		return false
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
