package payment

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// PayHere authenticates both directions with the same keyed digest:
//
//	outbound: UPPER(MD5(merchantId + orderId + amount + currency + UPPER(MD5(secret))))
//	inbound:  UPPER(MD5(merchant_id + order_id + payhere_amount + payhere_currency + status_code + UPPER(MD5(secret))))
//
// The amount in the outbound hash must be the 2-decimal string form; the
// inbound recomputation uses the gateway-supplied fields verbatim. Keep the
// two call sites in sync with the gateway's documented field order.

func md5Upper(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// FormatAmount renders an amount exactly the way the gateway hashes it:
// two decimal places, no grouping. 1000 becomes "1000.00".
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// GenerateHash computes the checkout-initiation hash handed to the client.
func GenerateHash(merchantID, orderID string, amount float64, currency, merchantSecret string) string {
	return md5Upper(merchantID + orderID + FormatAmount(amount) + currency + md5Upper(merchantSecret))
}

// NotificationSignature recomputes the md5sig the gateway sends with a
// payment notification. All inputs are the raw form values.
func NotificationSignature(merchantID, orderID, amount, currency, statusCode, merchantSecret string) string {
	return md5Upper(merchantID + orderID + amount + currency + statusCode + md5Upper(merchantSecret))
}

// VerifyNotification compares the recomputed signature against the supplied
// one. Exact string equality; any tampered field fails.
func VerifyNotification(merchantID, orderID, amount, currency, statusCode, suppliedSig, merchantSecret string) bool {
	return NotificationSignature(merchantID, orderID, amount, currency, statusCode, merchantSecret) == suppliedSig
}
