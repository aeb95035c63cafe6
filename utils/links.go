package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildUPILink returns a UPI intent link for paying amount rupees to upiID
func BuildUPILink(upiID, payeeName string, amount int64, note string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%d&cu=INR&tn=%s",
		upiID, encodeComponent(payeeName), amount, encodeComponent(note))
}

// BuildFinalPaymentDeepLink returns the app link that opens the final payment screen
func BuildFinalPaymentDeepLink(scheme, appointmentID, userID string) string {
	return fmt.Sprintf("%s://finalpayment?appointmentId=%s&userId=%s",
		scheme, url.QueryEscape(appointmentID), url.QueryEscape(userID))
}

// encodeComponent escapes s for use as a query value, with spaces as %20
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
