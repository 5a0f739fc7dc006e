package domain

import (
	"fmt"
	"regexp"
	"time"
)

// CardType identifies the card network, detected from the number prefix.
type CardType string

const (
	CardTypeVisa       CardType = "visa"
	CardTypeMastercard CardType = "mastercard"
	CardTypeAmex       CardType = "amex"
	CardTypeDiscover   CardType = "discover"
	CardTypeDinersClub CardType = "dinersclub"
	CardTypeJCB        CardType = "jcb"
)

// CardInput carries raw card data for tokenization. It is never persisted;
// only the derived display fields (type, last4, expiry) are stored locally.
type CardInput struct {
	Number       string `json:"number"`
	ExpMonth     int    `json:"exp_month"`
	ExpYear      int    `json:"exp_year"`
	SecurityCode string `json:"security_code"`
}

// Last4 returns the last four digits of the card number.
func (c CardInput) Last4() string {
	if len(c.Number) < 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}

// ExpirationDate formats the expiry as YYYY-MM, the format the gateway
// expects when creating payment profiles.
func (c CardInput) ExpirationDate() string {
	return fmt.Sprintf("%04d-%02d", c.ExpYear, c.ExpMonth)
}

// Prefix patterns per network. Mastercard includes the 2-series BIN range.
var cardTypePatterns = []struct {
	cardType CardType
	pattern  *regexp.Regexp
}{
	{CardTypeVisa, regexp.MustCompile(`^4`)},
	{CardTypeMastercard, regexp.MustCompile(`^(5[1-5]|222[1-9]|22[3-9]|2[3-6]|27[01]|2720)`)},
	{CardTypeAmex, regexp.MustCompile(`^3[47]`)},
	{CardTypeDinersClub, regexp.MustCompile(`^3(0[0-5]|[689])`)},
	{CardTypeDiscover, regexp.MustCompile(`^(6011|64[4-9]|65)`)},
	{CardTypeJCB, regexp.MustCompile(`^35(2[89]|[3-8])`)},
}

// DetectCardType returns the card network for a card number, or an error for
// an unsupported prefix.
func DetectCardType(number string) (CardType, error) {
	for _, p := range cardTypePatterns {
		if p.pattern.MatchString(number) {
			return p.cardType, nil
		}
	}
	return "", fmt.Errorf("unsupported card number prefix")
}

// ValidLuhn reports whether the number passes the Luhn checksum.
func ValidLuhn(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := number[i]
		if d < '0' || d > '9' {
			return false
		}
		n := int(d - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

// CardExpirationTime returns the last valid instant of the expiration month,
// in UTC. A card with ExpMonth=12, ExpYear=2027 is usable through
// 2027-12-31 23:59:59.999999999.
func CardExpirationTime(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).
		Add(-time.Nanosecond)
}
