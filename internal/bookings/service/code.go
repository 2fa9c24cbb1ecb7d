package service

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	bookingCodePrefix = "HS"
	base36            = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewBookingCode returns "HS", the last six digits of the epoch millis and
// four random base36 characters, e.g. HS123456AB3K.
func NewBookingCode(now time.Time) string {
	var b strings.Builder
	b.WriteString(bookingCodePrefix)
	b.WriteString(fmt.Sprintf("%06d", now.UnixMilli()%1_000_000))
	for range 4 {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}
