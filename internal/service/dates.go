package service

import (
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day zero of the spreadsheet serial date scheme: serial 1 is
// 1899-12-31, serial 25569 is 1970-01-01, serial 45000 is 2023-03-15.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// NormalizeBirthDate converts a spreadsheet serial date number into an ISO
// calendar date. Values that do not parse as a number are calendar-date
// strings already and pass through unchanged.
func NormalizeBirthDate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	d := serialEpoch.Add(time.Duration(serial * 86400 * float64(time.Second)))
	return d.UTC().Format("2006-01-02")
}
