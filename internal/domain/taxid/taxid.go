// Package taxid implements the checksum validation for the 11-digit
// national tax identifier. The algorithm is the classic two-pass weighted
// sum mod 11: the ninth and tenth positions carry check digits computed
// over the preceding digits with descending weights.
package taxid

const length = 11

// IsValid reports whether raw is a well-formed tax identifier.
// Non-digit characters (dots, dashes, spaces) are stripped before
// validation, so both "59632418042" and "596.324.180-42" are accepted.
// Malformed input simply yields false; the function never fails.
func IsValid(raw string) bool {
	digits := stripNonDigits(raw)
	if len(digits) != length {
		return false
	}

	if allDigitsEqual(digits) {
		return false
	}

	d1 := checkDigit(digits[:9], 10)
	d2 := checkDigit(digits[:10], 11)

	return digits[9] == d1 && digits[10] == d2
}

// Normalize strips formatting from raw and returns the bare 11 digits.
// The second return value is false when raw does not normalize to a valid
// identifier.
func Normalize(raw string) (string, bool) {
	if !IsValid(raw) {
		return "", false
	}

	digits := stripNonDigits(raw)
	buf := make([]byte, len(digits))
	for i, d := range digits {
		buf[i] = byte('0' + d)
	}

	return string(buf), true
}

func stripNonDigits(raw string) []int {
	digits := make([]int, 0, length)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}

	return digits
}

// allDigitsEqual detects degenerate sequences such as "11111111111",
// which satisfy the checksum but are not issued identifiers.
func allDigitsEqual(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}

	return true
}

// checkDigit computes a check digit over digits with weights descending
// from startWeight down to 2. A remainder below 2 maps to 0, otherwise the
// digit is the complement to 11.
func checkDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}

	return 11 - remainder
}
