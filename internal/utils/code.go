// Package utils holds small helpers with no dependencies on the rest
// of the application.
package utils

import "crypto/rand"

// codeAlphabet is the character set for visitor booking codes.  Codes
// are shared out of band (read aloud or typed into chat), so the set
// sticks to digits and uppercase letters.
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeLength is the fixed length of a visitor booking code.
const CodeLength = 6

// GenerateBookingCode returns a random 6-character code drawn from
// codeAlphabet.  Uniqueness is not guaranteed here; callers must
// check the candidate against existing bookings and retry.
func GenerateBookingCode() (string, error) {
    buf := make([]byte, CodeLength)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    for i, b := range buf {
        buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
    }
    return string(buf), nil
}
