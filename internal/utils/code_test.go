package utils

import (
    "strings"
    "testing"
)

func TestGenerateBookingCode(t *testing.T) {
    seen := make(map[string]bool)
    for i := 0; i < 200; i++ {
        code, err := GenerateBookingCode()
        if err != nil {
            t.Fatalf("GenerateBookingCode: %v", err)
        }
        if len(code) != CodeLength {
            t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
        }
        for _, r := range code {
            if !strings.ContainsRune(codeAlphabet, r) {
                t.Fatalf("code %q contains %q outside the alphabet", code, r)
            }
        }
        seen[code] = true
    }
    // 200 draws from a 36^6 space colliding down to a handful of
    // distinct values would indicate a broken generator.
    if len(seen) < 150 {
        t.Errorf("only %d distinct codes out of 200 draws", len(seen))
    }
}
