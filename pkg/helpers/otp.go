package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// KeyRegisterOTP is the Redis key holding the pending OTP for an email.
func KeyRegisterOTP(email string) string {
	return "register:otp:" + strings.ToLower(strings.TrimSpace(email))
}

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
