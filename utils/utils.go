package utils

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

// FormatClock renders a second count as mm:ss for the scoreboard clock.
// Negative values clamp to 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// TodayISO returns the current local date as YYYY-MM-DD.
func TodayISO() string {
	return time.Now().Format("2006-01-02")
}

// IsValidDateISO reports whether s parses as YYYY-MM-DD.
func IsValidDateISO(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
