package domain

import (
	"math/rand"
	"regexp"
	"strconv"
)

var roomCodePattern = regexp.MustCompile(`^\d{4}$`)

// GenerateRoomCode produces a four digit join code from the supplied source.
func GenerateRoomCode(rnd *rand.Rand) string {
	return strconv.Itoa(1000 + rnd.Intn(9000))
}

// ValidRoomCode reports whether code has the expected four digit shape.
func ValidRoomCode(code string) bool {
	return roomCodePattern.MatchString(code)
}
