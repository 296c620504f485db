package handler

import "time"

// daySeed seeds the tip selector with the day number so the tip rotates
// at midnight but stays fixed within a day.
func daySeed() int64 {
	return time.Now().Unix() / 86400
}
