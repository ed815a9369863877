package services

import "time"

// Greeting returns a salutation for the time of day of t
func Greeting(t time.Time) string {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 18:
		return "Good afternoon"
	case hour >= 18 && hour < 23:
		return "Good evening"
	default:
		return "Good night"
	}
}
