package services

import "time"

// timeNow returns the current time. Swappable in tests.
var timeNow = time.Now
