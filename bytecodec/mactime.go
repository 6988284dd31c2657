package bytecodec

import (
	"time"

	"github.com/dsoprea/go-logging"
)

// MacEpochOffset is the number of seconds between the HFS epoch
// (1904-01-01 00:00:00 UTC) and the POSIX epoch.
const MacEpochOffset = 2082844800

// safeFallback is substituted whenever the current wall time would not
// fit in the 32-bit Mac-absolute-time range (early 2040).
var safeFallback = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

// MacToPosix converts a 32-bit Mac-absolute-time value to a POSIX
// (Unix) timestamp.
func MacToPosix(mac uint32) int64 {
	return int64(mac) - MacEpochOffset
}

// PosixToMac converts a POSIX timestamp to its 32-bit Mac-absolute-time
// wire value. The caller must ensure t falls within the representable
// range; SafeMacTimeNow is the range-checked entry point used at
// runtime.
func PosixToMac(t int64) uint32 {
	return uint32(t + MacEpochOffset)
}

// SafeMacTimeNow returns PosixToMac(now) if it fits in 32 bits.
// Otherwise it logs an advisory and returns the mac-time encoding of
// 2030-01-01, per the 2040 wrap-around policy.
func SafeMacTimeNow(now time.Time) uint32 {
	posix := now.Unix()
	candidate := posix + MacEpochOffset

	if candidate < 0 || candidate > 0xFFFFFFFF {
		log.Warningf("current time %s does not fit in a 32-bit mac-absolute-time value; substituting safe fallback", now)
		return PosixToMac(safeFallback.Unix())
	}

	return uint32(candidate)
}
