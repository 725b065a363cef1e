package timezone

import "time"

// Oficina em Nairóbi; CompletedAt e notas fiscais usam esse fuso.
const DefaultTimezone = "Africa/Nairobi"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		// sem tzdata na imagem
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Clock returns a now func bound to tz, for use cases that stamp times.
func Clock(tz string) func() time.Time {
	loc := Location(tz)
	return func() time.Time { return time.Now().In(loc) }
}
