package service

import (
	"math"
	"time"

	"liftpark/internal/db"
	apperrors "liftpark/internal/errors"
)

// Near-instant releases still bill: elapsed time is clamped to one minute
// so a booking can never complete at zero cost.
const minBilledDuration = time.Minute

type billingRate struct {
	base                 int // flat charge covering the first hour
	extensionPerHalfHour int // charged per half hour beyond the first hour
}

var billingRates = map[string]billingRate{
	db.VehicleCar:  {base: 50, extensionPerHalfHour: 30},
	db.VehicleBike: {base: 25, extensionPerHalfHour: 15},
}

// CostForDuration computes the parking charge for an elapsed stay:
// base + ceil(max(0, hours-1) * 2) * extensionRate, the excess rounded up
// to the next half-hour boundary. Returns the billed duration in hours.
func CostForDuration(vehicleType string, elapsed time.Duration) (int, float64, error) {
	rate, ok := billingRates[vehicleType]
	if !ok {
		return 0, 0, apperrors.InvalidArgument("unknown vehicle type %q", vehicleType)
	}
	if elapsed < minBilledDuration {
		elapsed = minBilledDuration
	}
	hours := elapsed.Hours()
	cost := rate.base
	if hours > 1 {
		extraSlots := int(math.Ceil((hours - 1) * 2))
		cost += extraSlots * rate.extensionPerHalfHour
	}
	return cost, hours, nil
}
