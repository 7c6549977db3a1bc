package lockerconst

const (
	// NotFoundError is returned if lock is missing.
	NotFoundError = "lock does not exist"
	// InvalidScheduleError is returned on malformed vesting schedule
	// arguments.
	InvalidScheduleError = "invalid vesting schedule"
	// NothingToClaimError is returned when no vested amount is claimable.
	NothingToClaimError = "nothing to claim"
)
