package power

import "codeberg.org/mutker/battlevel/internal/errors"

const (
	ErrPowerQuery    = errors.ErrPowerQuery
	ErrInvalidSource = errors.ErrInvalidSource
	ErrNoPowerSource = errors.ErrorCode("power_no_source")
)
