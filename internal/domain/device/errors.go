package device

import "errors"

var (
	ErrDeviceNotFound = errors.New("biometric device not found")
	ErrDeviceDisabled = errors.New("biometric device is disabled")
)
