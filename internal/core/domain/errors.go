package domain

import "errors"

var (
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrVehicleNotFound          = errors.New("vehicle not found")
	ErrCarModelNotFound         = errors.New("car model not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrTransferNotFound         = errors.New("transfer not found")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrNoAvailableVehicle       = errors.New("no available vehicle for the requested interval")
	ErrInvalidReservationStatus = errors.New("operation not allowed in the current reservation status")
	ErrInvalidInterval          = errors.New("end date must be after start date")
	ErrIntervalInPast           = errors.New("reservation dates must be in the future")
	ErrInvalidTransferType      = errors.New("transfer type must be PICKUP or DROPOFF")
	ErrTransferAlreadyExists    = errors.New("reservation already has a transfer of this kind")
	ErrTransferDateMismatch     = errors.New("transfer date must match the reservation boundary date")
	ErrUnauthorizedRole         = errors.New("user does not have the required role")
	ErrMissingProfile           = errors.New("user has no customer profile")
	ErrLicenseExpired           = errors.New("driving license expires before the end of the rental")
	ErrInvalidApprovalToken     = errors.New("approval token is invalid or expired")
	ErrDuplicateEmail           = errors.New("email already registered")
	ErrDuplicateVehicle         = errors.New("license plate or VIN already registered")
	ErrStorageUnavailable       = errors.New("database is unavailable")
	ErrBrokerUnavailable        = errors.New("kafka broker is unavailable")
)
