package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/accident"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/fastag"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/fuel"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/salary"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/storage"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrWrongPassword):
		BadRequest(w, err.Error(), nil)

	// User errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrDriverAccessRequired):
		Forbidden(w, "Driver account required")

	// Driver errors
	case errors.Is(err, driver.ErrDriverNotFound), errors.Is(err, salary.ErrDriverNotFound):
		NotFound(w, "Driver not found")
	case errors.Is(err, driver.ErrDriverMobileExists):
		Conflict(w, "Mobile number already registered")
	case errors.Is(err, driver.ErrLoginEmailExists):
		Conflict(w, "Login email already registered")
	case errors.Is(err, driver.ErrDriverInactive):
		Forbidden(w, "Driver is inactive")

	// Duty errors
	case errors.Is(err, duty.ErrDutyNotFound):
		NotFound(w, "Duty record not found")
	case errors.Is(err, duty.ErrAlreadyPunchedIn):
		Conflict(w, "Already punched in")
	case errors.Is(err, duty.ErrNotPunchedIn):
		Conflict(w, "No open duty to punch out")
	case errors.Is(err, duty.ErrDutyClosed):
		Conflict(w, "Duty is already closed")
	case errors.Is(err, duty.ErrOdometerBackwards):
		BadRequest(w, err.Error(), map[string]string{"end_odometer": "must not be lower than start_odometer"})
	case errors.Is(err, duty.ErrDriverIDRequired):
		BadRequest(w, err.Error(), map[string]string{"driver_id": "driver_id is required"})
	case errors.Is(err, duty.ErrPunchPhotoRequired):
		BadRequest(w, err.Error(), map[string]string{"photo": "photo is required"})

	// Parking errors
	case errors.Is(err, parking.ErrParkingEntryNotFound):
		NotFound(w, "Parking entry not found")
	case errors.Is(err, parking.ErrAlreadyReviewed):
		Conflict(w, "Parking entry already reviewed")
	case errors.Is(err, parking.ErrDutyMismatch):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, parking.ErrCannotDeleteApproved):
		Conflict(w, err.Error())

	// Advance errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")
	case errors.Is(err, advance.ErrRecoveryExceedsAmount):
		BadRequest(w, err.Error(), map[string]string{"amount": "exceeds outstanding advance"})
	case errors.Is(err, advance.ErrAdvanceHasRecovery):
		Conflict(w, err.Error())

	// Fuel and fastag errors
	case errors.Is(err, fuel.ErrFuelEntryNotFound):
		NotFound(w, "Fuel entry not found")
	case errors.Is(err, fastag.ErrRechargeNotFound):
		NotFound(w, "Fastag recharge not found")
	case errors.Is(err, fastag.ErrDuplicateTransactionRef):
		Conflict(w, "Transaction reference already recorded")
	case errors.Is(err, accident.ErrAccidentLogNotFound):
		NotFound(w, "Accident log not found")

	// Salary errors
	case errors.Is(err, salary.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// File errors
	case errors.Is(err, file.ErrInvalidFileType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "Invalid file path", nil)
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
