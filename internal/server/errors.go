package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apartmentdomain "github.com/smallbiznis/propertydesk/internal/apartment/domain"
	invoicedomain "github.com/smallbiznis/propertydesk/internal/invoice/domain"
	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	propertydomain "github.com/smallbiznis/propertydesk/internal/property/domain"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/smallbiznis/propertydesk/pkg/db"
	"gorm.io/gorm"
)

// errorResponse is the body for every failed /api request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// legacyErrorResponse is kept for the water meter and invoice payment routes,
// whose clients read a bare error field.
type legacyErrorResponse struct {
	Error string `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

const legacyErrorBodyKey = "legacy_error_body"

type apiError struct {
	target  error
	status  int
	message string
}

// apiErrors is checked in order; the first errors.Is match wins.
var apiErrors = []apiError{
	{ErrInvalidRequest, http.StatusBadRequest, "Invalid request body"},
	{ErrNotFound, http.StatusNotFound, "Not found"},
	{gorm.ErrRecordNotFound, http.StatusNotFound, "Not found"},

	{waterdomain.ErrInvalidID, http.StatusBadRequest, "Valid water_meter_id is required"},
	{waterdomain.ErrMeterFieldsRequired, http.StatusBadRequest, "apartment_id and meter_number are required"},
	{waterdomain.ErrMeterNumberTooLong, http.StatusBadRequest, "meter_number exceeds 20 characters"},
	{waterdomain.ErrNoFieldsToUpdate, http.StatusBadRequest, "No fields provided to update"},
	{waterdomain.ErrMeterNotFound, http.StatusNotFound, "Water meter not found"},
	{waterdomain.ErrInvalidReadingID, http.StatusBadRequest, "Valid reading_id is required"},
	{waterdomain.ErrEmptyBatch, http.StatusBadRequest, "Request body must be a non-empty array of water readings"},
	{waterdomain.ErrInvalidBatchItem, http.StatusBadRequest, "Each reading must include water_meter_id, reading_date, and water_meter_reading"},
	{waterdomain.ErrReadingFieldsMissing, http.StatusBadRequest, "Missing required fields"},
	{waterdomain.ErrInvalidReadingDate, http.StatusBadRequest, "reading_date must be a valid YYYY-MM-DD date"},
	{waterdomain.ErrNegativeReading, http.StatusBadRequest, "water_meter_reading must not be negative"},
	{waterdomain.ErrReadingNotFound, http.StatusNotFound, "Water reading not found"},

	{paymentdomain.ErrInvalidID, http.StatusBadRequest, "Valid payment_id is required"},
	{paymentdomain.ErrFieldsRequired, http.StatusBadRequest, "Tenancy ID, payment date, and amount paid are required"},
	{paymentdomain.ErrInvalidAmount, http.StatusBadRequest, "amount_paid must be greater than zero"},
	{paymentdomain.ErrInvalidDate, http.StatusBadRequest, "Dates must be formatted as YYYY-MM-DD"},
	{paymentdomain.ErrInvalidMonths, http.StatusBadRequest, "Invalid number of months"},
	{paymentdomain.ErrNotFound, http.StatusNotFound, "Payment not found"},

	{invoicedomain.ErrInvalidID, http.StatusBadRequest, "Invoice ID is required"},
	{invoicedomain.ErrFieldsRequired, http.StatusBadRequest, "Tenancy ID, invoice number, month billed, date billed, and due date are required"},
	{invoicedomain.ErrNoFieldsToUpdate, http.StatusBadRequest, "At least one field (amount_paid, status) must be provided to update"},
	{invoicedomain.ErrInvalidStatus, http.StatusBadRequest, "status must be one of Open, Closed, Overdue"},
	{invoicedomain.ErrInvalidDate, http.StatusBadRequest, "Invoice dates must be formatted as YYYY-MM-DD"},
	{invoicedomain.ErrInvalidAmount, http.StatusBadRequest, "Invoice amounts must not be negative"},
	{invoicedomain.ErrNotFound, http.StatusNotFound, "Invoice not found"},
	{invoicedomain.ErrInvalidPaymentID, http.StatusBadRequest, "Valid invoice_payment_id is required"},
	{invoicedomain.ErrPaymentFieldsRequired, http.StatusBadRequest, "Invoice ID, payment ID, and amount applied are required"},
	{invoicedomain.ErrPaymentNotFound, http.StatusNotFound, "Invoice payment not found"},

	{propertydomain.ErrInvalidID, http.StatusBadRequest, "Valid property_id is required"},
	{propertydomain.ErrNotFound, http.StatusNotFound, "Property not found"},
	{apartmentdomain.ErrInvalidID, http.StatusBadRequest, "Valid apartment_id is required"},
	{apartmentdomain.ErrNotFound, http.StatusNotFound, "Apartment not found"},
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		if c.GetBool(legacyErrorBodyKey) {
			c.AbortWithStatusJSON(status, legacyErrorResponse{Error: message})
			return
		}
		c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: message})
	}
}

// LegacyErrorBody marks a route group as answering errors with {error} only.
func LegacyErrorBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(legacyErrorBodyKey, true)
		c.Next()
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError resolves an error to its status and client message. Unknown errors
// are 500 and carry the underlying message.
func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal server error"
	}
	if e, ok := lookupAPIError(err); ok {
		return e.status, e.message
	}
	return http.StatusInternalServerError, err.Error()
}

func lookupAPIError(err error) (apiError, bool) {
	for _, e := range apiErrors {
		if errors.Is(err, e.target) {
			return e, true
		}
	}
	return apiError{}, false
}

// classifyErrorForLog yields (error_type, error_code) for the request log.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if e, ok := lookupAPIError(err); ok {
		switch e.status {
		case http.StatusNotFound:
			return "not_found", e.target.Error()
		default:
			return "validation_error", e.target.Error()
		}
	}
	return "internal_error", db.ErrorCode(err)
}
