package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "tripledger/internal/errors"
	"tripledger/internal/logger"
	"tripledger/internal/middleware"
	"tripledger/internal/pagination"
	"tripledger/internal/services"
)

// getSession builds the service session from the authenticated Gin context.
// Returns ErrUnauthorized if no user is present.
func getSession(c *gin.Context) (services.Session, error) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return services.Session{}, apperrors.ErrUnauthorized
	}
	return services.Session{UserID: userID, IsAdmin: c.GetBool(middleware.ContextIsAdmin)}, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	raw := c.Param(param)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return raw, nil
}

// tripScope resolves the session and the trip id every nested route needs.
func tripScope(c *gin.Context) (services.Session, string, error) {
	sess, err := getSession(c)
	if err != nil {
		return sess, "", err
	}
	tripID, err := parsePathID(c, "tripID")
	return sess, tripID, err
}

// tripEntityScope additionally resolves the entity id under the trip.
func tripEntityScope(c *gin.Context) (services.Session, string, string, error) {
	sess, tripID, err := tripScope(c)
	if err != nil {
		return sess, "", "", err
	}
	id, err := parsePathID(c, "id")
	return sess, tripID, id, err
}

func bindInvalid(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

func bindListRequest(c *gin.Context) (pagination.ListRequest, error) {
	var req pagination.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, bindInvalid(err)
	}
	return req, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code and body. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, middleware.ErrorBody(appErr))
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, middleware.ErrorBody(apperrors.ErrInternalServer))
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Entity  string `json:"entity,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
