package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"admin-console/internal/apiclient"
	"admin-console/internal/model"
	"admin-console/internal/session"
	"admin-console/pkg/apierror"
)

const defaultLoginPath = "/login"

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.PaginationMeta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// classify maps an error from any layer to the console's status and error
// body. Login failures are checked first because they wrap client errors.
func classify(err error) (int, *model.APIError) {
	var (
		loginErr  *session.LoginError
		apiErr    *apierror.APIError
		clientErr *apiclient.Error
	)

	switch {
	case errors.As(err, &loginErr):
		return loginStatus(loginErr)
	case errors.As(err, &apiErr):
		return apiErr.HTTPStatus, &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
			Payload: apiErr.Payload,
		}
	case errors.As(err, &clientErr):
		return clientStatus(clientErr)
	case errors.Is(err, model.ErrNotAuthenticated), errors.Is(err, model.ErrTokenExpired):
		return http.StatusUnauthorized, &model.APIError{Code: "LOGIN_REQUIRED", Message: "Session expired or missing, please log in", Details: defaultLoginPath}
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, &model.APIError{Code: "FORBIDDEN", Message: "Access denied"}
	case errors.Is(err, model.ErrCategoryNotFound):
		return http.StatusNotFound, &model.APIError{Code: "NOT_FOUND", Message: "Category not found"}
	case errors.Is(err, model.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, &model.APIError{Code: "UNSUPPORTED_TYPE", Message: "File is not a supported image", Details: err.Error()}
	case errors.Is(err, model.ErrNoImages):
		return http.StatusBadRequest, &model.APIError{Code: "BAD_REQUEST", Message: "No images provided", Details: "images"}
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, &model.APIError{Code: "BAD_REQUEST", Message: "Invalid input", Details: err.Error()}
	}

	// Log unclassified errors so they are visible in console logs.
	slog.Error("unhandled error in writeError", "error", err)
	return http.StatusInternalServerError, &model.APIError{Code: "INTERNAL_ERROR", Message: "Unexpected console error"}
}

func clientStatus(err *apiclient.Error) (int, *model.APIError) {
	switch err.Kind {
	case apiclient.KindPoisoned:
		return http.StatusBadGateway, &model.APIError{Code: "POISONED_RESPONSE", Message: err.Message, Details: err.Snippet}
	case apiclient.KindMalformed:
		return http.StatusBadGateway, &model.APIError{Code: "MALFORMED_RESPONSE", Message: "Backend returned an invalid JSON body", Details: err.Snippet}
	case apiclient.KindTimeout:
		return http.StatusGatewayTimeout, &model.APIError{Code: "UPSTREAM_TIMEOUT", Message: "Backend did not answer in time"}
	case apiclient.KindNetwork:
		return http.StatusBadGateway, &model.APIError{Code: "UPSTREAM_UNAVAILABLE", Message: "Backend is unreachable", Details: err.Error()}
	case apiclient.KindAuthExpired:
		loginPath := err.LoginPath
		if loginPath == "" {
			loginPath = defaultLoginPath
		}
		return http.StatusUnauthorized, &model.APIError{Code: "LOGIN_REQUIRED", Message: "Session expired, please log in again", Details: loginPath}
	case apiclient.KindAuthForbidden:
		return http.StatusForbidden, &model.APIError{Code: "FORBIDDEN", Message: "Access denied: admin role required"}
	case apiclient.KindHTTPStatus:
		title, description, _ := apiclient.Summary(err)
		status := err.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, &model.APIError{Code: "BACKEND_ERROR", Message: title, Details: description, Payload: err.Payload}
	}
	return http.StatusBadGateway, &model.APIError{Code: "UPSTREAM_ERROR", Message: err.Error()}
}

func loginStatus(err *session.LoginError) (int, *model.APIError) {
	body := &model.APIError{Code: "LOGIN_FAILED", Message: err.Reason.Message()}

	switch err.Reason {
	case session.LoginInvalidCredentials:
		body.Code = "INVALID_CREDENTIALS"
		return http.StatusUnauthorized, body
	case session.LoginAccessDenied:
		body.Code = "ACCESS_DENIED"
		return http.StatusForbidden, body
	case session.LoginExpiredToken:
		body.Code = "EXPIRED_TOKEN"
		return http.StatusUnauthorized, body
	case session.LoginNetworkError:
		body.Code = "UPSTREAM_UNAVAILABLE"
		return http.StatusBadGateway, body
	}
	return http.StatusBadGateway, body
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest)
	}
	return nil
}
