// Package apierr classifies errors returned by Google Cloud client libraries into types.ErrorKind.
package apierr

import (
	"errors"
	"net/http"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Translate wraps err with the kind derived from it. nil stays nil, and an error that already has a kind is returned as is.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var kErr *types.KindError
	if errors.As(err, &kErr) {
		return err
	}

	return types.NewKindError(Classify(err), err)
}

// Classify returns the kind of err without wrapping it.
func Classify(err error) types.ErrorKind {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return types.KindNotFound
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return fromHTTPCode(gErr.Code)
	}

	// BigQuery reports job failures in the job status, not as an HTTP error.
	var bqErr *bigquery.Error
	if errors.As(err, &bqErr) {
		return fromReason(bqErr.Reason)
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			return fromHTTPCode(code)
		}
		if s := apiErr.GRPCStatus(); s != nil {
			return fromGRPCCode(s.Code())
		}
	}

	if s, ok := status.FromError(err); ok {
		return fromGRPCCode(s.Code())
	}

	return types.KindUnexpected
}

func fromHTTPCode(code int) types.ErrorKind {
	switch code {
	case http.StatusNotFound:
		return types.KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.KindPermissionDenied
	default:
		return types.KindUnexpected
	}
}

func fromGRPCCode(code codes.Code) types.ErrorKind {
	switch code {
	case codes.NotFound:
		return types.KindNotFound
	case codes.PermissionDenied, codes.Unauthenticated:
		return types.KindPermissionDenied
	default:
		return types.KindUnexpected
	}
}

// https://cloud.google.com/bigquery/docs/error-messages
func fromReason(reason string) types.ErrorKind {
	switch reason {
	case "notFound":
		return types.KindNotFound
	case "accessDenied":
		return types.KindPermissionDenied
	default:
		return types.KindUnexpected
	}
}

// HasHTTPCode reports whether err carries the HTTP status code. It is used for codes that are not a failure kind, such as 409 Conflict or 412 Precondition Failed.
func HasHTTPCode(err error, code int) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == code
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPCode() == code
	}

	return false
}
