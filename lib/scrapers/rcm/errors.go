package rcm

import "errors"

var (
	// ErrValidation is returned before any request is made when an input is missing or malformed.
	ErrValidation = errors.New("validation error")
	// ErrTokenExtraction means the login page could not be fetched or no longer has the expected form fields.
	ErrTokenExtraction = errors.New("could not extract login form tokens")
	// ErrAuthentication covers a rejected login and any transport failure during the login sequence.
	ErrAuthentication = errors.New("authentication failed")
	// ErrSessionExpired means an authenticated request was answered with html (the login page) instead of data.
	ErrSessionExpired = errors.New("session expired")
	// ErrCategoryFetch is any other failure while fetching the first page of a category.
	ErrCategoryFetch = errors.New("category fetch failed")
	// ErrPageFetch is a failure on a supplementary page, it is logged and never surfaced.
	ErrPageFetch = errors.New("page fetch failed")
)
