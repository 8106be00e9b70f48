package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so callers can branch without string matching
var (
	// TagConfig marks invalid or incomplete configuration detected before any
	// browser work starts
	TagConfig = goerr.NewTag("config")

	// TagLoginFailed marks a login rejected with explicit error markup
	TagLoginFailed = goerr.NewTag("login_failed")

	// TagVerificationRequired marks a login blocked by CAPTCHA, OTP or an
	// unrecognized page state
	TagVerificationRequired = goerr.NewTag("verification_required")

	// TagElementNotFound marks exhaustion of all selector candidates
	TagElementNotFound = goerr.NewTag("element_not_found")

	// TagFieldEmpty marks a target field with no usable content
	TagFieldEmpty = goerr.NewTag("field_empty")

	// TagMutationRejected marks a rewrite that failed validation
	TagMutationRejected = goerr.NewTag("mutation_rejected")

	// TagOracle marks rewrite generation failures
	TagOracle = goerr.NewTag("oracle")

	// TagNotification marks summary delivery failures
	TagNotification = goerr.NewTag("notification")
)

// Sentinel errors for domain operations
var (
	ErrElementNotFound = goerr.New("no selector candidate matched", goerr.T(TagElementNotFound))
	ErrRunNotFound     = goerr.New("run not found")
)
