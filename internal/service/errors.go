package service

import "errors"

var (
	// ErrNotFound means the referenced customer, tag or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures stay indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBlocked means the account was blocked by the operator.
	ErrBlocked = errors.New("account is blocked")
	// ErrAccessDenied means the record exists but self-service access is
	// shut off (blocked or withdrawn).
	ErrAccessDenied = errors.New("access denied")
	// ErrEmailRequired means the request carried no email address.
	ErrEmailRequired = errors.New("email is required")
	// ErrEmailNotRegistered means no active account uses the email.
	ErrEmailNotRegistered = errors.New("email is not registered")
	// ErrPasswordTooShort enforces the customer password minimum.
	ErrPasswordTooShort = errors.New("password is too short")
	// ErrAdminPasswordTooShort enforces the console secret minimum.
	ErrAdminPasswordTooShort = errors.New("admin password is too short")
	// ErrStageNotAllowed rejects stage changes outside the one-step
	// forward rule.
	ErrStageNotAllowed = errors.New("stage change not allowed")
	// ErrEmptyMessage rejects blank chat or broadcast messages.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNoRecipients means a broadcast matched nobody.
	ErrNoRecipients = errors.New("no matching recipients")
	// ErrEmptyTagName rejects blank tag names.
	ErrEmptyTagName = errors.New("tag name is empty")
	// ErrDuplicateTagName rejects a second tag with an existing name.
	ErrDuplicateTagName = errors.New("tag name already exists")
	// ErrRateLimited means the per-token chat window is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrInvalidFields rejects malformed bulk field updates.
	ErrInvalidFields = errors.New("invalid fields")
)
