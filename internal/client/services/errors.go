package services

import "errors"

var (
	ErrBusy           = errors.New("a load or submit is already in progress")
	ErrNotEditing     = errors.New("profile is not being edited")
	ErrAlreadyEditing = errors.New("profile is already being edited")
	ErrFetchFailed    = errors.New("failed to fetch profile")
	ErrUploadFailed   = errors.New("failed to upload images")
	ErrPersistFailed  = errors.New("failed to save profile")
)
