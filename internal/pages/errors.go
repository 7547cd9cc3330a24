package pages

import "errors"

var (
	ErrRepositoryName     = errors.New("repository needs a site name")
	ErrPageNotFound       = errors.New("page not found")
	ErrNoPagesDir         = errors.New("no pages directory configured")
	ErrReadingFile        = errors.New("could not read page file")
	ErrFileStats          = errors.New("could not stat page file")
	ErrFileTooLarge       = errors.New("page file exceeds size limit")
	ErrMDConversion       = errors.New("markdown conversion failed")
	ErrContentUnavailable = errors.New("page content unavailable")
)
