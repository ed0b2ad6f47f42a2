package images

import "errors"

var (
	// ErrInvalidAttachmentCount is returned when a message does not carry exactly one file.
	ErrInvalidAttachmentCount = errors.New("exactly one attachment is required")
	// ErrNotAnImage is returned when the attachment has no width or height.
	ErrNotAnImage = errors.New("attachment is not an image")
	// ErrUnsupportedImageFormat is returned when the extension is not .png or .gif.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
	// ErrNameNotFound is returned when an asset name does not exist.
	ErrNameNotFound = errors.New("name not found")
	// ErrInvalidCalendarDate is returned for a month/day pair that is not a real date.
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	// ErrNothingScheduled is returned when resetting a date that has no entry.
	ErrNothingScheduled = errors.New("nothing scheduled on this date")
	// ErrFileMissing is returned when an asset's file is not on disk.
	ErrFileMissing = errors.New("asset file missing on disk")
	// ErrUnknownCategory is returned when parsing a category name fails.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidName is returned for asset names that cannot be used as file names.
	ErrInvalidName = errors.New("invalid asset name")
)
