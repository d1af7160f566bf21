package generator

import "errors"

var (
	// ErrInvalidLength is returned when the requested length is outside
	// [MinLength, MaxLength].
	ErrInvalidLength = errors.New("password length out of range")

	// ErrNoCharacterClasses is returned when every character class is
	// disabled, or the enabled ones are empty after similar characters
	// were removed.
	ErrNoCharacterClasses = errors.New("no character classes selected")

	// ErrInvalidWordCount is returned when the memorable word count is
	// outside [MinWords, MaxWords].
	ErrInvalidWordCount = errors.New("word count out of range")
)
