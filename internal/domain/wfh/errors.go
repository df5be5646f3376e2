package wfh

import "errors"

var (
	ErrWFHRequestNotFound = errors.New("work from home request not found")
	ErrExceedsMaxDays     = errors.New("work from home request exceeds the maximum allowed days")
	ErrOverlappingWFH     = errors.New("work from home request overlaps an existing request")
)
