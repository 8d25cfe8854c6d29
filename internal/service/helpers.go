package service

import (
	"time"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/repository"
)

// clock returns the current time at the precision the store keeps.
type clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func pageOf(info repository.PageInfo) contract.Page {
	return contract.Page{
		Page:       info.Page,
		PageSize:   info.PageSize,
		Total:      info.Total,
		TotalPages: info.TotalPages,
	}
}
