package block

import (
	"strconv"

	"pagedb/pkg/dberr"
	"pagedb/pkg/page"
)

func errBlockNotFound(id page.PageID) error {
	return dberr.New(dberr.PageNotPresent, "block "+strconv.FormatUint(uint64(id), 10)+" not found")
}
