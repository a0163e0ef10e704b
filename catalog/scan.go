package catalog

import (
	"github.com/omrontag/tagscan/enum"
	"github.com/omrontag/tagscan/reqctx"
	"github.com/omrontag/tagscan/taginfo"
)

// Scan drives one full enumeration against transport and returns the
// filtered, JSON-ready catalog: count, System and User namespace names,
// per-tag type resolution, then the spec §4.6 filter/project pass, all in
// one call. warn receives non-fatal decode warnings; a nil warn drops them.
func Scan(transport reqctx.Transport, warn taginfo.Warner) ([]Record, error) {
	ctx := reqctx.New(transport)
	vars, err := enum.GetVariables(ctx, warn)
	if err != nil {
		return nil, err
	}
	return Build(vars), nil
}
