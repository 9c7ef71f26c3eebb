package config

import (
	pkgerrors "relgraph/pkg/errors"
)

var (
	errEmptyCoreName  = pkgerrors.NewValidationError("core node name cannot be empty")
	errBadRadiusRange = pkgerrors.NewValidationError("placement radius range is invalid")
	errBadCoreType    = pkgerrors.NewValidationError("core node connection type is invalid")
)
