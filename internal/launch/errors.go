package launch

import "errors"

var (
	ErrUnknownType      = errors.New("unknown debug type")
	ErrInvalidConfig    = errors.New("invalid launch configuration")
	ErrNoConfigurations = errors.New("launch file has no configurations")
	ErrNotFound         = errors.New("launch configuration not found")
	ErrBadOverride      = errors.New("malformed --set override")
)
