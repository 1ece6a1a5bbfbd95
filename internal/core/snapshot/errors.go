package snapshot

import "errors"

var (
	ErrUnbound           = errors.New("snapshot is not bound to a root")
	ErrHolderUnreachable = errors.New("holder path does not lead to a struct")
	ErrInvalidRecord     = errors.New("invalid snapshot record")
	ErrUnresolvedRoot    = errors.New("record root cannot be resolved")
)
