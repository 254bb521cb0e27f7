package comment

import "errors"

var ErrTextRequired = errors.New("this field is required")
