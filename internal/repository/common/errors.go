package common

import "errors"

// ErrCorruptRecord возвращается, если сохранённая запись не проходит проверки домена.
var ErrCorruptRecord = errors.New("corrupt record")
