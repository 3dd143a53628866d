package model

import "errors"

var ErrorMissingInput = errors.New("missing user or channel data")
var ErrorUserNotFound = errors.New("user not found")
var ErrorRegistrationInProgress = errors.New("registration already in progress")
var ErrorKeyNotFound = errors.New("key not found")
