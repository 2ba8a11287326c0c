package domain

import "errors"

var ErrInvalidAmount = errors.New("Amount must be positive")
var ErrWithdrawalCapExceeded = errors.New("Withdrawal cap exceeded")
var ErrOverdraftExceeded = errors.New("Overdraft limit exceeded")
var ErrInsufficientBalance = errors.New("Insufficient balance")
var ErrSameAccount = errors.New("Source and destination accounts must differ")
var ErrInvalidRange = errors.New("Start date cannot be after end date")
var ErrDuplicateResource = errors.New("Resource already exists")
var ErrBusinessRuleViolation = errors.New("Business rule violation")
