package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	PoolKey     ContextKey = "pool"
	TxKey       ContextKey = "tx"
	AppKey      ContextKey = "app"
	LoggerKey   ContextKey = "logger"
	ParamsKey   ContextKey = "params"
	TenantIDKey ContextKey = "tenant_id"
	IdentityKey ContextKey = "identity"
)

// Validate is the shared validator instance used by request DTOs.
var Validate = validator.New(validator.WithRequiredStructEnabled())
