package log

// Common field names for structured logging.
const (
	FieldComponent        = "component"
	FieldRequestID        = "request_id"
	FieldClientIP         = "client_ip"
	FieldMethod           = "method"
	FieldPath             = "path"
	FieldStatusCode       = "status_code"
	FieldDuration         = "duration_ms"
	FieldUserAgent        = "user_agent"
	FieldError            = "error"
	FieldOperation        = "operation"
	FieldMode             = "mode"
	FieldTransactionCount = "transaction_count"
	FieldValidCount       = "valid_count"
	FieldInvalidCount     = "invalid_count"
	FieldWindowCount      = "window_count"
	FieldInvestmentType   = "investment_type"
	FieldInvestedTotal    = "invested_total"
	FieldMonthlyWage      = "monthly_wage"
	FieldAge              = "age"
	FieldEventID          = "event_id"
	FieldExchange         = "exchange"
	FieldQueue            = "queue"
	FieldAttempt          = "attempt"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentPlan      = "plan"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentTrace     = "trace"
	ComponentRateLimit = "rate_limit"
	ComponentSecurity  = "security"
)

// Operations defines standard operation names.
const (
	OpParse    = "parse"
	OpValidate = "validate"
	OpFilter   = "filter"
	OpReturns  = "returns"
	OpProject  = "project"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
