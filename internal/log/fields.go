package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldExpenseID = "expense_id"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldCount     = "count"
	FieldBackend   = "backend"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAlert     = "alert"
	ComponentRecurring = "recurring"
	ComponentCSV       = "csv"
	ComponentSheets    = "sheets"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpImport  = "import"
	OpExport  = "export"
	OpProcess = "process"
)
