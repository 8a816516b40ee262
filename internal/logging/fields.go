package logging

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldKey       = "key"
	FieldTripID    = "trip_id"
	FieldTripType  = "trip_type"
	FieldStartKm   = "start_km"
	FieldEndKm     = "end_km"
	FieldDistance  = "distance_km"
	FieldCurrentKm = "current_km"
	FieldCount     = "count"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentReport  = "report"
)
