package logging

// Field names shared by all log entries so output can be filtered consistently.
const (
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldRow        = "row"
	FieldVendor     = "vendor"
	FieldCount      = "count"
	FieldFailed     = "failed"
	FieldWorkers    = "workers"
	FieldDuration   = "duration_ms"
	FieldRunID      = "run_id"
	FieldRemoteAddr = "remote_addr"
)
