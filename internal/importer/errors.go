package importer

import "errors"

var (
	// ErrArchivoIlegible means the spreadsheet could not be opened or has no sheets.
	ErrArchivoIlegible = errors.New("spreadsheet not readable")
	// ErrPersistencia wraps any database failure; the import transaction was rolled back.
	ErrPersistencia = errors.New("import persistence failed")
	// ErrImportEnCurso is returned instead of waiting when another import holds the lock.
	ErrImportEnCurso = errors.New("import already running")
)
