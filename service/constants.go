package service

const (
	// Límites de plazos para recomendación
	MaxTenureRangeYears = 30 // máximo rango de plazos a evaluar

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100 // tope de registros por consulta

	scheduleCachePrefix = "schedule:"
)
