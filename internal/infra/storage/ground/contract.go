package ground

import "github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor
